//go:build !integration

package i18n

import (
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	contentBytes := []byte("greeting: سلام\nwelcome_user: سلام %s")
	translator, err := newTranslatorFromBytes(contentBytes)
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		got := translator.T("greeting")
		want := "سلام"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		got := translator.T("nonexistent_key")
		want := "nonexistent_key"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		got := translator.T("welcome_user", "Ali")
		want := "سلام Ali"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})
}

func TestNewTranslatorFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/xx.yaml": {Data: []byte("total: \"Sum: %s\"")},
	}
	tr, err := NewTranslator(fsys, "xx")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	if got := tr.T("total", "10"); got != "Sum: 10" {
		t.Errorf("got %q", got)
	}
	if _, err := NewTranslator(fsys, "de"); err == nil {
		t.Error("expected error for missing locale")
	}
}

// Every key the renderer and dispatcher ask for must exist in each
// shipped locale.
func TestEmbeddedLocalesComplete(t *testing.T) {
	keys := []string{
		"new_comment", "comment_by", "new_post", "post_url", "new_user",
		"new_order", "total", "shipping_info", "billing_info", "name",
		"email", "phone", "country", "city", "postcode", "state",
		"address_1", "address_2", "test_message", "enter_chat_id",
	}
	for _, lang := range []string{"en", "fa"} {
		t.Run(lang, func(t *testing.T) {
			tr, err := NewTranslator(LocalesFS, lang)
			if err != nil {
				t.Fatalf("NewTranslator(%s): %v", lang, err)
			}
			if missing := tr.Missing(keys...); len(missing) > 0 {
				t.Errorf("missing keys: %v", missing)
			}
		})
	}

	en, _ := NewTranslator(LocalesFS, "en")
	if got := en.T("post_url", "http://x/1"); got != "Post URL: http://x/1" {
		t.Errorf("post_url: got %q", got)
	}
}
