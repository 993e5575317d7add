//go:build !integration

package model

import (
	"reflect"
	"testing"
)

// --- Settings Tests ---

func TestSanitizeEmails(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"comma separated entry", []string{"a@x.com, b@x.com"}, []string{"a@x.com", "b@x.com"}},
		{"drops invalid and blank", []string{"nope", " ", "c@x.com"}, []string{"c@x.com"}},
		{"drops display-name form", []string{"Ann <a@x.com>"}, nil},
		{"empty input", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeEmails(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSanitizeSettings(t *testing.T) {
	in := &Settings{
		ChatID:           " 1 ",
		BotToken:         "\t123:abc ",
		ChannelUsername:  " @chan ",
		MatchEmails:      []string{"a@x.com,bad"},
		ChannelPostTypes: []string{"post", " ", " page"},
	}
	out := SanitizeSettings(in)

	if out.ChatID != "1" || out.BotToken != "123:abc" || out.ChannelUsername != "@chan" {
		t.Errorf("strings not trimmed: %+v", out)
	}
	if !reflect.DeepEqual(out.MatchEmails, []string{"a@x.com"}) {
		t.Errorf("emails: %v", out.MatchEmails)
	}
	if !reflect.DeepEqual(out.ChannelPostTypes, []string{"post", "page"}) {
		t.Errorf("post types: %v", out.ChannelPostTypes)
	}
	if in.ChatID != " 1 " || len(in.ChannelPostTypes) != 3 || in.ChannelPostTypes[2] != " page" {
		t.Error("input must not be modified")
	}

	t.Run("nil input gives empty settings", func(t *testing.T) {
		if got := SanitizeSettings(nil); got == nil || got.ChatID != "" {
			t.Errorf("got %+v", got)
		}
	})
}

func TestSettingsClone(t *testing.T) {
	s := &Settings{MatchEmails: []string{"a@x.com"}, ChannelPostTypes: []string{"post"}}
	cp := s.Clone()
	cp.MatchEmails[0] = "changed"
	cp.ChannelPostTypes[0] = "page"
	if s.MatchEmails[0] != "a@x.com" || s.ChannelPostTypes[0] != "post" {
		t.Error("clone shares slices with the original")
	}
	if (*Settings)(nil).Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestSettingsHelpers(t *testing.T) {
	s := &Settings{BotToken: "  ", ChannelPostTypes: []string{"post"}}
	if s.HasBotToken() {
		t.Error("blank token is not a token")
	}
	if !s.AllowsChannelPostType("post") || s.AllowsChannelPostType("page") {
		t.Error("post type allow-list mismatch")
	}
}
