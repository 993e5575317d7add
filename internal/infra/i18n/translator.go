package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"telefication/internal/domain/ports/adapter"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

var _ adapter.Translator = (*Translator)(nil)

type Translator struct {
	translations map[string]string
}

// NewTranslator loads locales/<langCode>.yaml from fsys. Pass LocalesFS in
// production; tests can hand in an fstest.MapFS.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", fmt.Sprintf("%s.yaml", langCode))

	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}
	return newTranslatorFromBytes(data)
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	if translations == nil {
		translations = map[string]string{}
	}
	return &Translator{translations: translations}, nil
}

// T returns the translated format for key, applying args when given.
// Unknown keys come back unchanged.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Missing lists the keys that have no translation.
func (t *Translator) Missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := t.translations[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
