package adapter

// TextConverter turns marked-up text into notification-friendly text.
type TextConverter interface {
	// ToText converts HTML into plain text preserving line structure and
	// basic emphasis.
	ToText(markup string) string
	// StripTags removes every tag not listed in allowed.
	StripTags(markup string, allowed ...string) string
}

// Translator resolves message labels for the configured locale.
type Translator interface {
	T(key string, args ...interface{}) string
}
