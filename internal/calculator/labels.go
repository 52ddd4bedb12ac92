package calculator

import (
	"fmt"
	"strings"
)

// Locale selects the wording of generated participant labels.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocalePersian Locale = "fa"
)

// ParseLocale maps a locale tag such as "fa-IR" or "EN" to a supported Locale.
// Unknown tags fall back to English.
func ParseLocale(tag string) Locale {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
	if Locale(base) == LocalePersian {
		return LocalePersian
	}
	return LocaleEnglish
}

type labels struct {
	groupFormat string
	eachSuffix  string
}

var localeLabels = map[Locale]labels{
	LocaleEnglish: {groupFormat: "%d Other people", eachSuffix: " (Each)"},
	LocalePersian: {groupFormat: "%d نفر دیگر", eachSuffix: " (هر کدام)"},
}

func (l labels) group(n int) string {
	return fmt.Sprintf(l.groupFormat, n)
}

func (l labels) each(name string) string {
	return name + l.eachSuffix
}

// Option configures ComputeSettlement.
type Option func(*config)

type config struct {
	labels labels
}

// WithLocale sets the language used to label the unpaid group.
func WithLocale(locale Locale) Option {
	return func(c *config) {
		if l, ok := localeLabels[locale]; ok {
			c.labels = l
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{labels: localeLabels[LocaleEnglish]}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
