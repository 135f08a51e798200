package i18n

import (
	"net/http"
	"strings"
)

// ExtractorConfig holds configuration for the language extractor.
type ExtractorConfig struct {
	CookieName     string
	QueryParamName string
	SupportedLangs []string
}

// ExtractorOption configures the language extractor.
type ExtractorOption func(*ExtractorConfig)

// WithCookieName sets the cookie checked for a language preference.
func WithCookieName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.CookieName = name
		}
	}
}

// WithQueryParamName sets the query parameter checked for a language.
func WithQueryParamName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.QueryParamName = name
		}
	}
}

// WithSupportedLanguages restricts extracted languages to langs.
func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if len(langs) > 0 {
			c.SupportedLangs = langs
		}
	}
}

// DefaultLangExtractor checks, in order, the query parameter (default
// "lang"), the cookie (default "lang") and the Accept-Language header. The
// first value that normalizes to a supported language wins; "" means none did.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	config := &ExtractorConfig{
		CookieName:     "lang",
		QueryParamName: "lang",
	}
	for _, opt := range opts {
		opt(config)
	}

	return func(r *http.Request) string {
		if config.QueryParamName != "" {
			if lang := NormalizeLanguage(r.URL.Query().Get(config.QueryParamName), config.SupportedLangs); lang != "" {
				return lang
			}
		}

		if config.CookieName != "" {
			if cookie, err := r.Cookie(config.CookieName); err == nil {
				if lang := NormalizeLanguage(cookie.Value, config.SupportedLangs); lang != "" {
					return lang
				}
			}
		}

		header := strings.TrimSpace(r.Header.Get("Accept-Language"))
		if header == "" {
			return ""
		}
		if len(config.SupportedLangs) > 0 {
			return ParseAcceptLanguage(header, config.SupportedLangs, "")
		}
		first, _, _ := strings.Cut(header, ",")
		first, _, _ = strings.Cut(first, ";")
		return NormalizeLanguage(first, nil)
	}
}
