package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language can be negotiated.
const DefaultLanguage = "en"

// maxAcceptLanguageLength caps the header before parsing.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage picks the supported language that best matches an
// Accept-Language header, honoring q-values and falling back from regional
// variants to their base language (es-MX matches es). It returns defaultLang
// when the header is empty, malformed or matches nothing.
func ParseAcceptLanguage(header string, supportedLangs []string, defaultLang string) string {
	if header == "" || len(supportedLangs) == 0 {
		return defaultLang
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return defaultLang
	}

	lang, ok := newMatcher(supportedLangs).match(prefs...)
	if !ok {
		return defaultLang
	}
	return lang
}

// matcher wraps language.Matcher and maps results back to the caller's codes.
type matcher struct {
	m     language.Matcher
	codes []string
}

func newMatcher(supported []string) *matcher {
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, code := range supported {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, strings.ToLower(code))
	}
	if len(tags) == 0 {
		return &matcher{}
	}
	return &matcher{m: language.NewMatcher(tags), codes: codes}
}

func (m *matcher) match(prefs ...language.Tag) (string, bool) {
	if m.m == nil || len(prefs) == 0 {
		return "", false
	}
	_, idx, conf := m.m.Match(prefs...)
	if conf == language.No {
		return "", false
	}
	return m.codes[idx], true
}

// NormalizeLanguage returns the supported code matching lang, or "" when lang
// is malformed or unsupported. With no supported list it returns the
// canonical form of lang.
func NormalizeLanguage(lang string, supportedLangs []string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || len(lang) > 35 {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return ""
	}
	if len(supportedLangs) == 0 {
		return strings.ToLower(tag.String())
	}
	code, _ := newMatcher(supportedLangs).match(tag)
	return code
}
