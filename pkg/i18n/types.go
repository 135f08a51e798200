package i18n

import "net/http"

// LangExtractor returns the language code requested by r, or "".
type LangExtractor func(r *http.Request) string
