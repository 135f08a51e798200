package i18n

import "errors"

var (
	ErrNilAdapter          = errors.New("translation adapter is nil")
	ErrEmptyLanguage       = errors.New("empty language code found")
	ErrNilCatalog          = errors.New("nil translations map for language")
	ErrUnsupportedLanguage = errors.New("language not supported")

	ErrJSONParsingCancelled = errors.New("json parsing cancelled")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON content")
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")

	ErrLoadingFileCancelled = errors.New("loading translation file cancelled")
	ErrFailedToReadFile     = errors.New("failed to read translation file")
	ErrFailedToParseFile    = errors.New("failed to parse translation file")
	ErrFailedToReadDir      = errors.New("failed to read translations directory")
	ErrNoTranslationFiles   = errors.New("no translation files found")
)
