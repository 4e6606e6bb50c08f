package i18n

import "errors"

var (
	ErrNoTranslations     = errors.New("i18n: no translations loaded")
	ErrInvalidCatalog     = errors.New("i18n: invalid catalog")
	ErrFailedToParseYAML  = errors.New("i18n: failed to parse YAML content")
	ErrFailedToReadFile   = errors.New("i18n: failed to read translation file")
	ErrLoadingCancelled   = errors.New("i18n: loading translations cancelled")
	ErrDefaultUnsupported = errors.New("i18n: default language has no translations")
)
