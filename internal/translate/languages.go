package translate

import (
	"slices"
	"strings"
)

// FallbackLanguageCode is used when a language name is not in the table.
const FallbackLanguageCode = "en"

var languageCodes = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"polish":     "pl",
	"russian":    "ru",
	"ukrainian":  "uk",
	"turkish":    "tr",
	"arabic":     "ar",
	"hebrew":     "iw",
	"hindi":      "hi",
	"chinese":    "zh-CN",
	"japanese":   "ja",
	"korean":     "ko",
	"vietnamese": "vi",
	"indonesian": "id",
	"swedish":    "sv",
}

// LanguageCode maps a human language name to its translation code.
// Unknown names map to FallbackLanguageCode.
func LanguageCode(name string) string {
	if code, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}

	return FallbackLanguageCode
}

// IsSupportedLanguage reports whether name is in the language table.
func IsSupportedLanguage(name string) bool {
	_, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// LanguageNames returns the supported language names in alphabetical order.
func LanguageNames() []string {
	names := make([]string, 0, len(languageCodes))
	for name := range languageCodes {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
