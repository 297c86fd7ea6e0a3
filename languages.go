package unicms

import "github.com/goliatone/go-unicms/internal/locale"

type Language = locale.Language

const (
	LanguageRU = locale.RU
	LanguageEN = locale.EN
	LanguageKG = locale.KG
)

// NormalizeLanguage maps code onto ru, en or kg with the default aliases.
// Unknown codes resolve to ru.
func NormalizeLanguage(code string) Language {
	return locale.Normalize(code)
}
