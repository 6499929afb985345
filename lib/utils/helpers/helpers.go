package helpers

import (
	"strings"
)

// NormalizeEmail емайл как ключ кандидата
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FileNameSafe имя файла для Content-Disposition
func FileNameSafe(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "", "\n", " ", "\r", " ")
	name = replacer.Replace(name)
	if name == "" {
		return "file"
	}
	return name
}
