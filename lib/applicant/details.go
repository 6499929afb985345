package applicant

import (
	"strings"
	"unicode"
)

// DetailSection блок дополнительной информации кандидата
type DetailSection struct {
	Header string       `json:"header,omitempty"` // Заголовок блока
	Items  []DetailItem `json:"items"`            // Строки блока
}

// DetailItem строка "Ключ: Значение" или произвольный текст
type DetailItem struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

// FormatDetails разбирает additional_details для отображения. Формат сервером не гарантируется,
// поэтому все, что не похоже на заголовок или пару ключ-значение, остается текстом
func FormatDetails(details string) []DetailSection {
	result := []DetailSection{}
	current := DetailSection{Items: []DetailItem{}}
	flush := func() {
		if current.Header != "" || len(current.Items) != 0 {
			result = append(result, current)
		}
	}
	for _, rawLine := range strings.Split(strings.ReplaceAll(details, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if isHeader(line) {
			flush()
			current = DetailSection{
				Header: strings.TrimSuffix(line, ":"),
				Items:  []DetailItem{},
			}
			continue
		}
		if key, value, ok := splitPair(line); ok {
			current.Items = append(current.Items, DetailItem{Key: key, Value: value})
			continue
		}
		current.Items = append(current.Items, DetailItem{Text: line})
	}
	flush()
	return result
}

// isHeader строка в верхнем регистре без значения после двоеточия
func isHeader(line string) bool {
	trimmed := strings.TrimSuffix(line, ":")
	if strings.Contains(trimmed, ":") {
		return false
	}
	hasLetter := false
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func splitPair(line string) (key, value string, ok bool) {
	pos := strings.Index(line, ":")
	if pos <= 0 || pos == len(line)-1 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:pos])
	value = strings.TrimSpace(line[pos+1:])
	// ссылки вида https://... не пары
	if strings.HasPrefix(value, "//") || key == "" || value == "" || len(key) > 60 {
		return "", "", false
	}
	return key, value, true
}
