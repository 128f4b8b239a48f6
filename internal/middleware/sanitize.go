package middleware

import (
	"html"
	"strconv"
	"strings"
	"unicode"

	"github.com/cleberrangel/time-perception-api/internal/model"
)

// SanitizeConfig contains configuration for input sanitization
type SanitizeConfig struct {
	MaxStringLength int  // Maximum allowed length in characters
	AllowHTML       bool // Whether to allow HTML in strings
}

// DefaultSanitizeConfig returns default sanitization configuration
func DefaultSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{
		MaxStringLength: 10000,
		AllowHTML:       false,
	}
}

// SanitizeString remove bytes nulos e caracteres de controle, apara espaços,
// escapa HTML quando não permitido e limita o tamanho
func SanitizeString(input string, config SanitizeConfig) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = removeControlChars(input)
	input = strings.TrimSpace(input)

	if !config.AllowHTML {
		input = html.EscapeString(input)
	}

	if config.MaxStringLength > 0 {
		runes := []rune(input)
		if len(runes) > config.MaxStringLength {
			input = string(runes[:config.MaxStringLength])
		}
	}

	return input
}

// SanitizeEntry limpa os campos de texto livre de um registro.
// O texto é armazenado literalmente; o escape fica a cargo de quem renderiza.
func SanitizeEntry(req *model.EntryCreate) {
	req.Title = SanitizeString(req.Title, SanitizeConfig{MaxStringLength: 200, AllowHTML: true})
	req.Category = sanitizeOptional(req.Category, 50)
	req.Notes = sanitizeOptional(req.Notes, 0)
}

// sanitizeOptional retorna nil quando o texto fica vazio após a limpeza
func sanitizeOptional(value *string, maxLength int) *string {
	if value == nil {
		return nil
	}
	clean := SanitizeString(*value, SanitizeConfig{MaxStringLength: maxLength, AllowHTML: true})
	if clean == "" {
		return nil
	}
	return &clean
}

// ParseID valida um ID numérico vindo da URL
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// removeControlChars removes control characters from a string, keeping line breaks and tabs
func removeControlChars(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
