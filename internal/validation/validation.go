package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits for admin-supplied knowledge entries.
const (
	MaxKeywordLength = 100
	MaxAnswerLength  = 2000
)

// ValidateQuery checks a widget query: non-blank and at most maxLen
// characters before trimming.
func ValidateQuery(query string, maxLen int) (bool, string) {
	if strings.TrimSpace(query) == "" {
		return false, "Query is required and must be a non-empty string"
	}
	if maxLen > 0 && utf8.RuneCountInString(query) > maxLen {
		return false, fmt.Sprintf("Query is too long (max %d characters)", maxLen)
	}
	return true, ""
}

// ValidateKeyword checks a knowledge base keyword. Any script is allowed;
// control characters are not, and invisible format characters (bidi marks,
// zero-width joiners) do not count as content.
func ValidateKeyword(keyword string) (bool, string) {
	trimmed := strings.TrimSpace(keyword)
	if strings.TrimSpace(strings.Map(dropFormat, trimmed)) == "" {
		return false, "Keyword is required"
	}
	if utf8.RuneCountInString(trimmed) > MaxKeywordLength {
		return false, fmt.Sprintf("Keyword is too long (max %d characters)", MaxKeywordLength)
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return false, "Keyword must not contain control characters"
	}
	return true, ""
}

func dropFormat(r rune) rune {
	if unicode.Is(unicode.Cf, r) {
		return -1
	}
	return r
}

// ValidateAnswer checks the answer text of a knowledge base entry.
func ValidateAnswer(answer string) (bool, string) {
	if strings.TrimSpace(answer) == "" {
		return false, "Answer is required"
	}
	if utf8.RuneCountInString(answer) > MaxAnswerLength {
		return false, fmt.Sprintf("Answer is too long (max %d characters)", MaxAnswerLength)
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateVoiceURL accepts an absolute http(s) URL or a site-relative path.
// An empty value is valid since voice clips are optional.
func ValidateVoiceURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return true, ""
	}
	if strings.HasPrefix(urlStr, "/") && !strings.HasPrefix(urlStr, "//") {
		if _, err := url.Parse(urlStr); err != nil {
			return false, "Invalid URL format"
		}
		return true, ""
	}
	return ValidateURL(urlStr)
}
