package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ContentLevel controls how much message content reaches debug logs.
type ContentLevel string

const (
	// ContentLevelNone replaces all content with a placeholder.
	ContentLevelNone ContentLevel = "none"
	// ContentLevelHashed keeps the text but hashes detected PII.
	ContentLevelHashed ContentLevel = "hashed"
	// ContentLevelFull logs content unchanged.
	ContentLevelFull ContentLevel = "full"
)

const (
	redacted         = "[REDACTED]"
	defaultMaxLength = 256
)

// ParseContentLevel maps LOG_CONTENT_LEVEL to a ContentLevel, defaulting to hashed.
func ParseContentLevel(value string) ContentLevel {
	switch ContentLevel(strings.ToLower(strings.TrimSpace(value))) {
	case ContentLevelNone:
		return ContentLevelNone
	case ContentLevelFull:
		return ContentLevelFull
	default:
		return ContentLevelHashed
	}
}

// Sanitizer redacts chat content before it is written to logs.
type Sanitizer struct {
	level     ContentLevel
	salt      string
	maxLength int

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	creditCardPattern *regexp.Regexp
	ipv4Pattern       *regexp.Regexp
}

// NewSanitizer creates a sanitizer. salt keeps hashes stable per deployment.
func NewSanitizer(level ContentLevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:             level,
		salt:              salt,
		maxLength:         defaultMaxLength,
		emailPattern:      regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern:      regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		creditCardPattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		ipv4Pattern:       regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	}
}

// Level returns the configured content level.
func (s *Sanitizer) Level() ContentLevel {
	return s.level
}

// SanitizePrompt sanitizes user supplied text.
func (s *Sanitizer) SanitizePrompt(input string) string {
	switch s.level {
	case ContentLevelNone:
		return redacted
	case ContentLevelFull:
		return s.truncate(input)
	default:
		return s.truncate(s.hashPII(input))
	}
}

// SanitizeResponse sanitizes model output with the same rules as prompts.
func (s *Sanitizer) SanitizeResponse(response string) string {
	return s.SanitizePrompt(response)
}

// SanitizeUserID hashes owner ids unless the level is full.
func (s *Sanitizer) SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	switch s.level {
	case ContentLevelNone:
		return redacted
	case ContentLevelFull:
		return userID
	default:
		return s.hash(userID)
	}
}

func (s *Sanitizer) hashPII(input string) string {
	// Cards before phones: a card number contains phone shaped digit runs.
	result := s.creditCardPattern.ReplaceAllString(input, "[CC:REDACTED]")
	result = s.emailPattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	result = s.ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
	return result
}

func (s *Sanitizer) truncate(input string) string {
	if s.maxLength <= 0 || utf8.RuneCountInString(input) <= s.maxLength {
		return input
	}
	runes := []rune(input)
	return string(runes[:s.maxLength]) + "..."
}

// hash returns the first 8 hex chars of a salted SHA-256.
func (s *Sanitizer) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}
