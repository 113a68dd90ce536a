package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContentLevel(t *testing.T) {
	tests := []struct {
		input string
		want  ContentLevel
	}{
		{"none", ContentLevelNone},
		{" FULL ", ContentLevelFull},
		{"hashed", ContentLevelHashed},
		{"", ContentLevelHashed},
		{"verbose", ContentLevelHashed},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseContentLevel(tt.input))
		})
	}
}

func TestSanitizePromptNone(t *testing.T) {
	s := NewSanitizer(ContentLevelNone, "chat-api")
	assert.Equal(t, "[REDACTED]", s.SanitizePrompt("My email is john@example.com"))
	assert.Equal(t, "[REDACTED]", s.SanitizeResponse("anything"))
}

func TestSanitizePromptFull(t *testing.T) {
	s := NewSanitizer(ContentLevelFull, "chat-api")
	input := "My email is john@example.com"
	assert.Equal(t, input, s.SanitizePrompt(input))
}

func TestSanitizePromptHashed(t *testing.T) {
	s := NewSanitizer(ContentLevelHashed, "chat-api")

	tests := []struct {
		name   string
		input  string
		hidden string
		marker string
		kept   string
	}{
		{"email", "Contact john.doe@example.com for details", "john.doe@example.com", "[EMAIL:", "for details"},
		{"phone", "Call me at 555-123-4567 tomorrow", "555-123-4567", "[PHONE:", "tomorrow"},
		{"card", "Card 4111 1111 1111 1111 expires", "4111 1111 1111 1111", "[CC:REDACTED]", "expires"},
		{"ip", "Server 192.168.1.10 is down", "192.168.1.10", "[IP:", "is down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.SanitizePrompt(tt.input)
			assert.NotContains(t, result, tt.hidden)
			assert.Contains(t, result, tt.marker)
			assert.Contains(t, result, tt.kept)
		})
	}
}

func TestHashIsStablePerSalt(t *testing.T) {
	a := NewSanitizer(ContentLevelHashed, "salt-a")
	b := NewSanitizer(ContentLevelHashed, "salt-b")

	assert.Equal(t, a.SanitizeUserID("u1"), a.SanitizeUserID("u1"))
	assert.NotEqual(t, a.SanitizeUserID("u1"), b.SanitizeUserID("u1"))
	assert.Len(t, a.SanitizeUserID("u1"), 8)
	assert.Empty(t, a.SanitizeUserID(""))
}

func TestSanitizeTruncatesLongContent(t *testing.T) {
	s := NewSanitizer(ContentLevelFull, "chat-api")
	result := s.SanitizePrompt(strings.Repeat("a", 1000))
	assert.Equal(t, defaultMaxLength+3, len(result))
	assert.True(t, strings.HasSuffix(result, "..."))
}
