package conversation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationConfig holds the limits applied to user supplied fields.
type ValidationConfig struct {
	MaxTitleLength   int
	MaxContentLength int
}

// DefaultValidationConfig returns the service limits.
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTitleLength:   256,
		MaxContentLength: 100000,
	}
}

// Validator checks titles, roles and message content.
type Validator struct {
	config *ValidationConfig
}

// NewValidator creates a validator, falling back to the default limits.
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Validator{config: config}
}

// NormalizeTitle trims title and substitutes DefaultTitle for blank input.
func (v *Validator) NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle, nil
	}
	if utf8.RuneCountInString(title) > v.config.MaxTitleLength {
		return "", fmt.Errorf("title exceeds maximum length of %d characters", v.config.MaxTitleLength)
	}
	return title, nil
}

// ValidateMessage checks the role and the content size. Assistant replies
// come from the model and are stored whatever their length.
func (v *Validator) ValidateMessage(role Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q: must be one of user, assistant, system", role)
	}
	if role == RoleAssistant {
		return nil
	}
	if utf8.RuneCountInString(content) > v.config.MaxContentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", v.config.MaxContentLength)
	}
	return nil
}
