package enums

import (
	"fmt"
	"strings"
)

// OptionType describes how a customization option collects its value.
type OptionType string

const (
	OptionTypeSelect      OptionType = "select"
	OptionTypeMultiSelect OptionType = "multi_select"
	OptionTypeText        OptionType = "text"
)

var validOptionTypes = []OptionType{
	OptionTypeSelect,
	OptionTypeMultiSelect,
	OptionTypeText,
}

// String implements fmt.Stringer.
func (t OptionType) String() string {
	return string(t)
}

// IsValid reports whether the option type is recognized.
func (t OptionType) IsValid() bool {
	for _, candidate := range validOptionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOptionType converts raw input into an OptionType. "single_select" is accepted for "select".
func ParseOptionType(value string) (OptionType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "single_select" {
		return OptionTypeSelect, nil
	}
	for _, candidate := range validOptionTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option type %q", value)
}

// Theme is the storefront color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// IsValid reports whether the theme is recognized.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme converts raw input into a Theme.
func ParseTheme(value string) (Theme, error) {
	theme := Theme(strings.ToLower(strings.TrimSpace(value)))
	if !theme.IsValid() {
		return "", fmt.Errorf("invalid theme %q", value)
	}
	return theme, nil
}

// UnmarshalText accepts any spelling ParseOptionType understands.
func (t *OptionType) UnmarshalText(text []byte) error {
	parsed, err := ParseOptionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
