package schema

import (
	"fmt"
	"unicode"
)

// Alias is a validated identifier for content types, property groups,
// properties and templates. Aliases are globally unique for content types
// and unique within their owning group for properties; uniqueness is
// enforced by the host at save time, but validity is enforced here at
// construction time so malformed aliases never reach the host.
type Alias string

// NewAlias validates and normalizes a raw alias string. A valid alias is
// non-empty, starts with a letter, and contains only letters and digits.
// The first rune is normalized to lower case so aliases compare
// consistently regardless of how callers cased them.
func NewAlias(raw string) (Alias, error) {
	if raw == "" {
		return "", fmt.Errorf("alias cannot be empty")
	}

	runes := []rune(raw)
	if !unicode.IsLetter(runes[0]) {
		return "", fmt.Errorf("alias %q must start with a letter", raw)
	}

	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", fmt.Errorf("alias %q contains invalid character %q", raw, r)
		}
	}

	runes[0] = unicode.ToLower(runes[0])
	return Alias(runes), nil
}

// MustAlias is like NewAlias but panics on invalid input. Intended for
// compile-time constant aliases in provisioning handlers.
func MustAlias(raw string) Alias {
	a, err := NewAlias(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// DeriveAlias produces an alias from a display name by dropping separator
// characters and lower-camel-casing the result: "Main Content" becomes
// "mainContent". Returns an error when nothing alias-worthy remains.
func DeriveAlias(name string) (Alias, error) {
	var runes []rune
	upperNext := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && len(runes) > 0):
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			runes = append(runes, r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			upperNext = len(runes) > 0
		}
	}
	if len(runes) == 0 {
		return "", fmt.Errorf("cannot derive an alias from %q", name)
	}
	runes[0] = unicode.ToLower(runes[0])
	return Alias(runes), nil
}

// String returns the alias as a plain string.
func (a Alias) String() string {
	return string(a)
}

// IsZero reports whether the alias is unset.
func (a Alias) IsZero() bool {
	return a == ""
}
