package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds workspace names; they end up in store keys, file
// paths and URLs.
const maxNameLength = 64

// workspaceNameRegex matches names made of letters, digits, dot, dash and
// underscore, starting with a letter or digit.
var workspaceNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateWorkspaceName validates a workspace name for safety and correctness.
// It rejects names that could be used for path traversal or key injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (..)
//   - No key separators (':' and '/')
//   - Maximum length of 64 characters
func ValidateWorkspaceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "workspace name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "workspace name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "workspace name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "workspace name cannot contain path traversal sequences (..)")
	}

	if !workspaceNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid workspace name: %q", name)
	}

	return nil
}

// ValidateKey validates a store key. Keys are built by the store's Keyer and
// take the form "<namespace>:<workspace>:<field>"; anything else points at a
// bug or a hand-crafted request.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "store key cannot be empty")
	}

	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "store key contains invalid control characters")
		}
	}

	if strings.ContainsAny(key, "/\\") {
		return New(ErrCodeInvalidInput, "store key cannot contain path separators")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "store key cannot contain path traversal sequences (..)")
	}

	return nil
}
