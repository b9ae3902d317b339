// Package storage persists extracted artifacts to a directory tree or to a
// SQLite database.
package storage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrStorageClosed is returned by SQLStorage calls made after Close.
	ErrStorageClosed = errors.New("storage: closed")

	// ErrInvalidIdentifier is returned when a table name contains
	// characters other than letters, digits and underscores.
	ErrInvalidIdentifier = errors.New("storage: invalid identifier")

	// ErrArtifactType is returned when an artifact's Go type does not
	// match its kind.
	ErrArtifactType = errors.New("storage: artifact type does not match kind")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Identifier converts name into a SQL table name. Spaces and hyphens
// become underscores; anything else outside [A-Za-z0-9_], or a leading
// digit, is rejected with ErrInvalidIdentifier.
func Identifier(name string) (string, error) {
	ident := strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	if !identifierPattern.MatchString(ident) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return ident, nil
}
