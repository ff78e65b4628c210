// Package content holds the repositories for posts, publications, categories,
// tags, comments and users, and the joined and searchable views over them.
//
// Every operation returns (value, error). Errors are *inkwell.Error values whose
// Kind tells callers whether the input was bad, the document was missing or the
// database was unavailable; messages are suitable for end users. Lookups of a
// single document return nil and no error when it does not exist.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dwoolworth/inkwell"
)

func isNotFound(err error) bool {
	return errors.Is(err, inkwell.ErrNotFound)
}

// fail classifies err for callers, using msg when err carries no message.
func fail(err error, msg string) error {
	return inkwell.Classify(err, msg)
}

func notFound(format string, args ...interface{}) error {
	return inkwell.NotFound(fmt.Sprintf(format, args...))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
