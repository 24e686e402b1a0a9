// internal/domain/shared/email.go
package shared

import (
	"fmt"
	"regexp"
	"strings"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is a normalized (lowercase, trimmed) email address.
type Email struct {
	value string
}

// NewEmail validates and normalizes an email address.
func NewEmail(raw string) (Email, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(addr) {
		return Email{}, fmt.Errorf("invalid email address %q: %w", raw, xerrors.ErrInvalidInput)
	}
	return Email{value: addr}, nil
}

func (e Email) String() string { return e.value }
