package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

func TestNewEmail_Normalizes(t *testing.T) {
	e, err := NewEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", e.String())
}

func TestNewEmail_Invalid(t *testing.T) {
	for _, raw := range []string{"", "plainaddress", "a@b", "@example.com", "a b@example.com"} {
		_, err := NewEmail(raw)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput, "input %q", raw)
	}
}
