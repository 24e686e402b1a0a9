package shared

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

var codeFormat = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func TestGenerateClaimCode_Format(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateClaimCode()
		require.NoError(t, err)
		assert.Regexp(t, codeFormat, code.String())
	}
}

func TestParseClaimCode_RoundTrip(t *testing.T) {
	code, err := GenerateClaimCode()
	require.NoError(t, err)

	parsed, err := ParseClaimCode(code.String())
	require.NoError(t, err)
	assert.Equal(t, code.String(), parsed.String())
}

func TestParseClaimCode_CaseInsensitive(t *testing.T) {
	parsed, err := ParseClaimCode("  ab12-cd34-ef56 ")
	require.NoError(t, err)
	assert.Equal(t, "AB12-CD34-EF56", parsed.String())
}

func TestParseClaimCode_Invalid(t *testing.T) {
	cases := []string{"", "ABCD", "ABCD-EFGH", "ABC!-EFGH-IJKL", "ABCDE-FGHI-JKLM"}
	for _, raw := range cases {
		_, err := ParseClaimCode(raw)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput, "input %q", raw)
	}
}

func TestClaimCode_Masked(t *testing.T) {
	parsed, err := ParseClaimCode("AB12-CD34-EF56")
	require.NoError(t, err)
	assert.Equal(t, "AB12-****-EF56", parsed.Masked())
}
