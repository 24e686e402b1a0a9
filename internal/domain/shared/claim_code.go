// internal/domain/shared/claim_code.go
package shared

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

// Claim codes are printed on physical receipts and typed by hand in-store,
// so the XXXX-XXXX-XXXX format is a hard contract.
const claimCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var claimCodePattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// ClaimCode is the unique redemption token presented by a winner.
type ClaimCode struct {
	value string
}

// GenerateClaimCode produces a new random code using a CSPRNG.
func GenerateClaimCode() (ClaimCode, error) {
	groups := make([]string, 3)
	for g := range groups {
		var b strings.Builder
		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(claimCodeAlphabet))))
			if err != nil {
				return ClaimCode{}, fmt.Errorf("failed to generate claim code: %w", err)
			}
			b.WriteByte(claimCodeAlphabet[n.Int64()])
		}
		groups[g] = b.String()
	}
	return ClaimCode{value: strings.Join(groups, "-")}, nil
}

// ParseClaimCode normalizes user input (case-insensitive, surrounding
// whitespace ignored) and validates the canonical format.
func ParseClaimCode(raw string) (ClaimCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !claimCodePattern.MatchString(code) {
		return ClaimCode{}, fmt.Errorf("claim code must match XXXX-XXXX-XXXX: %w", xerrors.ErrInvalidInput)
	}
	return ClaimCode{value: code}, nil
}

func (c ClaimCode) String() string { return c.value }

// Masked hides the middle group for display in lists and logs.
func (c ClaimCode) Masked() string {
	if c.value == "" {
		return ""
	}
	return c.value[:4] + "-****-" + c.value[10:]
}
