package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrWeakPasscode    = errors.New("passcode must be at least 4 characters")
)

// MinPasscodeLength is the shortest passcode accepted for a game.
const MinPasscodeLength = 4

// PasscodeHasher hashes and checks game passcodes with bcrypt.
// Games without a passcode store an empty hash and open for anyone.
type PasscodeHasher struct {
	cost int
}

// NewPasscodeHasher creates a hasher using the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewPasscodeHasher(cost int) *PasscodeHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasscodeHasher{cost: cost}
}

// ValidatePasscode checks if the passcode meets minimum requirements.
// An empty passcode is valid and means "no passcode".
func (h *PasscodeHasher) ValidatePasscode(passcode string) error {
	if passcode != "" && len(passcode) < MinPasscodeLength {
		return ErrWeakPasscode
	}
	return nil
}

// Hash returns the bcrypt hash of passcode, or "" for an empty passcode.
func (h *PasscodeHasher) Hash(passcode string) (string, error) {
	if err := h.ValidatePasscode(passcode); err != nil {
		return "", err
	}
	if passcode == "" {
		return "", nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hashed), nil
}

// Check verifies passcode against hash. An empty hash accepts any passcode.
func (h *PasscodeHasher) Check(hash, passcode string) error {
	if hash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)); err != nil {
		return ErrInvalidPasscode
	}
	return nil
}
