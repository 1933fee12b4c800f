package otp

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeRegister      Purpose = "REGISTER"
	PurposeResetPassword Purpose = "RESET_PASSWORD"
)

func (p Purpose) Known() bool {
	return p == PurposeRegister || p == PurposeResetPassword
}

const CodeLength = 6

var (
	// ErrInvalidOrExpired is returned for a wrong code, an expired code and an
	// already-used code alike, so callers learn nothing about account state.
	ErrInvalidOrExpired = errors.New("invalid or expired code")

	ErrThrottled = errors.New("too many code requests, try again later")
)

// Request is a single-use credential. Rows are never deleted; consumption
// flips used exactly once.
type Request struct {
	ID         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	Code       string    `json:"-"`
	Purpose    Purpose   `json:"purpose"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Used       bool      `json:"used"`
}

// GenerateCode draws a zero-padded numeric code uniformly from 000000-999999.
func GenerateCode() string {
	return fmt.Sprintf("%0*d", CodeLength, rand.IntN(1_000_000))
}
