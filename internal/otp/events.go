package otp

import "time"

const (
	TopicEmailRequested = "otp.email.requested"
	EventEmailRequested = "OTPEmailRequested"
)

type EmailRequestedPayload struct {
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	Purpose    Purpose   `json:"purpose"`
	ExpiresAt  time.Time `json:"expires_at"`
}
