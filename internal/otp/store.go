package otp

import "context"

type Store interface {
	Create(ctx context.Context, req *Request) error

	// Consume marks one unused, unexpired request with a matching identifier,
	// code and purpose as used, preferring the most recent. It returns
	// ErrInvalidOrExpired when nothing qualifies.
	Consume(ctx context.Context, identifier, code string, purpose Purpose) (*Request, error)
}
