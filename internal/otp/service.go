package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	kafkax "github.com/fastfood-vn/backend/internal/kafka"
	"github.com/fastfood-vn/backend/internal/redisx"
)

type Service struct {
	Store    Store
	Producer kafkax.Publisher // otp.email.requested, fire-and-forget
	Redis    *redis.Client    // optional issuance throttle
	TTL      time.Duration
	Throttle time.Duration
	Name     string
}

// Issue creates the request row and hands delivery to the notifier worker.
// The row is created even when publishing fails: delivery is best-effort and
// the code stays inspectable in the database.
func (s *Service) Issue(ctx context.Context, identifier string, purpose Purpose) (*Request, error) {
	if s.Redis != nil && s.Throttle > 0 {
		key := fmt.Sprintf(redisx.KeyOTPThrottle, purpose, identifier)
		ok, err := s.Redis.SetNX(ctx, key, "1", s.Throttle).Result()
		if err != nil {
			logrus.WithError(err).Warn("otp throttle check")
		} else if !ok {
			return nil, ErrThrottled
		}
	}

	now := time.Now().UTC()
	req := &Request{
		ID:         uuid.New(),
		Identifier: identifier,
		Code:       GenerateCode(),
		Purpose:    purpose,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl()),
	}
	if err := s.Store.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.Producer != nil {
		env := kafkax.NewEnvelope(EventEmailRequested, s.Name, req.ID.String(), EmailRequestedPayload{
			Identifier: req.Identifier,
			Code:       req.Code,
			Purpose:    req.Purpose,
			ExpiresAt:  req.ExpiresAt,
		})
		s.Producer.Publish(kafkax.PartitionKey(req.Identifier), kafkax.MustMarshal(env),
			kafkax.TypeHeaders(EventEmailRequested)...)
	}
	logrus.WithFields(logrus.Fields{
		"identifier": identifier,
		"purpose":    purpose,
		"expires_at": req.ExpiresAt,
	}).Info("otp issued")
	return req, nil
}

// Verify consumes a matching code at most once.
func (s *Service) Verify(ctx context.Context, identifier, code string, purpose Purpose) error {
	if _, err := s.Store.Consume(ctx, identifier, code, purpose); err != nil {
		return err
	}
	return nil
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 5 * time.Minute
}
