package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	kafkax "github.com/fastfood-vn/backend/internal/kafka"
	"github.com/fastfood-vn/backend/internal/otp"
	"github.com/fastfood-vn/backend/internal/redisx"
)

const sendAttempts = 3

// Service delivers OTP emails off the otp.email.requested topic. Delivery is
// best-effort: after the final attempt the message is committed anyway and the
// failure only logged, so a broken SMTP server never blocks OTP issuance.
type Service struct {
	Redis   *redis.Client
	Mailer  Mailer
	Name    string
	Backoff time.Duration // delay between attempts, 2s when zero
}

func (s *Service) backoff() time.Duration {
	if s.Backoff > 0 {
		return s.Backoff
	}
	return 2 * time.Second
}

func (s *Service) HandleEmailRequested(ctx context.Context, m kafkago.Message) error {
	var env kafkax.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		logrus.WithError(err).Warn("drop undecodable message")
		return nil
	}
	if env.EventType != otp.EventEmailRequested {
		return nil
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.Name, env.EventID)
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[otp.EmailRequestedPayload](env.Payload)
	if err != nil {
		logrus.WithError(err).Warn("drop undecodable payload")
		return nil
	}

	subject := otpSubject(p.Purpose)
	body := otpBody(p.Code, p.ExpiresAt)

	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if lastErr = s.Mailer.Send(p.Identifier, subject, body); lastErr == nil {
			logrus.WithFields(logrus.Fields{
				"to":      p.Identifier,
				"purpose": p.Purpose,
			}).Info("otp email sent")
			return nil
		}
		if attempt < sendAttempts {
			select {
			case <-time.After(s.backoff()):
			case <-ctx.Done():
				return nil
			}
		}
	}
	logrus.WithError(lastErr).WithField("to", p.Identifier).Error("otp email delivery failed")
	return nil
}
