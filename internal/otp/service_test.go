package otp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mimics the repo's consume query: newest unused, unexpired,
// matching row wins, flipped to used under one lock.
type memStore struct {
	mu   sync.Mutex
	rows []*Request
}

func (m *memStore) Create(ctx context.Context, req *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *req
	m.rows = append(m.rows, &c)
	return nil
}

func (m *memStore) Consume(ctx context.Context, identifier, code string, purpose Purpose) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var best *Request
	for _, r := range m.rows {
		if r.Identifier != identifier || r.Code != code || r.Purpose != purpose {
			continue
		}
		if r.Used || !now.Before(r.ExpiresAt) {
			continue
		}
		if best == nil || r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
	}
	if best == nil {
		return nil, ErrInvalidOrExpired
	}
	best.Used = true
	c := *best
	return &c, nil
}

var _ Store = (*memStore)(nil)

func newTestService(store *memStore) *Service {
	return &Service{Store: store, TTL: 5 * time.Minute, Name: "test"}
}

func TestIssueCreatesRequest(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	req, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", req.Identifier)
	assert.Equal(t, PurposeRegister, req.Purpose)
	assert.Len(t, req.Code, CodeLength)
	assert.False(t, req.Used)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), req.ExpiresAt, 5*time.Second)
}

func TestVerifyConsumesExactlyOnce(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	req, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	require.NoError(t, svc.Verify(context.Background(), "a@b.com", req.Code, PurposeRegister))

	err = svc.Verify(context.Background(), "a@b.com", req.Code, PurposeRegister)
	assert.ErrorIs(t, err, ErrInvalidOrExpired, "second use of the same code must fail")
}

func TestVerifyWrongCode(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	req, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	wrong := "000000"
	if req.Code == wrong {
		wrong = "000001"
	}
	err = svc.Verify(context.Background(), "a@b.com", wrong, PurposeRegister)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestVerifyWrongPurpose(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	req, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	err = svc.Verify(context.Background(), "a@b.com", req.Code, PurposeResetPassword)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestVerifyExpiredCode(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	req, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	store.mu.Lock()
	store.rows[0].ExpiresAt = time.Now().Add(-time.Second)
	store.mu.Unlock()

	err = svc.Verify(context.Background(), "a@b.com", req.Code, PurposeRegister)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

// Older unconsumed codes stay valid after a newer one is issued.
func TestMultipleOutstandingCodes(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	first, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	require.NoError(t, svc.Verify(context.Background(), "a@b.com", second.Code, PurposeRegister))
	if first.Code != second.Code {
		require.NoError(t, svc.Verify(context.Background(), "a@b.com", first.Code, PurposeRegister))
	}
}

func TestConcurrentVerifySingleWinner(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	req, err := svc.Issue(context.Background(), "a@b.com", PurposeRegister)
	require.NoError(t, err)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Verify(context.Background(), "a@b.com", req.Code, PurposeRegister)
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrInvalidOrExpired)
		}
	}
	assert.Equal(t, 1, ok)
}
