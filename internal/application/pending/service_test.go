package pending

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/authcheck-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, p *domain.PendingVerification) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockStore) ConsumeByToken(ctx context.Context, token string) (*domain.PendingVerification, error) {
	args := m.Called(ctx, token)
	if p, _ := args.Get(0).(*domain.PendingVerification); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreate_PutsEntryKeyedByRequester(t *testing.T) {
	st := &mockStore{}
	var put *domain.PendingVerification
	st.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		put = args.Get(1).(*domain.PendingVerification)
	}).Return(nil)

	svc := NewService(st)
	token, err := svc.Create(context.Background(), "U1", "G1")

	require.NoError(t, err)
	require.NotNil(t, put)
	assert.Equal(t, token, put.Token)
	assert.Equal(t, "U1", put.RequesterID)
	assert.Equal(t, "G1", put.GuildID)
	assert.WithinDuration(t, time.Now().UTC(), put.CreatedAt, 2*time.Second)
	assert.Equal(t, put.CreatedAt.Add(TTL).Unix(), put.ExpiresAt)
	st.AssertExpectations(t)
}

func TestCreate_SecondAttemptGeneratesFreshToken(t *testing.T) {
	st := &mockStore{}
	st.On("Put", mock.Anything, mock.Anything).Return(nil).Twice()

	svc := NewService(st)
	t1, err := svc.Create(context.Background(), "U1", "G1")
	require.NoError(t, err)
	t2, err := svc.Create(context.Background(), "U1", "G1")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestConsume_Success(t *testing.T) {
	st := &mockStore{}
	st.On("ConsumeByToken", mock.Anything, "tok").Return(&domain.PendingVerification{
		RequesterID: "U1",
		GuildID:     "G1",
		Token:       "tok",
		CreatedAt:   time.Now().UTC().Add(-time.Minute),
	}, nil)

	svc := NewService(st)
	p, err := svc.Consume(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "U1", p.RequesterID)
	assert.Equal(t, "G1", p.GuildID)
}

func TestConsume_UnknownToken_SessionExpired(t *testing.T) {
	st := &mockStore{}
	st.On("ConsumeByToken", mock.Anything, "unknown-token").Return(nil, domain.ErrNotFound)

	svc := NewService(st)
	_, err := svc.Consume(context.Background(), "unknown-token")

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestConsume_ExpiredToken_SessionExpired(t *testing.T) {
	st := &mockStore{}
	st.On("ConsumeByToken", mock.Anything, "old").Return(&domain.PendingVerification{
		RequesterID: "U1",
		GuildID:     "G1",
		Token:       "old",
		CreatedAt:   time.Now().UTC().Add(-TTL - time.Minute),
	}, nil)

	svc := NewService(st)
	_, err := svc.Consume(context.Background(), "old")

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

// memStore mimics the ledger table: one row per requester, consume removes
// the row bearing the exact token.
type memStore struct {
	mu   sync.Mutex
	rows map[string]*domain.PendingVerification
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]*domain.PendingVerification)}
}

func (s *memStore) Put(_ context.Context, p *domain.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.RequesterID] = p
	return nil
}

func (s *memStore) ConsumeByToken(_ context.Context, token string) (*domain.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.rows {
		if p.Token == token {
			delete(s.rows, id)
			return p, nil
		}
	}
	return nil, fmt.Errorf("pending verification not found: %w", domain.ErrNotFound)
}

func TestConsume_SingleUse(t *testing.T) {
	svc := NewService(newMemStore())

	token, err := svc.Create(context.Background(), "U1", "G1")
	require.NoError(t, err)

	p, err := svc.Consume(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "U1", p.RequesterID)

	// A replayed redirect presents the same token again.
	_, err = svc.Consume(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestCreate_SupersedesPriorAttempt(t *testing.T) {
	svc := NewService(newMemStore())

	oldToken, err := svc.Create(context.Background(), "U1", "G1")
	require.NoError(t, err)
	newToken, err := svc.Create(context.Background(), "U1", "G1")
	require.NoError(t, err)

	_, err = svc.Consume(context.Background(), oldToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	p, err := svc.Consume(context.Background(), newToken)
	require.NoError(t, err)
	assert.Equal(t, "U1", p.RequesterID)
}
