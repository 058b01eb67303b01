package reconcile

import (
	"context"
	"testing"

	"github.com/authcheck-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLinks struct{ mock.Mock }

func (m *mockLinks) IsVerified(ctx context.Context, requesterID string) (bool, error) {
	args := m.Called(ctx, requesterID)
	return args.Bool(0), args.Error(1)
}

type mockConfigs struct{ mock.Mock }

func (m *mockConfigs) Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if g, _ := args.Get(0).(*domain.GuildConfig); g != nil {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPlatform struct{ mock.Mock }

func (m *mockPlatform) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	args := m.Called(ctx, guildID, userID)
	if r, _ := args.Get(0).([]string); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPlatform) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return m.Called(ctx, guildID, userID, roleID).Error(0)
}

func configWithRole(roleID string) *domain.GuildConfig {
	return &domain.GuildConfig{GuildID: "G1", VerifiedRoleID: roleID}
}

func TestReconcile_NotVerified(t *testing.T) {
	links := &mockLinks{}
	links.On("IsVerified", mock.Anything, "U1").Return(false, nil)

	svc := NewService(links, &mockConfigs{}, &mockPlatform{})
	outcome, err := svc.Reconcile(context.Background(), "U1", "G1")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotVerified, outcome)
}

func TestReconcile_Granted(t *testing.T) {
	links := &mockLinks{}
	configs := &mockConfigs{}
	platform := &mockPlatform{}
	links.On("IsVerified", mock.Anything, "U1").Return(true, nil)
	configs.On("Resolve", mock.Anything, "G1").Return(configWithRole("R1"), nil)
	platform.On("MemberRoles", mock.Anything, "G1", "U1").Return([]string{"other"}, nil)
	platform.On("AddMemberRole", mock.Anything, "G1", "U1", "R1").Return(nil)

	svc := NewService(links, configs, platform)
	outcome, err := svc.Reconcile(context.Background(), "U1", "G1")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeGranted, outcome)
	platform.AssertExpectations(t)
}

func TestReconcile_AlreadyHeld_Idempotent(t *testing.T) {
	links := &mockLinks{}
	configs := &mockConfigs{}
	platform := &mockPlatform{}
	links.On("IsVerified", mock.Anything, "U1").Return(true, nil)
	configs.On("Resolve", mock.Anything, "G1").Return(configWithRole("R1"), nil)
	platform.On("MemberRoles", mock.Anything, "G1", "U1").Return([]string{"R1"}, nil)

	svc := NewService(links, configs, platform)

	// Two reconciles in a row: AlreadyHeld both times, no grant calls at all.
	for i := 0; i < 2; i++ {
		outcome, err := svc.Reconcile(context.Background(), "U1", "G1")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeAlreadyHeld, outcome)
	}
	platform.AssertNotCalled(t, "AddMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_GrantFailure_ObservableNotRaised(t *testing.T) {
	links := &mockLinks{}
	configs := &mockConfigs{}
	platform := &mockPlatform{}
	links.On("IsVerified", mock.Anything, "U1").Return(true, nil)
	configs.On("Resolve", mock.Anything, "G1").Return(configWithRole("R1"), nil)
	platform.On("MemberRoles", mock.Anything, "G1", "U1").Return([]string{}, nil)
	platform.On("AddMemberRole", mock.Anything, "G1", "U1", "R1").Return(domain.ErrUpstreamUnavailable)

	svc := NewService(links, configs, platform)
	outcome, err := svc.Reconcile(context.Background(), "U1", "G1")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeGrantFailed, outcome)
}

func TestReconcile_NoRoleConfigured_GrantFailed(t *testing.T) {
	links := &mockLinks{}
	configs := &mockConfigs{}
	links.On("IsVerified", mock.Anything, "U1").Return(true, nil)
	configs.On("Resolve", mock.Anything, "G1").Return(configWithRole(""), nil)

	svc := NewService(links, configs, &mockPlatform{})
	outcome, err := svc.Reconcile(context.Background(), "U1", "G1")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeGrantFailed, outcome)
}

func TestReconcile_StoreError_Propagates(t *testing.T) {
	links := &mockLinks{}
	links.On("IsVerified", mock.Anything, "U1").Return(false, domain.ErrUpstreamUnavailable)

	svc := NewService(links, &mockConfigs{}, &mockPlatform{})
	_, err := svc.Reconcile(context.Background(), "U1", "G1")

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
