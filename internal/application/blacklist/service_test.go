package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/infrastructure/roblox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) GetUser(ctx context.Context, userID int64) (*roblox.Profile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*roblox.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProvider) GetUserGroups(ctx context.Context, userID int64) ([]domain.Affiliation, error) {
	args := m.Called(ctx, userID)
	if a, _ := args.Get(0).([]domain.Affiliation); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockConfigs struct{ mock.Mock }

func (m *mockConfigs) Resolve(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if g, _ := args.Get(0).(*domain.GuildConfig); g != nil {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestEvaluate_MatchesPreserveAffiliationOrder(t *testing.T) {
	provider := &mockProvider{}
	configs := &mockConfigs{}
	configs.On("Resolve", mock.Anything, "G1").Return(&domain.GuildConfig{
		GuildID:           "G1",
		BlacklistedGroups: []int64{42},
	}, nil)
	provider.On("GetUser", mock.Anything, int64(555)).Return(&roblox.Profile{
		ID:      555,
		Created: time.Now().UTC().AddDate(0, 0, -400),
	}, nil)
	provider.On("GetUserGroups", mock.Anything, int64(555)).Return([]domain.Affiliation{
		{GroupID: 42, Name: "Foo", Rank: "Leader"},
		{GroupID: 7, Name: "Bar", Rank: "Member"},
	}, nil)

	svc := NewService(provider, configs)
	report, err := svc.Evaluate(context.Background(), 555, "G1")

	require.NoError(t, err)
	assert.False(t, report.Clean)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "Foo", report.Matches[0].Name)
	assert.Equal(t, "Leader", report.Matches[0].Rank)
	assert.Equal(t, 400, report.AccountAgeDays)
}

func TestEvaluate_ZeroAffiliations_CleanReport(t *testing.T) {
	provider := &mockProvider{}
	configs := &mockConfigs{}
	configs.On("Resolve", mock.Anything, "G1").Return(&domain.GuildConfig{
		GuildID:           "G1",
		BlacklistedGroups: []int64{42},
	}, nil)
	provider.On("GetUser", mock.Anything, int64(555)).Return(&roblox.Profile{ID: 555, Created: time.Now().UTC()}, nil)
	provider.On("GetUserGroups", mock.Anything, int64(555)).Return([]domain.Affiliation{}, nil)

	svc := NewService(provider, configs)
	report, err := svc.Evaluate(context.Background(), 555, "G1")

	require.NoError(t, err)
	assert.True(t, report.Clean)
	assert.Empty(t, report.Matches)
}

func TestEvaluate_MultipleMatches_InOrder(t *testing.T) {
	provider := &mockProvider{}
	configs := &mockConfigs{}
	configs.On("Resolve", mock.Anything, "G1").Return(&domain.GuildConfig{
		GuildID:           "G1",
		BlacklistedGroups: []int64{7, 42},
	}, nil)
	provider.On("GetUser", mock.Anything, int64(9)).Return(&roblox.Profile{ID: 9, Created: time.Now().UTC()}, nil)
	provider.On("GetUserGroups", mock.Anything, int64(9)).Return([]domain.Affiliation{
		{GroupID: 42, Name: "Foo", Rank: "Leader"},
		{GroupID: 3, Name: "Ok", Rank: "Member"},
		{GroupID: 7, Name: "Bar", Rank: "Member"},
	}, nil)

	svc := NewService(provider, configs)
	report, err := svc.Evaluate(context.Background(), 9, "G1")

	require.NoError(t, err)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, int64(42), report.Matches[0].GroupID)
	assert.Equal(t, int64(7), report.Matches[1].GroupID)
}

func TestEvaluate_UpstreamFailure_NoReport(t *testing.T) {
	provider := &mockProvider{}
	configs := &mockConfigs{}
	configs.On("Resolve", mock.Anything, "G1").Return(&domain.GuildConfig{GuildID: "G1"}, nil)
	provider.On("GetUser", mock.Anything, int64(555)).Return(nil, domain.ErrUpstreamUnavailable)

	svc := NewService(provider, configs)
	report, err := svc.Evaluate(context.Background(), 555, "G1")

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, report)
}

func TestEvaluate_GroupFetchFailure_NoReport(t *testing.T) {
	provider := &mockProvider{}
	configs := &mockConfigs{}
	configs.On("Resolve", mock.Anything, "G1").Return(&domain.GuildConfig{GuildID: "G1"}, nil)
	provider.On("GetUser", mock.Anything, int64(555)).Return(&roblox.Profile{ID: 555, Created: time.Now().UTC()}, nil)
	provider.On("GetUserGroups", mock.Anything, int64(555)).Return(nil, domain.ErrUpstreamUnavailable)

	svc := NewService(provider, configs)
	report, err := svc.Evaluate(context.Background(), 555, "G1")

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, report)
}

func TestAgeDays_Floor(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, ageDays(now.Add(-23*time.Hour), now))
	assert.Equal(t, 1, ageDays(now.Add(-25*time.Hour), now))
	assert.Equal(t, 0, ageDays(time.Time{}, now))
	assert.Equal(t, 0, ageDays(now.Add(time.Hour), now))
}
