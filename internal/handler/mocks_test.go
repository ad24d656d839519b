package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/linking"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
)

// ============================================================================
// MOCKS
// ============================================================================

type MockLinkingService struct {
	mock.Mock
}

func (m *MockLinkingService) Begin(ctx context.Context, platformID string, scopes []domain.Scope) (*domain.AuthorizationState, string, error) {
	args := m.Called(ctx, platformID, scopes)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.AuthorizationState), args.String(1), args.Error(2)
}

func (m *MockLinkingService) Complete(ctx context.Context, platformID, callbackURL string) (*linking.LinkResult, error) {
	args := m.Called(ctx, platformID, callbackURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LinkResult), args.Error(1)
}

func (m *MockLinkingService) CompleteByState(ctx context.Context, state, code string) (*linking.LinkResult, error) {
	args := m.Called(ctx, state, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LinkResult), args.Error(1)
}

func (m *MockLinkingService) Unlink(ctx context.Context, platformID string) (string, error) {
	args := m.Called(ctx, platformID)
	return args.String(0), args.Error(1)
}

func (m *MockLinkingService) Status(ctx context.Context, platformID string) (*linking.LinkStatus, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LinkStatus), args.Error(1)
}

type MockPlatformLister struct {
	mock.Mock
}

func (m *MockPlatformLister) PlatformsByExternal(ctx context.Context, externalAccountID string) ([]string, error) {
	args := m.Called(ctx, externalAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) HasValidUnexpiredToken(ctx context.Context, platformID string) (bool, error) {
	args := m.Called(ctx, platformID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGate) CheckScope(ctx context.Context, platformID string, capability domain.Scope) (bool, error) {
	args := m.Called(ctx, platformID, capability)
	return args.Bool(0), args.Error(1)
}

func (m *MockGate) Authorize(ctx context.Context, platformID string, capabilities ...domain.Scope) (*domain.TokenRecord, error) {
	args := m.Called(ctx, platformID, capabilities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenRecord), args.Error(1)
}

func (m *MockGate) AuthorizeOperation(ctx context.Context, platformID, operation string) (*domain.TokenRecord, error) {
	args := m.Called(ctx, platformID, operation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenRecord), args.Error(1)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Info(ctx context.Context, platformID string) (*domain.TokenInfo, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenInfo), args.Error(1)
}

func (m *MockTokens) Refresh(ctx context.Context, platformID string) (*domain.TokenRecord, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenRecord), args.Error(1)
}

type MockOsuAPI struct {
	mock.Mock
}

func (m *MockOsuAPI) Me(ctx context.Context, token *domain.TokenRecord, mode domain.GameMode) (*osuapi.UserExtended, error) {
	args := m.Called(ctx, token, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*osuapi.UserExtended), args.Error(1)
}

func (m *MockOsuAPI) User(ctx context.Context, token *domain.TokenRecord, user string, kind osuapi.LookupKind, mode domain.GameMode) (*osuapi.UserExtended, error) {
	args := m.Called(ctx, token, user, kind, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*osuapi.UserExtended), args.Error(1)
}

func (m *MockOsuAPI) Users(ctx context.Context, token *domain.TokenRecord, ids []string) ([]osuapi.UserExtended, error) {
	args := m.Called(ctx, token, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]osuapi.UserExtended), args.Error(1)
}

func (m *MockOsuAPI) Friends(ctx context.Context, token *domain.TokenRecord) ([]osuapi.UserExtended, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]osuapi.UserExtended), args.Error(1)
}

type MockOsuTrack struct {
	mock.Mock
}

func (m *MockOsuTrack) Update(ctx context.Context, user string, mode domain.GameMode) (*osutrack.UpdateResponse, error) {
	args := m.Called(ctx, user, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*osutrack.UpdateResponse), args.Error(1)
}

func (m *MockOsuTrack) Peak(ctx context.Context, user string, mode domain.GameMode) (*osutrack.PeakData, error) {
	args := m.Called(ctx, user, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*osutrack.PeakData), args.Error(1)
}

func (m *MockOsuTrack) StatsHistory(ctx context.Context, user string, mode domain.GameMode, r osutrack.DateRange) ([]osutrack.StatsUpdate, error) {
	args := m.Called(ctx, user, mode, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]osutrack.StatsUpdate), args.Error(1)
}

func (m *MockOsuTrack) HiScores(ctx context.Context, user string, mode domain.GameMode, userMode osutrack.UserMode, r osutrack.DateRange) ([]osutrack.RecordedScore, error) {
	args := m.Called(ctx, user, mode, userMode, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]osutrack.RecordedScore), args.Error(1)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) ExternalByPlatform(ctx context.Context, platformID string) (string, bool, error) {
	args := m.Called(ctx, platformID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockOsuTrack) BestPlays(ctx context.Context, mode domain.GameMode, r osutrack.DateRange, limit int) ([]osutrack.BestPlay, error) {
	args := m.Called(ctx, mode, r, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]osutrack.BestPlay), args.Error(1)
}
