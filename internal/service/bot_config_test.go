package service

import (
	"context"
	"testing"

	"flagdeck/internal/apperr"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"
	"flagdeck/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotConfigService(t *testing.T) *BotConfigService {
	t.Helper()
	db := testutil.NewDB(t)
	uow := repository.NewUnitOfWork(db)
	return NewBotConfigService(uow, repository.NewBotConfigRepository(db), metrics.NewNoopObserver())
}

func TestBotConfigServiceCreateDefaults(t *testing.T) {
	svc := newBotConfigService(t)
	ctx := context.Background()

	created, err := svc.CreateConfig(ctx, "support-bot", nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, model.BotStatusDraft, created.Status)
	assert.Equal(t, "1.0", created.Version)
	assert.False(t, created.IsActive)

	// creation leaves one version row behind
	full, err := svc.GetConfig(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, full.Versions, 1)
	require.NotNil(t, full.Versions[0].Changelog)
	assert.Equal(t, "Initial version", *full.Versions[0].Changelog)
}

func TestBotConfigServiceCreateExplicit(t *testing.T) {
	svc := newBotConfigService(t)
	ctx := context.Background()

	created, err := svc.CreateConfig(ctx, "release-bot",
		testutil.Ptr(model.BotStatusReady), testutil.Ptr("2.3"), true)
	require.NoError(t, err)
	assert.Equal(t, model.BotStatusReady, created.Status)
	assert.Equal(t, "2.3", created.Version)
	assert.True(t, created.IsActive)

	_, err = svc.CreateConfig(ctx, "release-bot", nil, nil, false)
	require.Error(t, err)
	assert.True(t, apperr.IsAlreadyExists(err))
}

func TestBotConfigServiceUpdate(t *testing.T) {
	svc := newBotConfigService(t)
	ctx := context.Background()

	created, err := svc.CreateConfig(ctx, "evolving-bot", nil, nil, false)
	require.NoError(t, err)

	updated, err := svc.UpdateConfig(ctx, created.ID, model.BotConfigUpdate{
		Status:  testutil.Ptr(model.BotStatusReady),
		Version: testutil.Ptr("1.1"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.BotStatusReady, updated.Status)
	assert.Equal(t, "1.1", updated.Version)
	assert.Equal(t, "evolving-bot", updated.Name)

	_, err = svc.UpdateConfig(ctx, uuid.New(), model.BotConfigUpdate{})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestBotConfigServiceLookups(t *testing.T) {
	svc := newBotConfigService(t)
	ctx := context.Background()

	created, err := svc.CreateConfig(ctx, "findable-bot", testutil.Ptr(model.BotStatusReady), nil, true)
	require.NoError(t, err)

	byName, err := svc.GetConfigByName(ctx, "findable-bot")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = svc.GetConfigByName(ctx, "unknown-bot")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	active, err := svc.GetActiveConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	ready, err := svc.GetConfigsByStatus(ctx, model.BotStatusReady)
	require.NoError(t, err)
	assert.Len(t, ready, 1)
}

func TestBotConfigServiceActivationFlips(t *testing.T) {
	svc := newBotConfigService(t)
	ctx := context.Background()

	created, err := svc.CreateConfig(ctx, "flip-bot", nil, nil, false)
	require.NoError(t, err)

	flipped, err := svc.ActivateConfig(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = svc.ActivateConfig(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	flipped, err = svc.DeactivateConfig(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, flipped)
}

func TestBotConfigServiceDelete(t *testing.T) {
	svc := newBotConfigService(t)
	ctx := context.Background()

	created, err := svc.CreateConfig(ctx, "gone-bot", nil, nil, false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConfig(ctx, created.ID))

	err = svc.DeleteConfig(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
