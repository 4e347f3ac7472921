package repository

import (
	"context"
	"testing"

	"flagdeck/internal/apperr"
	"flagdeck/internal/model"
	"flagdeck/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotConfigRepositoryAdd(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBotConfigRepository(db)
	ctx := context.Background()

	created, err := repo.Add(ctx, &model.BotConfig{Name: "support-bot", Status: model.BotStatusDraft, Version: "1.0"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = repo.Add(ctx, &model.BotConfig{Name: "support-bot"})
	require.Error(t, err)
	assert.True(t, apperr.IsAlreadyExists(err))
}

func TestBotConfigRepositoryStatusQueries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBotConfigRepository(db)
	ctx := context.Background()

	_, err := repo.Add(ctx, &model.BotConfig{Name: "draft-bot", Status: model.BotStatusDraft})
	require.NoError(t, err)
	ready, err := repo.Add(ctx, &model.BotConfig{Name: "ready-bot", Status: model.BotStatusReady})
	require.NoError(t, err)

	byStatus, err := repo.GetByStatus(ctx, model.BotStatusReady)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, ready.ID, byStatus[0].ID)
}

func TestBotConfigRepositoryActivationFlips(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBotConfigRepository(db)
	ctx := context.Background()

	cfg, err := repo.Add(ctx, &model.BotConfig{Name: "flip-bot"})
	require.NoError(t, err)

	flipped, err := repo.ActivateConfig(ctx, cfg.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.ActivateConfig(ctx, cfg.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	active, err := repo.GetActiveConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	flipped, err = repo.DeactivateConfig(ctx, cfg.ID)
	require.NoError(t, err)
	assert.True(t, flipped)
}

func TestBotConfigRepositoryVersionsAndCascade(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBotConfigRepository(db)
	ctx := context.Background()

	cfg, err := repo.Add(ctx, &model.BotConfig{Name: "versioned-bot"})
	require.NoError(t, err)

	_, err = repo.CreateVersion(ctx, cfg.ID, testutil.Ptr("Initial version"))
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, cfg.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	var count int64
	require.NoError(t, db.Model(&model.BotConfigVersion{}).Where("config_id = ?", cfg.ID).Count(&count).Error)
	assert.Zero(t, count)
}
