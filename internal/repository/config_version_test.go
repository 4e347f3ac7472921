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

func TestVersionRepositoryNumbering(t *testing.T) {
	db := testutil.NewDB(t)
	configRepo := NewConfigRepository(db)
	repo := NewVersionRepository(db)
	ctx := context.Background()

	cfg := addConfig(t, configRepo, "versioned", model.EnvDevelopment)

	for want := 1; want <= 3; want++ {
		v, err := repo.CreateVersion(ctx, cfg.ID, testutil.Ptr("change"), testutil.Ptr("tester"))
		require.NoError(t, err)
		assert.Equal(t, want, v.VersionNumber)
	}

	// numbering is per config
	other := addConfig(t, configRepo, "other", model.EnvDevelopment)
	v, err := repo.CreateVersion(ctx, other.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v.VersionNumber)
}

func TestVersionRepositoryDuplicateNumberConflict(t *testing.T) {
	db := testutil.NewDB(t)
	configRepo := NewConfigRepository(db)
	repo := NewVersionRepository(db)
	ctx := context.Background()

	cfg := addConfig(t, configRepo, "raced", model.EnvDevelopment)

	v, err := repo.CreateVersion(ctx, cfg.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, v.VersionNumber)

	// a second writer that read the same max and lost the insert race hits
	// the unique (config_id, version_number) index and gets a conflict, not
	// a silently duplicated number
	dup := &model.FeatureConfigVersion{ConfigID: cfg.ID, VersionNumber: v.VersionNumber}
	err = apperr.FromDB(db.WithContext(ctx).Create(dup).Error)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	// the winner's row is untouched
	versions, err := repo.GetVersions(ctx, cfg.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
}

func TestVersionRepositoryMissingParent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVersionRepository(db)

	_, err := repo.CreateVersion(context.Background(), uuid.New(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestVersionRepositoryReads(t *testing.T) {
	db := testutil.NewDB(t)
	configRepo := NewConfigRepository(db)
	repo := NewVersionRepository(db)
	ctx := context.Background()

	cfg := addConfig(t, configRepo, "history", model.EnvTesting)

	latest, err := repo.GetLatest(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i := 0; i < 3; i++ {
		_, err := repo.CreateVersion(ctx, cfg.ID, nil, nil)
		require.NoError(t, err)
	}

	versions, err := repo.GetVersions(ctx, cfg.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	// newest first
	assert.Equal(t, 3, versions[0].VersionNumber)
	assert.Equal(t, 1, versions[2].VersionNumber)

	latest, err = repo.GetLatest(ctx, cfg.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.VersionNumber)
}
