package service

import (
	"context"
	"errors"
	"testing"

	"flagdeck/internal/apperr"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"
	"flagdeck/internal/testutil"
	"flagdeck/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.InitLogger("test")
}

func newFlagService(t *testing.T) (*FlagService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	uow := repository.NewUnitOfWork(db)
	return NewFlagService(uow, repository.NewFlagRepository(db), metrics.NewNoopObserver()), db
}

func TestFlagServiceCreateFeature(t *testing.T) {
	svc, _ := newFlagService(t)
	ctx := context.Background()

	created, err := svc.CreateFeature(ctx, "dark-mode", testutil.Ptr("toggle dark theme"))
	require.NoError(t, err)
	assert.Equal(t, "dark-mode", created.Name)

	_, err = svc.CreateFeature(ctx, "dark-mode", nil)
	require.Error(t, err)
	assert.True(t, apperr.IsAlreadyExists(err))
}

func TestFlagServiceGetFeature(t *testing.T) {
	svc, _ := newFlagService(t)
	ctx := context.Background()

	created, err := svc.CreateFeature(ctx, "lookup", nil)
	require.NoError(t, err)

	got, err := svc.GetFeature(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	byName, err := svc.GetFeatureByName(ctx, "lookup")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = svc.GetFeature(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.GetFeatureByName(ctx, "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestFlagServiceUpdateFeature(t *testing.T) {
	svc, _ := newFlagService(t)
	ctx := context.Background()

	created, err := svc.CreateFeature(ctx, "renameable", nil)
	require.NoError(t, err)
	_, err = svc.CreateFeature(ctx, "taken", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateFeature(ctx, created.ID, model.FeatureFlagUpdate{
		Description: testutil.Ptr("now documented"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renameable", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "now documented", *updated.Description)

	_, err = svc.UpdateFeature(ctx, created.ID, model.FeatureFlagUpdate{
		Name: testutil.Ptr("taken"),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsAlreadyExists(err))

	_, err = svc.UpdateFeature(ctx, uuid.New(), model.FeatureFlagUpdate{})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestFlagServiceDeleteFeature(t *testing.T) {
	svc, _ := newFlagService(t)
	ctx := context.Background()

	created, err := svc.CreateFeature(ctx, "ephemeral", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFeature(ctx, created.ID))

	err = svc.DeleteFeature(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestFlagServiceHealth(t *testing.T) {
	svc, db := newFlagService(t)
	require.NoError(t, svc.Health(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = svc.Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMysqlUnhealthy))
	// the underlying cause rides along for the health-check log
	assert.NotEqual(t, ErrMysqlUnhealthy.Error(), err.Error())
}
