package service

import (
	"context"
	"errors"
	"fmt"

	"flagdeck/internal/apperr"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlagProvider is the feature-flag service contract consumed by the
// HTTP boundary.
type FlagProvider interface {
	CreateFeature(ctx context.Context, name string, description *string) (*model.FeatureFlag, error)
	ListFeatures(ctx context.Context, skip, limit int) ([]model.FeatureFlag, error)
	GetFeature(ctx context.Context, id uuid.UUID) (*model.FeatureFlag, error)
	GetFeatureByName(ctx context.Context, name string) (*model.FeatureFlag, error)
	UpdateFeature(ctx context.Context, id uuid.UUID, upd model.FeatureFlagUpdate) (*model.FeatureFlag, error)
	DeleteFeature(ctx context.Context, id uuid.UUID) error
	Health(ctx context.Context) error
}

// ErrMysqlUnhealthy is reported by Health when the database does not
// answer a ping.
var ErrMysqlUnhealthy = errors.New("mysql unhealthy")

// FlagService is a validated pass-through over the flag repository. Every
// operation runs inside one unit of work.
type FlagService struct {
	uow      *repository.UnitOfWork
	flagRepo repository.FlagInterface
	observer metrics.Observer
}

func NewFlagService(uow *repository.UnitOfWork, flagRepo repository.FlagInterface, observer metrics.Observer) *FlagService {
	return &FlagService{
		uow:      uow,
		flagRepo: flagRepo,
		observer: observer,
	}
}

func (s *FlagService) CreateFeature(ctx context.Context, name string, description *string) (*model.FeatureFlag, error) {
	var created *model.FeatureFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		flag := &model.FeatureFlag{Name: name, Description: description}
		var err error
		created, err = s.flagRepo.WithTx(tx).Add(ctx, flag)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("feature_flag", "create")
	return created, nil
}

func (s *FlagService) ListFeatures(ctx context.Context, skip, limit int) ([]model.FeatureFlag, error) {
	var flags []model.FeatureFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flags, err = s.flagRepo.WithTx(tx).GetAll(ctx, skip, limit)
		return err
	})
	return flags, err
}

func (s *FlagService) GetFeature(ctx context.Context, id uuid.UUID) (*model.FeatureFlag, error) {
	var flag *model.FeatureFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flag, err = s.flagRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if flag == nil {
			return apperr.NotFound("feature flag %s", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flag, nil
}

func (s *FlagService) GetFeatureByName(ctx context.Context, name string) (*model.FeatureFlag, error) {
	var flag *model.FeatureFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flag, err = s.flagRepo.WithTx(tx).GetByName(ctx, name)
		if err != nil {
			return err
		}
		if flag == nil {
			return apperr.NotFound("feature flag %q", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flag, nil
}

// UpdateFeature re-validates existence and, when renaming, the new name's
// availability before applying the present fields.
func (s *FlagService) UpdateFeature(ctx context.Context, id uuid.UUID, upd model.FeatureFlagUpdate) (*model.FeatureFlag, error) {
	var updated *model.FeatureFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.flagRepo.WithTx(tx)

		flag, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if flag == nil {
			return apperr.NotFound("feature flag %s", id)
		}

		if upd.Name != nil && *upd.Name != flag.Name {
			taken, err := repo.GetByName(ctx, *upd.Name)
			if err != nil {
				return err
			}
			if taken != nil {
				return apperr.AlreadyExists("feature flag with name %q", *upd.Name)
			}
			flag.Name = *upd.Name
		}
		if upd.Description != nil {
			flag.Description = upd.Description
		}

		updated, err = repo.Update(ctx, flag)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("feature_flag", "update")
	return updated, nil
}

func (s *FlagService) DeleteFeature(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.flagRepo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("feature flag %s", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.observer.RecordMutation("feature_flag", "delete")
	return nil
}

func (s *FlagService) Health(ctx context.Context) error {
	if err := s.flagRepo.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMysqlUnhealthy, err)
	}
	return nil
}
