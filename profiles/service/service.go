package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/outbox"
	"github.com/tidepool-org/careprofiles/profiles"
)

type service struct {
	logger *zap.SugaredLogger

	outboxRepo   outbox.Repository
	profilesRepo profiles.Repository
}

var _ profiles.Service = &service{}

func NewService(repo profiles.Repository, outboxRepo outbox.Repository, logger *zap.SugaredLogger) (profiles.Service, error) {
	return &service{
		logger:       logger,
		outboxRepo:   outboxRepo,
		profilesRepo: repo,
	}, nil
}

func (s *service) Create(ctx context.Context, profile profiles.Profile) (string, error) {
	s.logger.Infow("creating profile", "ownerId", profile.OwnerId, "medicines", len(profile.Medicines))

	id, err := s.profilesRepo.Create(ctx, profile)
	if err != nil {
		s.logger.Warnw("unable to create profile", "ownerId", profile.OwnerId, zap.Error(err))
		return "", err
	}

	_ = s.recordProfileCreated(ctx, id, profile) // Ignore any error, already logged

	return id, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerId string) ([]profiles.Profile, error) {
	result, err := s.profilesRepo.ListByOwner(ctx, ownerId)
	if err != nil {
		s.logger.Warnw("unable to list profiles", "ownerId", ownerId, zap.Error(err))
		return nil, err
	}

	s.logger.Debugw("listed profiles", "ownerId", ownerId, "count", len(result))
	return result, nil
}

func (s *service) recordProfileCreated(ctx context.Context, id string, profile profiles.Profile) error {
	event, err := outbox.NewProfileCreatedEvent(id, profile)
	if err == nil {
		err = s.outboxRepo.Create(ctx, event)
	}
	if err != nil {
		s.logger.Errorw("unable to record profile created event", "profileId", id, zap.Error(err))
	}
	return err
}
