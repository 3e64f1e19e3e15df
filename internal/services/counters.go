package services

import (
	"context"

	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CounterService атомарные инкременты счетчиков взаимодействий.
// Единственный разрешенный путь изменения счетчиков: никакого
// read-modify-write поверх целой записи, иначе конкурентные визиты
// теряют обновления.
type CounterService struct {
	repo   repositories.LinkRepository
	logger *logrus.Entry
}

func NewCounterService(repo repositories.LinkRepository, logger *logrus.Logger) *CounterService {
	return &CounterService{
		repo:   repo,
		logger: logger.WithField("module", "service/counters"),
	}
}

// Increment добавляет 1 к счетчику kind записи с кодом code.
func (s *CounterService) Increment(ctx context.Context, code string, kind repositories.CounterKind) error {
	if !kind.Valid() {
		return errors.Errorf("unknown counter kind %q", kind)
	}
	if err := s.repo.IncrementCounter(ctx, code, kind); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrLinkNotFound, "code %s", code)
		}
		s.logger.WithError(err).Errorf("failed to increment %s for code %s", kind, code)
		return ErrUnknown
	}
	return nil
}
