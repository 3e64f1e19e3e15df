package services

import (
	"context"
	"time"

	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ResolveService резолвит короткий код в запись ссылки для посетителя.
type ResolveService struct {
	repo   repositories.LinkRepository
	logger *logrus.Entry
}

func NewResolveService(repo repositories.LinkRepository, logger *logrus.Logger) *ResolveService {
	return &ResolveService{
		repo:   repo,
		logger: logger.WithField("module", "service/resolver"),
	}
}

// Resolve находит запись по коду и регистрирует просмотр (инкремент счетчика
// и отметка last_accessed_at одной операцией хранилища). Отсутствующая и
// выключенная ссылка для посетителя неразличимы - обе дают ErrLinkNotFound.
// Незаписанный просмотр не блокирует показ: ошибка логируется, резолюция
// проходит.
func (s *ResolveService) Resolve(ctx context.Context, code string) (*models.Link, error) {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrLinkNotFound, "code %s", code)
		}
		s.logger.WithError(err).Errorf("failed to resolve code %s", code)
		return nil, ErrUnknown
	}
	if !link.IsActive {
		s.logger.Debugf("inactive link %s resolved as not found", code)
		return nil, errors.Wrapf(ErrLinkNotFound, "code %s", code)
	}

	now := time.Now().UTC()
	if viewErr := s.repo.RegisterView(ctx, code, now); viewErr != nil {
		s.logger.WithError(viewErr).Warnf("view not recorded for code %s", code)
	} else {
		link.ViewCount++
		link.LastAccessedAt = &now
	}
	return link, nil
}
