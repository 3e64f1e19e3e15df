package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fsdevblog/popuplink/internal/codegen"
	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxCodeAttempts сколько раз перегенерировать код при коллизии.
const maxCodeAttempts = 5

// CreateParams входные данные формы создания ссылки.
type CreateParams struct {
	DestinationURL string
	PopupMessage   string
	ButtonLabel    string
	ButtonURL      string
	Position       models.Position
	DelaySeconds   float64
	CustomCode     string
	ImageURL       string
	Shape          models.Shape
	Size           models.Size
	CustomWidth    *int
	CustomHeight   *int
}

// LinkService создание и управление короткими ссылками.
type LinkService struct {
	repo        repositories.LinkRepository
	gen         *codegen.Generator
	baseURL     *url.URL
	requireAuth bool
	logger      *logrus.Entry
}

func NewLinkService(
	repo repositories.LinkRepository,
	gen *codegen.Generator,
	baseURL *url.URL,
	requireAuth bool,
	logger *logrus.Logger,
) *LinkService {
	return &LinkService{
		repo:        repo,
		gen:         gen,
		baseURL:     baseURL,
		requireAuth: requireAuth,
		logger:      logger.WithField("module", "service/links"),
	}
}

// Create валидирует и нормализует входные данные, назначает код и сохраняет
// запись. Пустой ButtonURL заменяется на DestinationURL. При коллизии
// сгенерированного кода генерация повторяется до maxCodeAttempts раз;
// занятый пользовательский код - ошибка сразу, без повторов.
func (s *LinkService) Create(ctx context.Context, owner *identity.User, p CreateParams) (*models.Link, error) {
	if s.requireAuth && owner == nil {
		return nil, ErrAuthRequired
	}
	if err := s.validateCreate(p); err != nil {
		return nil, err
	}

	link := s.buildLink(owner, p)

	if p.CustomCode != "" {
		link.ShortCode = p.CustomCode
		if err := s.repo.Create(ctx, link); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return nil, errors.Wrapf(ErrDuplicateCode, "code %s", p.CustomCode)
			}
			s.logger.WithError(err).Errorf("failed to create link with custom code %s", p.CustomCode)
			return nil, ErrUnknown
		}
		return link, nil
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		link.ShortCode = s.gen.Generate(models.ShortCodeLength)
		createErr := s.repo.Create(ctx, link)
		if createErr == nil {
			return link, nil
		}
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			s.logger.Warnf("short code collision on %s, retrying (attempt %d/%d)",
				link.ShortCode, attempt, maxCodeAttempts)
			continue
		}
		s.logger.WithError(createErr).Error("failed to create link")
		return nil, ErrUnknown
	}
	return nil, ErrCodeExhausted
}

// Update частично обновляет запись. ID, короткий код, created_at и счетчики
// не меняются. В аккаунтном варианте чужая запись неотличима от отсутствующей.
func (s *LinkService) Update(
	ctx context.Context,
	owner *identity.User,
	code string,
	params repositories.UpdateParams,
) (*models.Link, error) {
	if s.requireAuth && owner == nil {
		return nil, ErrAuthRequired
	}
	if err := s.validateUpdate(params); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, owner, code); err != nil {
		return nil, err
	}
	if err := s.redefaultButtonURL(ctx, code, &params); err != nil {
		return nil, err
	}

	link, err := s.repo.Update(ctx, code, params)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrLinkNotFound, "code %s", code)
		}
		s.logger.WithError(err).Errorf("failed to update link %s", code)
		return nil, ErrUnknown
	}
	return link, nil
}

// Delete удаляет запись насовсем.
func (s *LinkService) Delete(ctx context.Context, owner *identity.User, code string) error {
	if s.requireAuth && owner == nil {
		return ErrAuthRequired
	}
	if err := s.checkOwnership(ctx, owner, code); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrLinkNotFound, "code %s", code)
		}
		s.logger.WithError(err).Errorf("failed to delete link %s", code)
		return ErrUnknown
	}
	return nil
}

// ListByOwner возвращает записи владельца, новые первыми. Владелец видит
// is_active и счетчики. В анонимном варианте возвращаются все записи.
func (s *LinkService) ListByOwner(ctx context.Context, owner *identity.User) ([]models.Link, error) {
	if s.requireAuth && owner == nil {
		return nil, ErrAuthRequired
	}
	var ownerID string
	if owner != nil {
		ownerID = owner.ID
	}

	links, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to list links by owner %s", ownerID)
		return nil, ErrUnknown
	}
	return links, nil
}

// ShortURL собирает публичную короткую ссылку для записи.
func (s *LinkService) ShortURL(link *models.Link) string {
	return fmt.Sprintf("%s/r/%s", s.baseURL, link.ShortCode)
}

func (s *LinkService) buildLink(owner *identity.User, p CreateParams) *models.Link {
	buttonURL := p.ButtonURL
	if buttonURL == "" {
		buttonURL = p.DestinationURL
	}
	position := p.Position
	if position == "" {
		position = models.PositionBottomRight
	}
	shape := p.Shape
	if shape == "" {
		shape = models.ShapeRounded
	}
	size := p.Size
	if size == "" {
		size = models.SizeMedium
	}

	link := &models.Link{
		ID:             uuid.NewString(),
		DestinationURL: p.DestinationURL,
		PopupMessage:   p.PopupMessage,
		ButtonLabel:    p.ButtonLabel,
		ButtonURL:      buttonURL,
		Position:       position,
		DelaySeconds:   p.DelaySeconds,
		Shape:          shape,
		Size:           size,
		ImageURL:       p.ImageURL,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if size == models.SizeCustom {
		link.CustomWidth = p.CustomWidth
		link.CustomHeight = p.CustomHeight
	}
	if owner != nil {
		ownerID := owner.ID
		link.OwnerID = &ownerID
	}
	return link
}

func (s *LinkService) validateCreate(p CreateParams) error {
	if p.DestinationURL == "" {
		return newValidationError("destinationUrl", "is required")
	}
	if err := validateAbsoluteURL("destinationUrl", p.DestinationURL); err != nil {
		return err
	}
	if p.ButtonURL != "" {
		if err := validateAbsoluteURL("buttonUrl", p.ButtonURL); err != nil {
			return err
		}
	}
	if p.ImageURL != "" {
		if err := validateAbsoluteURL("imageUrl", p.ImageURL); err != nil {
			return err
		}
	}
	if err := validateDelay(p.DelaySeconds); err != nil {
		return err
	}
	if p.Position != "" && !p.Position.Valid() {
		return newValidationError("position", "unknown position")
	}
	if p.Shape != "" && !p.Shape.Valid() {
		return newValidationError("shape", "unknown shape")
	}
	if p.Size != "" && !p.Size.Valid() {
		return newValidationError("size", "unknown size")
	}
	if err := validateCustomSize(p.Size, p.CustomWidth, p.CustomHeight); err != nil {
		return err
	}
	if p.CustomCode != "" {
		if err := validateCustomCode(p.CustomCode); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkService) validateUpdate(params repositories.UpdateParams) error {
	if params.DestinationURL != nil {
		if err := validateAbsoluteURL("destinationUrl", *params.DestinationURL); err != nil {
			return err
		}
	}
	if params.ButtonURL != nil && *params.ButtonURL != "" {
		if err := validateAbsoluteURL("buttonUrl", *params.ButtonURL); err != nil {
			return err
		}
	}
	if params.ImageURL != nil && *params.ImageURL != "" {
		if err := validateAbsoluteURL("imageUrl", *params.ImageURL); err != nil {
			return err
		}
	}
	if params.DelaySeconds != nil {
		if err := validateDelay(*params.DelaySeconds); err != nil {
			return err
		}
	}
	if params.Position != nil && !params.Position.Valid() {
		return newValidationError("position", "unknown position")
	}
	if params.Shape != nil && !params.Shape.Valid() {
		return newValidationError("shape", "unknown shape")
	}
	if params.Size != nil {
		if !params.Size.Valid() {
			return newValidationError("size", "unknown size")
		}
		if err := validateCustomSize(*params.Size, params.CustomWidth, params.CustomHeight); err != nil {
			return err
		}
	}
	return nil
}

// redefaultButtonURL пустой buttonUrl, как и при создании, заменяется на
// адрес назначения. Берется адрес из этого же запроса либо сохраненный.
func (s *LinkService) redefaultButtonURL(ctx context.Context, code string, params *repositories.UpdateParams) error {
	if params.ButtonURL == nil || *params.ButtonURL != "" {
		return nil
	}
	if params.DestinationURL != nil {
		params.ButtonURL = params.DestinationURL
		return nil
	}

	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrLinkNotFound, "code %s", code)
		}
		s.logger.WithError(err).Errorf("failed to get link %s", code)
		return ErrUnknown
	}
	params.ButtonURL = &link.DestinationURL
	return nil
}

// checkOwnership в аккаунтном варианте прячет чужие записи за ErrLinkNotFound,
// чтобы не раскрывать их существование.
func (s *LinkService) checkOwnership(ctx context.Context, owner *identity.User, code string) error {
	if !s.requireAuth {
		return nil
	}

	existing, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrLinkNotFound, "code %s", code)
		}
		s.logger.WithError(err).Errorf("failed to check ownership of link %s", code)
		return ErrUnknown
	}
	if existing.OwnerID == nil || *existing.OwnerID != owner.ID {
		return errors.Wrapf(ErrLinkNotFound, "code %s", code)
	}
	return nil
}
