package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/fsdevblog/popuplink/internal/db"
	"github.com/fsdevblog/popuplink/internal/db/memory"
	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/pkg/errors"
)

// LinkRepo репозиторий коротких ссылок в памяти. Записи хранятся по ключу
// короткого кода. Атомарность инкрементов обеспечивает memory.Update -
// мутация происходит под блокировкой хранилища на запись.
type LinkRepo struct {
	s *db.MemoryStorage
}

func NewLinkRepo(store *db.MemoryStorage) *LinkRepo {
	return &LinkRepo{s: store}
}

func (r *LinkRepo) Create(ctx context.Context, link *models.Link) error {
	if err := memory.Set[models.Link](ctx, link.ShortCode, link, r.s.MStorage); err != nil {
		return convertErrorType(err)
	}
	return nil
}

func (r *LinkRepo) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	link, err := memory.Get[models.Link](ctx, code, r.s.MStorage)
	if err != nil {
		return nil, convertErrorType(err)
	}
	return link, nil
}

func (r *LinkRepo) Update(ctx context.Context, code string, params repositories.UpdateParams) (*models.Link, error) {
	link, err := memory.Update[models.Link](ctx, code, r.s.MStorage, func(l *models.Link) error {
		applyUpdate(l, params)
		return nil
	})
	if err != nil {
		return nil, convertErrorType(err)
	}
	return link, nil
}

func (r *LinkRepo) Delete(ctx context.Context, code string) error {
	if err := r.s.MStorage.Delete(ctx, code); err != nil {
		return convertErrorType(err)
	}
	return nil
}

func (r *LinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	links, err := memory.FilterAll[models.Link](ctx, r.s.MStorage, func(val models.Link) bool {
		if ownerID == "" {
			return true
		}
		return val.OwnerID != nil && *val.OwnerID == ownerID
	})
	if err != nil {
		return nil, convertErrorType(err)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (r *LinkRepo) IncrementCounter(ctx context.Context, code string, kind repositories.CounterKind) error {
	_, err := memory.Update[models.Link](ctx, code, r.s.MStorage, func(l *models.Link) error {
		switch kind {
		case repositories.CounterView:
			l.ViewCount++
		case repositories.CounterLinkClick:
			l.LinkClickCount++
		case repositories.CounterButtonClick:
			l.ButtonClickCount++
		default:
			return errors.Wrapf(repositories.ErrUnknown, "unknown counter kind %q", kind)
		}
		return nil
	})
	if err != nil {
		return convertErrorType(err)
	}
	return nil
}

func (r *LinkRepo) RegisterView(ctx context.Context, code string, at time.Time) error {
	_, err := memory.Update[models.Link](ctx, code, r.s.MStorage, func(l *models.Link) error {
		l.ViewCount++
		l.LastAccessedAt = &at
		return nil
	})
	if err != nil {
		return convertErrorType(err)
	}
	return nil
}

func applyUpdate(l *models.Link, params repositories.UpdateParams) {
	if params.DestinationURL != nil {
		l.DestinationURL = *params.DestinationURL
	}
	if params.PopupMessage != nil {
		l.PopupMessage = *params.PopupMessage
	}
	if params.ButtonLabel != nil {
		l.ButtonLabel = *params.ButtonLabel
	}
	if params.ButtonURL != nil {
		l.ButtonURL = *params.ButtonURL
	}
	if params.Position != nil {
		l.Position = *params.Position
	}
	if params.DelaySeconds != nil {
		l.DelaySeconds = *params.DelaySeconds
	}
	if params.Shape != nil {
		l.Shape = *params.Shape
	}
	if params.Size != nil {
		l.Size = *params.Size
	}
	if params.CustomWidth != nil {
		l.CustomWidth = params.CustomWidth
	}
	if params.CustomHeight != nil {
		l.CustomHeight = params.CustomHeight
	}
	if params.ImageURL != nil {
		l.ImageURL = *params.ImageURL
	}
	if params.IsActive != nil {
		l.IsActive = *params.IsActive
	}
}
