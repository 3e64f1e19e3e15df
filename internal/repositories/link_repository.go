package repositories

import (
	"context"
	"time"

	"github.com/fsdevblog/popuplink/internal/models"
)

// CounterKind вид счетчика взаимодействий.
type CounterKind string

const (
	CounterView        CounterKind = "view"
	CounterLinkClick   CounterKind = "linkClick"
	CounterButtonClick CounterKind = "buttonClick"
)

func (k CounterKind) Valid() bool {
	switch k {
	case CounterView, CounterLinkClick, CounterButtonClick:
		return true
	}
	return false
}

// UpdateParams частичное обновление записи. nil-поля не трогаются.
// ID, ShortCode, CreatedAt и счетчики через обновление не меняются никогда.
type UpdateParams struct {
	DestinationURL *string
	PopupMessage   *string
	ButtonLabel    *string
	ButtonURL      *string
	Position       *models.Position
	DelaySeconds   *float64
	Shape          *models.Shape
	Size           *models.Size
	CustomWidth    *int
	CustomHeight   *int
	ImageURL       *string
	IsActive       *bool
}

// LinkRepository описывает репозиторий для коротких ссылок.
type LinkRepository interface {
	// Create создает запись. Возвращает ErrDuplicateKey при занятом коротком коде.
	Create(ctx context.Context, link *models.Link) error
	// GetByShortCode находит запись по короткому коду.
	GetByShortCode(ctx context.Context, code string) (*models.Link, error)
	// Update частично обновляет запись и возвращает результат.
	Update(ctx context.Context, code string, params UpdateParams) (*models.Link, error)
	// Delete удаляет запись (hard delete).
	Delete(ctx context.Context, code string) error
	// ListByOwner возвращает записи владельца, новые первыми.
	// Пустой ownerID означает все записи (анонимный вариант приложения).
	ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error)
	// IncrementCounter атомарно добавляет 1 к счетчику kind.
	IncrementCounter(ctx context.Context, code string, kind CounterKind) error
	// RegisterView одной операцией хранилища добавляет 1 к счетчику просмотров
	// и обновляет last_accessed_at. Либо происходят оба эффекта, либо ни одного.
	RegisterView(ctx context.Context, code string, at time.Time) error
}
