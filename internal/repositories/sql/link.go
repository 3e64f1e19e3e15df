package sql

import (
	"context"
	"time"

	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// counterColumns маппинг вида счетчика на колонку таблицы links.
var counterColumns = map[repositories.CounterKind]string{
	repositories.CounterView:        "view_count",
	repositories.CounterLinkClick:   "link_click_count",
	repositories.CounterButtonClick: "button_click_count",
}

type LinkRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewLinkRepo(db *gorm.DB, logger *logrus.Logger) *LinkRepo {
	return &LinkRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/link"),
	}
}

func (r *LinkRepo) Create(ctx context.Context, link *models.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateKey
		}
		r.logger.WithError(err).Errorf("failed to create record %+v", *link)
		return repositories.ErrUnknown
	}
	return nil
}

func (r *LinkRepo) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		r.logger.WithError(err).Errorf("failed to get record by short code %s", code)
		return nil, repositories.ErrUnknown
	}
	return &link, nil
}

func (r *LinkRepo) Update(ctx context.Context, code string, params repositories.UpdateParams) (*models.Link, error) {
	fields := updateFields(params)
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Link{}).
			Where("short_code = ?", code).
			Updates(fields)
		if res.Error != nil {
			r.logger.WithError(res.Error).Errorf("failed to update record by short code %s", code)
			return nil, repositories.ErrUnknown
		}
		if res.RowsAffected == 0 {
			return nil, repositories.ErrNotFound
		}
	}
	return r.GetByShortCode(ctx, code)
}

func (r *LinkRepo) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("short_code = ?", code).Delete(&models.Link{})
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to delete record by short code %s", code)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *LinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	var links []models.Link
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if err := q.Find(&links).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to list records by owner %s", ownerID)
		return nil, repositories.ErrUnknown
	}
	return links, nil
}

// IncrementCounter выполняется одним UPDATE c выражением `col = col + 1`,
// поэтому конкурентные инкременты не теряют обновлений.
func (r *LinkRepo) IncrementCounter(ctx context.Context, code string, kind repositories.CounterKind) error {
	col, ok := counterColumns[kind]
	if !ok {
		return errors.Wrapf(repositories.ErrUnknown, "unknown counter kind %q", kind)
	}
	res := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("short_code = ?", code).
		UpdateColumn(col, gorm.Expr(col+" + ?", 1))
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to increment %s for short code %s", col, code)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *LinkRepo) RegisterView(ctx context.Context, code string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("short_code = ?", code).
		UpdateColumns(map[string]any{
			"view_count":       gorm.Expr("view_count + ?", 1),
			"last_accessed_at": at,
		})
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to register view for short code %s", code)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func updateFields(params repositories.UpdateParams) map[string]any {
	fields := make(map[string]any)
	if params.DestinationURL != nil {
		fields["destination_url"] = *params.DestinationURL
	}
	if params.PopupMessage != nil {
		fields["popup_message"] = *params.PopupMessage
	}
	if params.ButtonLabel != nil {
		fields["button_label"] = *params.ButtonLabel
	}
	if params.ButtonURL != nil {
		fields["button_url"] = *params.ButtonURL
	}
	if params.Position != nil {
		fields["position"] = *params.Position
	}
	if params.DelaySeconds != nil {
		fields["delay_seconds"] = *params.DelaySeconds
	}
	if params.Shape != nil {
		fields["shape"] = *params.Shape
	}
	if params.Size != nil {
		fields["size"] = *params.Size
	}
	if params.CustomWidth != nil {
		fields["custom_width"] = *params.CustomWidth
	}
	if params.CustomHeight != nil {
		fields["custom_height"] = *params.CustomHeight
	}
	if params.ImageURL != nil {
		fields["image_url"] = *params.ImageURL
	}
	if params.IsActive != nil {
		fields["is_active"] = *params.IsActive
	}
	return fields
}
