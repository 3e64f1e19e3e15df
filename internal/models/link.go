package models

import "time"

// ShortCodeLength длина генерируемого короткого кода.
const ShortCodeLength = 6

// Position позиция попапа на странице.
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
	PositionCenter      Position = "center"
)

func (p Position) Valid() bool {
	switch p {
	case PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight, PositionCenter:
		return true
	}
	return false
}

// Shape форма попапа.
type Shape string

const (
	ShapeRounded Shape = "rounded"
	ShapeSquare  Shape = "square"
	ShapePill    Shape = "pill"
	ShapeCircle  Shape = "circle"
)

func (s Shape) Valid() bool {
	switch s {
	case ShapeRounded, ShapeSquare, ShapePill, ShapeCircle:
		return true
	}
	return false
}

// Size размер попапа. SizeCustom требует явных CustomWidth/CustomHeight.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeCustom Size = "custom"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeCustom:
		return true
	}
	return false
}

// Link структура модели хранения короткой ссылки с попапом.
//
// Счетчики ViewCount/LinkClickCount/ButtonClickCount монотонны и меняются
// только атомарными инкрементами на уровне хранилища.
type Link struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ShortCode      string     `gorm:"uniqueIndex;size:32" json:"shortCode"`
	DestinationURL string     `gorm:"size:2048" json:"destinationUrl"`
	PopupMessage   string     `gorm:"size:1024" json:"popupMessage"`
	ButtonLabel    string     `gorm:"size:255" json:"buttonLabel"`
	ButtonURL      string     `gorm:"size:2048" json:"buttonUrl"`
	Position       Position   `gorm:"size:16" json:"position"`
	DelaySeconds   float64    `json:"delaySeconds"`
	Shape          Shape      `gorm:"size:16" json:"shape"`
	Size           Size       `gorm:"size:16" json:"size"`
	CustomWidth    *int       `json:"customWidth,omitempty"`
	CustomHeight   *int       `json:"customHeight,omitempty"`
	ImageURL       string     `gorm:"size:2048" json:"imageUrl,omitempty"`
	IsActive       bool       `json:"isActive"`
	OwnerID        *string    `gorm:"index;size:36" json:"ownerId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`

	ViewCount        int64 `json:"viewCount"`
	LinkClickCount   int64 `json:"linkClickCount"`
	ButtonClickCount int64 `json:"buttonClickCount"`
}

// Delay возвращает задержку показа попапа как time.Duration.
func (l *Link) Delay() time.Duration {
	if l.DelaySeconds <= 0 {
		return 0
	}
	return time.Duration(l.DelaySeconds * float64(time.Second))
}
