package controllers

import (
	"context"

	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/fsdevblog/popuplink/internal/services"
)

// LinkAuthoring сервис создания и управления ссылками.
type LinkAuthoring interface {
	Create(ctx context.Context, owner *identity.User, p services.CreateParams) (*models.Link, error)
	Update(ctx context.Context, owner *identity.User, code string, params repositories.UpdateParams) (*models.Link, error)
	Delete(ctx context.Context, owner *identity.User, code string) error
	ListByOwner(ctx context.Context, owner *identity.User) ([]models.Link, error)
	ShortURL(link *models.Link) string
}

// LinkResolver резолюция кода для посетителя (с регистрацией просмотра).
type LinkResolver interface {
	Resolve(ctx context.Context, code string) (*models.Link, error)
}

// CounterIncrementer атомарные инкременты счетчиков взаимодействий.
type CounterIncrementer interface {
	Increment(ctx context.Context, code string, kind repositories.CounterKind) error
}
