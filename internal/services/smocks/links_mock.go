package smocks

import (
	"context"

	"github.com/fsdevblog/popuplink/internal/identity"
	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/fsdevblog/popuplink/internal/services"
	"github.com/stretchr/testify/mock"
)

type LinksMock struct {
	mock.Mock
}

func (m *LinksMock) Create(ctx context.Context, owner *identity.User, p services.CreateParams) (*models.Link, error) {
	args := m.Called(ctx, owner, p)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinksMock) Update(
	ctx context.Context,
	owner *identity.User,
	code string,
	params repositories.UpdateParams,
) (*models.Link, error) {
	args := m.Called(ctx, owner, code, params)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinksMock) Delete(ctx context.Context, owner *identity.User, code string) error {
	args := m.Called(ctx, owner, code)
	return args.Error(0) //nolint:wrapcheck
}

func (m *LinksMock) ListByOwner(ctx context.Context, owner *identity.User) ([]models.Link, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).([]models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinksMock) ShortURL(link *models.Link) string {
	args := m.Called(link)
	return args.String(0)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, code string) (*models.Link, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

type CountersMock struct {
	mock.Mock
}

func (m *CountersMock) Increment(ctx context.Context, code string, kind repositories.CounterKind) error {
	args := m.Called(ctx, code, kind)
	return args.Error(0) //nolint:wrapcheck
}
