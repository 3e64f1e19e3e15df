package services

import (
	"context"
	"testing"

	"github.com/fsdevblog/popuplink/internal/db"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/fsdevblog/popuplink/internal/repositories/memstore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolverFixture() (*ResolveService, *LinkService, *memstore.LinkRepo) {
	repo := memstore.NewLinkRepo(db.NewMemStorage())
	logger := logrus.New()
	links := NewLinkService(repo, nil, testBaseURL, false, logger)
	return NewResolveService(repo, logger), links, repo
}

func TestResolveService_Resolve(t *testing.T) {
	resolver, links, repo := newResolverFixture()

	p := validCreateParams()
	p.CustomCode = "promo1"
	created, err := links.Create(context.Background(), nil, p)
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), "promo1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
	assert.Equal(t, "https://example.com", resolved.DestinationURL)
	assert.EqualValues(t, 1, resolved.ViewCount)
	assert.NotNil(t, resolved.LastAccessedAt)

	// Просмотр и отметка времени записаны в хранилище, не только в копии.
	stored, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.ViewCount)
	assert.NotNil(t, stored.LastAccessedAt)

	// Повторный визит - еще один просмотр.
	_, err = resolver.Resolve(context.Background(), "promo1")
	require.NoError(t, err)
	stored, err = repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.ViewCount)
}

func TestResolveService_Resolve_NotFoundIndistinguishable(t *testing.T) {
	resolver, links, repo := newResolverFixture()

	p := validCreateParams()
	p.CustomCode = "hidden1"
	_, err := links.Create(context.Background(), nil, p)
	require.NoError(t, err)

	inactive := false
	_, err = repo.Update(context.Background(), "hidden1", repositories.UpdateParams{IsActive: &inactive})
	require.NoError(t, err)

	missingErr := func() error {
		_, e := resolver.Resolve(context.Background(), "missing")
		return e
	}()
	inactiveErr := func() error {
		_, e := resolver.Resolve(context.Background(), "hidden1")
		return e
	}()

	// Несуществующий и выключенный код дают одинаковый класс ошибки.
	assert.ErrorIs(t, missingErr, ErrLinkNotFound)
	assert.ErrorIs(t, inactiveErr, ErrLinkNotFound)

	// Просмотр по выключенной ссылке не засчитывается.
	stored, err := repo.GetByShortCode(context.Background(), "hidden1")
	require.NoError(t, err)
	assert.Zero(t, stored.ViewCount)
}

func TestResolveService_Resolve_AfterDelete(t *testing.T) {
	resolver, links, _ := newResolverFixture()

	p := validCreateParams()
	p.CustomCode = "promo1"
	_, err := links.Create(context.Background(), nil, p)
	require.NoError(t, err)

	require.NoError(t, links.Delete(context.Background(), nil, "promo1"))

	_, err = resolver.Resolve(context.Background(), "promo1")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}
