package services

import (
	"context"
	"testing"

	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterService_Increment(t *testing.T) {
	resolver, links, repo := newResolverFixture()
	counters := NewCounterService(repo, logrus.New())

	p := validCreateParams()
	p.CustomCode = "promo1"
	_, err := links.Create(context.Background(), nil, p)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "promo1")
	require.NoError(t, err)

	require.NoError(t, counters.Increment(context.Background(), "promo1", repositories.CounterButtonClick))
	require.NoError(t, counters.Increment(context.Background(), "promo1", repositories.CounterButtonClick))

	stored, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	// Ровно два клика по кнопке, остальные счетчики не задеты.
	assert.EqualValues(t, 2, stored.ButtonClickCount)
	assert.EqualValues(t, 1, stored.ViewCount)
	assert.Zero(t, stored.LinkClickCount)
}

func TestCounterService_Increment_Errors(t *testing.T) {
	_, _, repo := newResolverFixture()
	counters := NewCounterService(repo, logrus.New())

	assert.ErrorIs(t,
		counters.Increment(context.Background(), "missing", repositories.CounterView),
		ErrLinkNotFound)

	err := counters.Increment(context.Background(), "promo1", repositories.CounterKind("likes"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLinkNotFound)
}
