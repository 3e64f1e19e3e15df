package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fsdevblog/popuplink/internal/db"
	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo() *LinkRepo {
	return NewLinkRepo(db.NewMemStorage())
}

func newTestLink(code string) *models.Link {
	return &models.Link{
		ID:             uuid.NewString(),
		ShortCode:      code,
		DestinationURL: "https://example.com",
		PopupMessage:   "Check out our special offer!",
		ButtonLabel:    "Learn More",
		ButtonURL:      "https://example.com",
		Position:       models.PositionBottomRight,
		DelaySeconds:   3,
		Shape:          models.ShapeRounded,
		Size:           models.SizeMedium,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestLinkRepo_CreateGet(t *testing.T) {
	repo := newTestRepo()
	link := newTestLink("promo1")

	require.NoError(t, repo.Create(context.Background(), link))

	got, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, link.DestinationURL, got.DestinationURL)
	assert.Zero(t, got.ViewCount)

	_, err = repo.GetByShortCode(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestLinkRepo_Create_Duplicate(t *testing.T) {
	repo := newTestRepo()
	first := newTestLink("promo1")
	require.NoError(t, repo.Create(context.Background(), first))

	second := newTestLink("promo1")
	second.DestinationURL = "https://other.example.com"
	assert.ErrorIs(t, repo.Create(context.Background(), second), repositories.ErrDuplicateKey)

	// Первая запись не тронута.
	got, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.Equal(t, first.DestinationURL, got.DestinationURL)
}

func TestLinkRepo_Update(t *testing.T) {
	repo := newTestRepo()
	link := newTestLink("promo1")
	require.NoError(t, repo.Create(context.Background(), link))
	require.NoError(t, repo.IncrementCounter(context.Background(), "promo1", repositories.CounterView))

	newMsg := "New message"
	inactive := false
	got, err := repo.Update(context.Background(), "promo1", repositories.UpdateParams{
		PopupMessage: &newMsg,
		IsActive:     &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, newMsg, got.PopupMessage)
	assert.False(t, got.IsActive)

	// Обновление сохраняет id, created_at и счетчики.
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, link.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.EqualValues(t, 1, got.ViewCount)

	_, err = repo.Update(context.Background(), "missing", repositories.UpdateParams{PopupMessage: &newMsg})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestLinkRepo_Delete(t *testing.T) {
	repo := newTestRepo()
	require.NoError(t, repo.Create(context.Background(), newTestLink("promo1")))

	require.NoError(t, repo.Delete(context.Background(), "promo1"))

	_, err := repo.GetByShortCode(context.Background(), "promo1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "promo1"), repositories.ErrNotFound)
}

func TestLinkRepo_ListByOwner(t *testing.T) {
	repo := newTestRepo()
	owner1 := uuid.NewString()
	owner2 := uuid.NewString()

	base := time.Now().UTC()
	for i, tc := range []struct {
		code  string
		owner *string
	}{
		{code: "aaa111", owner: &owner1},
		{code: "bbb222", owner: &owner2},
		{code: "ccc333", owner: &owner1},
	} {
		link := newTestLink(tc.code)
		link.OwnerID = tc.owner
		link.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), link))
	}

	links, err := repo.ListByOwner(context.Background(), owner1)
	require.NoError(t, err)
	require.Len(t, links, 2)
	// Новые записи первыми.
	assert.Equal(t, "ccc333", links[0].ShortCode)
	assert.Equal(t, "aaa111", links[1].ShortCode)

	all, err := repo.ListByOwner(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLinkRepo_IncrementCounter_Concurrent(t *testing.T) {
	repo := newTestRepo()
	require.NoError(t, repo.Create(context.Background(), newTestLink("promo1")))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementCounter(context.Background(), "promo1", repositories.CounterView))
		}()
	}
	wg.Wait()

	got, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.EqualValues(t, workers, got.ViewCount)
	assert.Zero(t, got.LinkClickCount)
	assert.Zero(t, got.ButtonClickCount)
}

func TestLinkRepo_IncrementCounter_Kinds(t *testing.T) {
	repo := newTestRepo()
	require.NoError(t, repo.Create(context.Background(), newTestLink("promo1")))

	require.NoError(t, repo.IncrementCounter(context.Background(), "promo1", repositories.CounterButtonClick))
	require.NoError(t, repo.IncrementCounter(context.Background(), "promo1", repositories.CounterButtonClick))
	require.NoError(t, repo.IncrementCounter(context.Background(), "promo1", repositories.CounterLinkClick))

	got, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ButtonClickCount)
	assert.EqualValues(t, 1, got.LinkClickCount)
	assert.Zero(t, got.ViewCount)

	assert.ErrorIs(t,
		repo.IncrementCounter(context.Background(), "missing", repositories.CounterView),
		repositories.ErrNotFound)
}

func TestLinkRepo_RegisterView(t *testing.T) {
	repo := newTestRepo()
	require.NoError(t, repo.Create(context.Background(), newTestLink("promo1")))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.RegisterView(context.Background(), "promo1", at))

	got, err := repo.GetByShortCode(context.Background(), "promo1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ViewCount)
	require.NotNil(t, got.LastAccessedAt)
	assert.Equal(t, at.Unix(), got.LastAccessedAt.Unix())

	assert.ErrorIs(t, repo.RegisterView(context.Background(), "missing", at), repositories.ErrNotFound)
}
