package visits

import (
	"testing"
	"time"

	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/popup"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, ttl time.Duration) *Registry {
	t.Helper()
	logger := logrus.New()
	r := NewRegistry(ttl, logger)
	t.Cleanup(r.Stop)
	return r
}

func TestRegistry_OpenGet(t *testing.T) {
	r := newTestRegistry(t, time.Minute)
	link := &models.Link{ShortCode: "promo1", DelaySeconds: 0}

	v := r.Open(link)
	require.NotEmpty(t, v.ID)
	// Нулевая задержка - попап виден сразу.
	assert.Equal(t, popup.StateVisible, v.Scheduler.State())

	got, err := r.Get(v.ID)
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_CloseCancelsPendingTimer(t *testing.T) {
	r := newTestRegistry(t, time.Minute)
	link := &models.Link{ShortCode: "promo1", DelaySeconds: 0.03}

	v := r.Open(link)
	assert.Equal(t, popup.StatePending, v.Scheduler.State())

	require.NoError(t, r.Close(v.ID))
	_, err := r.Get(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// После закрытия визита попап появиться не должен.
	time.Sleep(60 * time.Millisecond)
	assert.NotEqual(t, popup.StateVisible, v.Scheduler.State())

	assert.ErrorIs(t, r.Close(v.ID), ErrNotFound)
}

func TestRegistry_ExpireCancelsTimers(t *testing.T) {
	r := newTestRegistry(t, time.Minute)
	link := &models.Link{ShortCode: "promo1", DelaySeconds: 10}

	v := r.Open(link)
	r.expire(time.Now().UTC().Add(2 * time.Minute))

	_, err := r.Get(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, popup.StateIdle, v.Scheduler.State())
}
