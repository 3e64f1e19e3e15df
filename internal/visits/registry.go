package visits

import (
	"errors"
	"sync"
	"time"

	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/popup"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("[visits]: visit not found")

// Visit один визит посетителя по короткой ссылке. Держит резолвнутую запись
// и планировщик показа попапа этого визита.
type Visit struct {
	ID        string
	Link      *models.Link
	Scheduler *popup.Scheduler
	CreatedAt time.Time
}

// Registry реестр активных визитов. Визиты, о которых клиент перестал
// сообщать, вычищаются по TTL; у вычищенного визита ожидающий таймер
// отменяется, чтобы попап не "сработал" после ухода посетителя.
type Registry struct {
	mu     sync.Mutex
	visits map[string]*Visit
	ttl    time.Duration
	stop   chan struct{}
	done   chan struct{}
	logger *logrus.Entry
}

func NewRegistry(ttl time.Duration, logger *logrus.Logger) *Registry {
	r := &Registry{
		visits: make(map[string]*Visit),
		ttl:    ttl,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.WithField("module", "visits"),
	}
	go r.sweep()
	return r
}

// Open регистрирует визит по резолвнутой записи и взводит планировщик.
func (r *Registry) Open(link *models.Link) *Visit {
	v := &Visit{
		ID:        uuid.NewString(),
		Link:      link,
		Scheduler: popup.New(link.Delay(), nil),
		CreatedAt: time.Now().UTC(),
	}
	// Единственный Arm из состояния Idle, ошибка невозможна.
	if err := v.Scheduler.Arm(); err != nil {
		r.logger.WithError(err).Error("failed to arm popup scheduler")
	}

	r.mu.Lock()
	r.visits[v.ID] = v
	r.mu.Unlock()
	return v
}

func (r *Registry) Get(id string) (*Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visits[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Close завершает визит: отменяет ожидающий таймер и убирает визит из
// реестра. Вызывается при уходе посетителя со страницы.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	v, ok := r.visits[id]
	if ok {
		delete(r.visits, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	v.Scheduler.Cancel()
	return nil
}

// Stop останавливает фоновую чистку реестра.
func (r *Registry) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Registry) sweep() {
	defer close(r.done)

	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.expire(time.Now().UTC())
		}
	}
}

func (r *Registry) expire(now time.Time) {
	var expired []*Visit

	r.mu.Lock()
	for id, v := range r.visits {
		if now.Sub(v.CreatedAt) > r.ttl {
			delete(r.visits, id)
			expired = append(expired, v)
		}
	}
	r.mu.Unlock()

	for _, v := range expired {
		v.Scheduler.Cancel()
	}
	if len(expired) > 0 {
		r.logger.Debugf("expired %d stale visits", len(expired))
	}
}
