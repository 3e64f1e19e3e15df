package popup

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// State состояние показа попапа в рамках одного визита.
type State int

const (
	StateIdle State = iota
	StatePending
	StateVisible
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateVisible:
		return "visible"
	case StateDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyArmed = errors.New("[popup]: scheduler already armed")
	ErrNotVisible   = errors.New("[popup]: popup is not visible")
)

// Scheduler машина состояний показа попапа для одного визита:
// Idle -> Pending -> Visible -> Dismissed. Переход Pending -> Visible
// происходит по таймеру через delay после Arm. Cancel во время Pending
// гарантирует что попап уже не появится. Одновременно взведен не более
// одного таймера.
type Scheduler struct {
	mu        sync.Mutex
	state     State
	delay     time.Duration
	timer     *time.Timer
	gen       uint64
	onVisible func()
}

// New создает планировщик. onVisible (опционально) вызывается при переходе
// в Visible, вне блокировки планировщика.
func New(delay time.Duration, onVisible func()) *Scheduler {
	if delay < 0 {
		delay = 0
	}
	return &Scheduler{
		state:     StateIdle,
		delay:     delay,
		onVisible: onVisible,
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Arm переводит планировщик из Idle в Pending и взводит таймер.
// При нулевой задержке попап становится Visible сразу, без интервала Pending.
func (s *Scheduler) Arm() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return errors.Wrapf(ErrAlreadyArmed, "state %s", s.state)
	}
	notify := s.arm()
	s.mu.Unlock()

	if notify && s.onVisible != nil {
		s.onVisible()
	}
	return nil
}

// Cancel останавливает ожидающий таймер и возвращает планировщик в Idle.
// После Cancel переход в Visible невозможен до повторного Arm/Reset.
// Вызов безопасен в любом состоянии.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimer()
	s.state = StateIdle
}

// Dismiss закрывает видимый попап. Терминальное состояние цикла показа.
func (s *Scheduler) Dismiss() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateVisible {
		return errors.Wrapf(ErrNotVisible, "state %s", s.state)
	}
	s.state = StateDismissed
	return nil
}

// Reset перевзводит планировщик из любого состояния: свежий таймер, снова
// Pending. Используется в предпросмотре, где попап показывается по кругу.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.stopTimer()
	s.state = StateIdle
	notify := s.arm()
	s.mu.Unlock()

	if notify && s.onVisible != nil {
		s.onVisible()
	}
}

// arm взводит таймер. Вызывается под блокировкой; возвращает true если
// состояние стало Visible синхронно и нужно дернуть onVisible.
func (s *Scheduler) arm() bool {
	if s.delay == 0 {
		s.state = StateVisible
		return true
	}
	s.state = StatePending
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(gen)
	})
	return false
}

// fire срабатывание таймера. Поколение gen отсекает таймеры, отмененные
// или перевзведенные после постановки.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.state != StatePending || s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state = StateVisible
	s.timer = nil
	s.mu.Unlock()

	if s.onVisible != nil {
		s.onVisible()
	}
}

func (s *Scheduler) stopTimer() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
