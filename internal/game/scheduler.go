package game

import (
	"sync"
	"time"
)

// timerScheduler arms at most one pending wake-up, backed by a time.Timer.
// The fire callback posts a wake event into the owning room's inbox, so the
// firing is serialized with every other event the room sees.
type timerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	fire  func()
}

func newTimerScheduler(fire func()) *timerScheduler {
	return &timerScheduler{fire: fire}
}

func (s *timerScheduler) Schedule(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	d := time.Until(at)
	if d < 0 {
		d = 0
	}
	s.timer = time.AfterFunc(d, s.fire)
}

func (s *timerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
