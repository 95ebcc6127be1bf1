package animate

import (
	"sync"
	"time"
)

// AutoplayDelay is the slide rotation interval.
const AutoplayDelay = 5 * time.Second

// Slideshow rotates through a fixed number of slides. Manual navigation
// restarts the autoplay countdown via the task handle.
type Slideshow struct {
	mu      sync.Mutex
	current int
	total   int
	task    *Task
}

func NewSlideshow(total int) *Slideshow {
	return &Slideshow{total: total}
}

// StartAutoplay begins rotating slides. No-op for an empty slideshow.
func (s *Slideshow) StartAutoplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 || s.task != nil {
		return
	}
	s.task = Start(AutoplayDelay, func() time.Duration {
		s.advance(1)
		return AutoplayDelay
	})
}

// StopAutoplay cancels the rotation.
func (s *Slideshow) StopAutoplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		s.task.Stop()
		s.task = nil
	}
}

func (s *Slideshow) advance(by int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return 0
	}
	s.current = (s.current + by + s.total) % s.total
	return s.current
}

func (s *Slideshow) resetCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		s.task.Reset(AutoplayDelay)
	}
}

// Next moves forward one slide and restarts the countdown.
func (s *Slideshow) Next() int {
	current := s.advance(1)
	s.resetCountdown()
	return current
}

// Prev moves back one slide and restarts the countdown.
func (s *Slideshow) Prev() int {
	current := s.advance(-1)
	s.resetCountdown()
	return current
}

// GoTo jumps to a slide; out-of-range indexes are ignored.
func (s *Slideshow) GoTo(index int) int {
	s.mu.Lock()
	if index >= 0 && index < s.total {
		s.current = index
	}
	current := s.current
	s.mu.Unlock()
	s.resetCountdown()
	return current
}

// Current returns the active slide index.
func (s *Slideshow) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
