package animate

import (
	"sync"
	"time"
)

// typing effect timings from the original headline animation
const (
	typeDelay    = 80 * time.Millisecond
	deleteDelay  = 40 * time.Millisecond
	holdDelay    = 2500 * time.Millisecond
	advanceDelay = 400 * time.Millisecond
)

// Typing cycles through a list of phrases, typing each one out, holding
// it, deleting it and moving on. Step is the whole state machine; a Task
// drives it at the delays it returns.
type Typing struct {
	mu        sync.Mutex
	texts     []string
	index     int
	charIndex int
	deleting  bool
}

func NewTyping(texts []string) *Typing {
	return &Typing{texts: texts}
}

// Frame returns the currently displayed prefix.
func (t *Typing) Frame() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.texts) == 0 {
		return ""
	}
	return t.texts[t.index][:byteIndex(t.texts[t.index], t.charIndex)]
}

// Step advances one character and returns the delay until the next step.
func (t *Typing) Step() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.texts) == 0 {
		return 0
	}

	if t.deleting {
		t.charIndex--
	} else {
		t.charIndex++
	}

	text := []rune(t.texts[t.index])
	switch {
	case !t.deleting && t.charIndex == len(text):
		t.deleting = true
		return holdDelay
	case t.deleting && t.charIndex == 0:
		t.deleting = false
		t.index = (t.index + 1) % len(t.texts)
		return advanceDelay
	case t.deleting:
		return deleteDelay
	default:
		return typeDelay
	}
}

// byteIndex converts a rune offset into a byte offset so Cyrillic phrases
// slice cleanly.
func byteIndex(s string, runes int) int {
	count := 0
	for i := range s {
		if count == runes {
			return i
		}
		count++
	}
	return len(s)
}
