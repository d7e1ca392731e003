package prefs

import (
	"sync"
	"time"
	"unicode/utf8"
)

// DraftSaver autosaves the input text after typing pauses.
// Every Touch restarts the timer; only the latest text is written, and
// only when it is longer than minChars.
type DraftSaver struct {
	prefs    *Preferences
	delay    time.Duration
	minChars int
	onError  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	gen     uint64 // bumped by Cancel; a flush from an older generation is dropped

	// held for the duration of a store write
	writeMu sync.Mutex
}

// NewDraftSaver creates a saver. onError may be nil.
func NewDraftSaver(p *Preferences, delay time.Duration, minChars int, onError func(error)) *DraftSaver {
	return &DraftSaver{
		prefs:    p,
		delay:    delay,
		minChars: minChars,
		onError:  onError,
	}
}

// Touch schedules text to be saved after the debounce delay
func (d *DraftSaver) Touch(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Flush saves the pending text immediately
func (d *DraftSaver) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.flush()
}

// Cancel drops the pending text without saving it. When it returns, no
// earlier draft can still reach the store, so clearing it afterwards sticks.
func (d *DraftSaver) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
	d.gen++
	d.mu.Unlock()

	// wait out a write that started before the bump
	d.writeMu.Lock()
	d.writeMu.Unlock()
}

func (d *DraftSaver) flush() {
	d.mu.Lock()
	text, gen := d.pending, d.gen
	d.pending = ""
	d.timer = nil
	d.mu.Unlock()

	if utf8.RuneCountInString(text) <= d.minChars {
		return
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	stale := gen != d.gen
	d.mu.Unlock()
	if stale {
		return
	}

	if err := d.prefs.SaveLastText(text); err != nil && d.onError != nil {
		d.onError(err)
	}
}
