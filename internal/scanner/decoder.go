// Package scanner reconstructs discrete barcode scans from a raw keystroke
// stream. Hardware scanners emulate a keyboard: they emit every character of a
// code within a few milliseconds and finish with Enter. The decoder
// accumulates printable keys into a buffer, clears the buffer whenever the
// stream goes idle (a human typing is far slower than a scanner), and emits
// the buffered string on Enter when it is long enough to be a real code.
package scanner

import (
	"sync"
	"time"
	"unicode"
)

// Source tags where a keystroke was headed when it reached the decoder.
type Source int

const (
	// SourceScreen is a keystroke with no text field focused.
	SourceScreen Source = iota
	// SourceBarcodeField is a field explicitly flagged as barcode-aware
	// (e.g. the POS search box); its input feeds the decoder.
	SourceBarcodeField
	// SourceTextField is a generic text-entry field. The decoder ignores
	// these entirely so normal typing is never misread as a partial scan.
	SourceTextField
)

// Defaults match the timing of common USB scanners: characters arrive well
// inside the idle window, and retail barcodes (EAN-8 and up) are at least
// four characters.
const (
	DefaultIdleTimeout = 100 * time.Millisecond
	DefaultMinLength   = 4
)

// Decoder is the stateful scan accumulator. One decoder per active screen,
// armed with Attach and released with Detach so a dismounted screen never
// leaks its idle timer or acts on a stale buffer.
type Decoder struct {
	mu       sync.Mutex
	buf      []rune
	timer    *time.Timer
	idle     time.Duration
	minLen   int
	attached bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithIdleTimeout overrides the inter-character idle window.
func WithIdleTimeout(d time.Duration) Option {
	return func(dec *Decoder) { dec.idle = d }
}

// WithMinLength overrides the minimum emitted code length.
func WithMinLength(n int) Option {
	return func(dec *Decoder) { dec.minLen = n }
}

// New returns a detached decoder.
func New(opts ...Option) *Decoder {
	d := &Decoder{idle: DefaultIdleTimeout, minLen: DefaultMinLength}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Attach arms the decoder. Idempotent.
func (d *Decoder) Attach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = true
}

// Detach disarms the decoder, stopping any pending idle timer and discarding
// the buffer. Idempotent; safe to call from screen teardown.
func (d *Decoder) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = false
	d.reset()
}

// Attached reports whether the decoder is armed.
func (d *Decoder) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// Rune feeds one printable keystroke. Keys from generic text fields and
// non-printable runes are ignored. Each accepted rune restarts the idle
// timer; only one timer is ever live, replaced on every keystroke.
func (d *Decoder) Rune(r rune, src Source) {
	if src == SourceTextField || !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.attached {
		return
	}
	d.buf = append(d.buf, r)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.idle, d.expire)
}

// Enter feeds a submit keystroke. When the buffer holds a plausible code
// (length ≥ the minimum) it is returned with ok=true and the decoder resets.
// A short buffer resets without emitting and reports ok=false so the caller
// can hand the Enter to the focused field instead.
func (d *Decoder) Enter(src Source) (code string, ok bool) {
	if src == SourceTextField {
		return "", false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.attached {
		return "", false
	}
	code = string(d.buf)
	d.reset()
	if len([]rune(code)) < d.minLen {
		return "", false
	}
	return code, true
}

// Pending returns the number of buffered runes. Mostly useful to decide
// whether an in-flight scan should swallow the next Enter.
func (d *Decoder) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buf)
}

// expire runs on the idle timer: no key arrived within the window, so the
// buffer was manual typing, not a scan.
func (d *Decoder) expire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = nil
	d.timer = nil
}

// reset must be called with the lock held.
func (d *Decoder) reset() {
	d.buf = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
