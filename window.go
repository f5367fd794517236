package terse

// MaxDistance is the largest back-reference distance the format can
// express.
const MaxDistance = 1 << 12

const (
	minWindow = MaxDistance
	maxWindow = 1 << 16
)

// A Window is the decoder's output history. Bytes are only appended; the
// buffer is trimmed from the front once it grows past maxWindow, always
// keeping at least MaxDistance bytes visible.
type Window struct {
	hist  []byte
	total int64 // bytes appended since the last Reset
}

// Reset empties the window, keeping its buffer for reuse.
func (w *Window) Reset() {
	w.hist = w.hist[:0]
	w.total = 0
}

// Release drops the window's buffer.
func (w *Window) Release() {
	w.hist = nil
	w.total = 0
}

// Len returns the number of bytes appended since the last Reset.
func (w *Window) Len() int64 {
	return w.total
}

func (w *Window) trim() {
	if len(w.hist) <= maxWindow {
		return
	}
	delta := len(w.hist) - minWindow
	copy(w.hist, w.hist[delta:])
	w.hist = w.hist[:minWindow]
}

// Append adds p to the window and returns the appended bytes. The result
// is valid until the next call to Append or Copy.
func (w *Window) Append(p []byte) []byte {
	w.trim()
	start := len(w.hist)
	w.hist = append(w.hist, p...)
	w.total += int64(len(p))
	return w.hist[start:]
}

// Copy appends length bytes starting distance bytes before the end of the
// window, and returns the appended bytes. The copy goes forward one byte
// at a time, so when distance < length the bytes it writes become the
// source for the rest of the copy.
func (w *Window) Copy(distance, length int) ([]byte, error) {
	if distance <= 0 || distance > MaxDistance || int64(distance) > w.total {
		return nil, ErrBackReferenceOutOfRange
	}
	w.trim()
	start := len(w.hist)
	src := start - distance
	for i := 0; i < length; i++ {
		w.hist = append(w.hist, w.hist[src+i])
	}
	w.total += int64(length)
	return w.hist[start:], nil
}
