// internal/monitor/ring.go
package monitor

// ring is a bounded circular sample buffer with a single writer. Readers
// never see the live storage; Snapshot copies the window in arrival order.
type ring struct {
	buf   []float64
	next  int
	count int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

// Append writes samples, overwriting the oldest once the buffer is full.
func (r *ring) Append(samples []float64) {
	for _, v := range samples {
		r.buf[r.next] = v
		r.next = (r.next + 1) % len(r.buf)
		if r.count < len(r.buf) {
			r.count++
		}
	}
}

// Len returns the number of buffered samples.
func (r *ring) Len() int {
	return r.count
}

// Full reports whether the buffer holds a complete window.
func (r *ring) Full() bool {
	return r.count == len(r.buf)
}

// Snapshot returns the buffered samples oldest-first in a fresh slice.
func (r *ring) Snapshot() []float64 {
	out := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
		return out
	}
	n := copy(out, r.buf[r.next:])
	copy(out[n:], r.buf[:r.next])
	return out
}
