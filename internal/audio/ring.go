package audio

import "sync/atomic"

// ringCapacity is sized well above one host audio buffer (4096 samples) so
// a slow consumer has slack before the producer starts dropping samples.
const ringCapacity = 1 << 15 // 32768, power of two for cheap index wrapping

// Ring is a fixed-capacity single-producer/single-consumer queue of PCM
// samples. The emulator thread is the sole producer (APU.TickDot appends
// finished samples); a host audio callback on its own thread is the sole
// consumer. head/tail are atomic so both sides can progress without a lock;
// Push drops the oldest unread sample rather than blocking when the ring is
// full, since losing audio is preferable to stalling the emulator thread.
type Ring struct {
	buf  [ringCapacity]int16
	head atomic.Uint64 // next write index
	tail atomic.Uint64 // next read index
}

// NewRing returns an empty ring buffer.
func NewRing() *Ring {
	return &Ring{}
}

// Push appends one sample, overwriting the oldest unread sample if full.
func (r *Ring) Push(sample int16) {
	h := r.head.Load()
	t := r.tail.Load()
	if h-t >= ringCapacity {
		// Full: drop the oldest sample by advancing tail. CompareAndSwap
		// avoids clobbering a concurrent consumer that already advanced it.
		r.tail.CompareAndSwap(t, t+1)
	}
	r.buf[h%ringCapacity] = sample
	r.head.Store(h + 1)
}

// Take copies up to len(dst) unread samples into dst, in FIFO order, and
// returns the number copied. It never blocks.
func (r *Ring) Take(dst []int16) int {
	h := r.head.Load()
	t := r.tail.Load()
	avail := h - t
	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	for i := uint64(0); i < n; i++ {
		dst[i] = r.buf[(t+i)%ringCapacity]
	}
	r.tail.Store(t + n)
	return int(n)
}

// Len reports the number of unread samples currently buffered.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}
