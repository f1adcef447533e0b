package visualizer

import "sync"

const bufferMask = BufferSize - 1

// StereoRingBuffer is a thread-safe circular sample store with one lane per
// channel. Both lanes share a single write cursor and always advance together.
type StereoRingBuffer struct {
	left  [BufferSize]float32
	right [BufferSize]float32
	w     int // write position
	mu    sync.Mutex
}

// NewStereoRingBuffer creates a silent ring buffer.
func NewStereoRingBuffer() *StereoRingBuffer {
	return &StereoRingBuffer{}
}

func (rb *StereoRingBuffer) put(l, r float32) {
	rb.left[rb.w] = l
	rb.right[rb.w] = r
	rb.w = (rb.w + 1) & bufferMask
}

// PushStereo appends interleaved L/R samples. A trailing unpaired sample is dropped.
func (rb *StereoRingBuffer) PushStereo(interleaved []float32) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i := 0; i+1 < len(interleaved); i += 2 {
		rb.put(interleaved[i], interleaved[i+1])
	}
}

// PushMono appends samples to both lanes.
func (rb *StereoRingBuffer) PushMono(samples []float32) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, s := range samples {
		rb.put(s, s)
	}
}

// PushMulti appends interleaved frames of the given channel count, keeping
// channels 0 and 1 as left and right. A frame carrying only channel 0, either
// because channels is 1 or because it is a truncated trailing frame, is
// duplicated to both lanes.
func (rb *StereoRingBuffer) PushMulti(samples []float32, channels int) {
	if channels <= 0 {
		return
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	for start := 0; start < len(samples); start += channels {
		frame := samples[start:min(start+channels, len(samples))]
		if len(frame) >= 2 {
			rb.put(frame[0], frame[1])
		} else {
			rb.put(frame[0], frame[0])
		}
	}
}

// Push dispatches on channel count. It is safe to call from an audio callback.
func (rb *StereoRingBuffer) Push(samples []float32, channels int) {
	switch channels {
	case 1:
		rb.PushMono(samples)
	case 2:
		rb.PushStereo(samples)
	default:
		rb.PushMulti(samples, channels)
	}
}

// CopyInto fills left and right with the buffered window in chronological
// order, oldest first. If the lock is held by the writer the outputs are
// zero-filled and false is returned.
func (rb *StereoRingBuffer) CopyInto(left, right []float32) bool {
	if !rb.mu.TryLock() {
		clear(left)
		clear(right)
		return false
	}
	defer rb.mu.Unlock()

	n := min(len(left), len(right), BufferSize)
	start := (rb.w - n) & bufferMask
	for i := range n {
		idx := (start + i) & bufferMask
		left[i] = rb.left[idx]
		right[i] = rb.right[idx]
	}
	return true
}

// Reset silences both lanes and rewinds the cursor.
func (rb *StereoRingBuffer) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	clear(rb.left[:])
	clear(rb.right[:])
	rb.w = 0
}
