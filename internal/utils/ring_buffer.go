package utils

// RingBuffer keeps the last size items pushed into it, oldest first.
// It is meant for a single owner and does no locking.
//
//	rb := NewRingBuffer[int](3)
//	rb.Push(1)
//	rb.Push(2)
//	rb.Push(3)
//	rb.Push(4) // 1 is dropped
//	fmt.Println(rb.ToSlice()) // [2 3 4]
type RingBuffer[T any] struct {
	data  []T
	count int
	head  int // oldest item
	tail  int // next write position
}

// NewRingBuffer panics when size is not positive.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	if size <= 0 {
		panic("ring buffer size must be positive")
	}
	return &RingBuffer[T]{
		data: make([]T, size),
	}
}

// Push appends item, dropping the oldest one when the buffer is full.
func (rb *RingBuffer[T]) Push(item T) {
	size := len(rb.data)
	rb.data[rb.tail] = item
	rb.tail = (rb.tail + 1) % size

	if rb.count < size {
		rb.count++
	} else {
		rb.head = (rb.head + 1) % size
	}
}

// Len returns the number of items held, never more than the buffer size.
func (rb *RingBuffer[T]) Len() int {
	return rb.count
}

// At returns the i-th held item, 0 being the oldest. It panics outside [0, Len()).
func (rb *RingBuffer[T]) At(i int) T {
	if i < 0 || i >= rb.count {
		panic("index out of range")
	}
	return rb.data[(rb.head+i)%len(rb.data)]
}

// ToSlice copies the held items, oldest first.
func (rb *RingBuffer[T]) ToSlice() []T {
	result := make([]T, rb.count)
	for i := 0; i < rb.count; i++ {
		result[i] = rb.At(i)
	}
	return result
}
