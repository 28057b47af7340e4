package sim

import "log"

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &HookPos{Name: "Buf Push"}

// HookPosBufEvict marks when the oldest element is dropped to make room for a
// new one.
var HookPosBufEvict = &HookPos{Name: "Buf Evict"}

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A RingBuffer is a fixed-capacity FIFO queue. Pushing into a full buffer
// evicts the oldest element instead of failing.
type RingBuffer[T any] struct {
	HookableBase

	name     string
	elements []T
	head     int
	size     int
}

// NewRingBuffer creates a ring buffer that holds at most capacity elements.
func NewRingBuffer[T any](name string, capacity int) *RingBuffer[T] {
	if capacity < 1 {
		log.Panicf("buffer %s: capacity must be positive, got %d",
			name, capacity)
	}

	return &RingBuffer[T]{
		name:     name,
		elements: make([]T, capacity),
	}
}

// Name returns the name of the buffer.
func (b *RingBuffer[T]) Name() string {
	return b.name
}

// Push appends e. If the buffer is full, the oldest element is evicted and
// returned with evicted set to true.
func (b *RingBuffer[T]) Push(e T) (old T, evicted bool) {
	capacity := len(b.elements)

	if b.size == capacity {
		old = b.elements[b.head]
		evicted = true

		var zero T
		b.elements[b.head] = zero
		b.head = (b.head + 1) % capacity
		b.size--

		if b.NumHooks() > 0 {
			b.InvokeHook(HookCtx{
				Domain: b,
				Pos:    HookPosBufEvict,
				Item:   old,
			})
		}
	}

	b.elements[(b.head+b.size)%capacity] = e
	b.size++

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPush,
			Item:   e,
		})
	}

	return old, evicted
}

// Peek returns the oldest element.
func (b *RingBuffer[T]) Peek() (e T, ok bool) {
	if b.size == 0 {
		return e, false
	}

	return b.elements[b.head], true
}

// Last returns the newest element.
func (b *RingBuffer[T]) Last() (e T, ok bool) {
	if b.size == 0 {
		return e, false
	}

	return b.elements[(b.head+b.size-1)%len(b.elements)], true
}

// Elements returns a copy of the buffered elements, oldest first.
func (b *RingBuffer[T]) Elements() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.elements[(b.head+i)%len(b.elements)]
	}

	return out
}

// Capacity returns the maximum number of elements the buffer holds.
func (b *RingBuffer[T]) Capacity() int {
	return len(b.elements)
}

// Size returns the number of elements in the buffer.
func (b *RingBuffer[T]) Size() int {
	return b.size
}

// Clear removes all the elements. Registered hooks are kept.
func (b *RingBuffer[T]) Clear() {
	clear(b.elements)
	b.head = 0
	b.size = 0
}
