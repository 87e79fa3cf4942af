// Package counter provides a bounded quantity counter backing the cart and
// product-card quantity steppers.
package counter

import "sync"

const (
	// DefaultMin is the lowest value Increment/Decrement will produce.
	DefaultMin = 1
	// DefaultMax is the highest value Increment/Decrement will produce.
	DefaultMax = 99
)

// Counter holds a single integer value. Increment and Decrement clamp to
// [min, max] and report the result through the change callback. Set bypasses
// both the bounds and the callback.
type Counter struct {
	mu       sync.Mutex
	value    int
	min      int
	max      int
	onChange func(int)
}

// Option configures a Counter.
type Option func(*Counter)

// WithBounds overrides the default [1, 99] range. Reversed bounds are swapped.
func WithBounds(lo, hi int) Option {
	return func(c *Counter) {
		if lo > hi {
			lo, hi = hi, lo
		}
		c.min = lo
		c.max = hi
	}
}

// WithOnChange registers a callback invoked after every Increment or
// Decrement with the resulting value.
func WithOnChange(f func(int)) Option {
	return func(c *Counter) {
		c.onChange = f
	}
}

// New creates a Counter holding initial. The initial value is not clamped.
func New(initial int, opts ...Option) *Counter {
	c := &Counter{
		value: initial,
		min:   DefaultMin,
		max:   DefaultMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Value returns the current value.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Bounds returns the configured min and max.
func (c *Counter) Bounds() (lo, hi int) {
	return c.min, c.max
}

// Set replaces the held value outright. It is used to resynchronise the
// counter when the underlying quantity changed elsewhere.
func (c *Counter) Set(v int) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

// Increment adds one, clamped to max, and emits the result.
func (c *Counter) Increment() int {
	return c.step(1)
}

// Decrement subtracts one, clamped to min, and emits the result.
func (c *Counter) Decrement() int {
	return c.step(-1)
}

// CanIncrement reports whether Increment would change the value.
func (c *Counter) CanIncrement() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value < c.max
}

// CanDecrement reports whether Decrement would change the value.
func (c *Counter) CanDecrement() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value > c.min
}

func (c *Counter) step(delta int) int {
	c.mu.Lock()
	next := min(max(c.value+delta, c.min), c.max)
	c.value = next
	cb := c.onChange
	c.mu.Unlock()

	// Called outside the lock so callbacks may read the counter.
	if cb != nil {
		cb(next)
	}
	return next
}
