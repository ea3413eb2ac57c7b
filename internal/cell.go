package internal

import (
	"encoding/json"
	"sync"
)

// CellOption configures a Cell
type CellOption[T any] func(*Cell[T])

// WithLoad post-processes a value parsed from the store before it becomes
// the initial value, e.g. to repair or canonicalize legacy data.
func WithLoad[T any](fn func(T) T) CellOption[T] {
	return func(c *Cell[T]) {
		c.load = fn
	}
}

// Cell is an observable value bound to one store key. The initial value is
// read from the store once; every change is written back through a subscriber
// installed at construction.
type Cell[T any] struct {
	key     string
	store   *Store
	initial T
	load    func(T) T

	mu       sync.Mutex
	value    T
	nextID   int
	writerID int
	subs     []cellSubscriber[T]
}

type cellSubscriber[T any] struct {
	id int
	fn func(T)
}

// NewCell creates a cell for key, seeded from the store when a parsable value exists
func NewCell[T any](store *Store, key string, initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{
		key:     key,
		store:   store,
		initial: initial,
		value:   initial,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.value = c.readInitial()
	c.Subscribe(c.writeThrough)
	c.writerID = c.nextID
	return c
}

func (c *Cell[T]) readInitial() T {
	raw, ok := c.store.Read(c.key)
	if !ok {
		return c.initial
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		LogDebug("%v", &ParseError{Source: "store", Key: c.key, Err: err})
		return c.initial
	}
	if c.load != nil {
		v = c.load(v)
	}
	return v
}

func (c *Cell[T]) writeThrough(v T) {
	data, err := json.Marshal(v)
	if err != nil {
		LogDebug("serialize %s: %v", c.key, err)
		return
	}
	c.store.Write(c.key, string(data))
}

// Key returns the store key the cell is bound to
func (c *Cell[T]) Key() string {
	return c.key
}

// Get returns the current value
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value and notifies subscribers
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	subs := make([]cellSubscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Update applies fn to the current value and stores the result
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.Get()))
}

// Reset restores the construction-time default and writes it through
func (c *Cell[T]) Reset() {
	c.Set(c.initial)
}

// Clear removes the key from the store and returns the cell to its default
// in memory. Subscribers other than the write-through are still notified.
func (c *Cell[T]) Clear() {
	c.store.Remove(c.key)

	c.mu.Lock()
	c.value = c.initial
	subs := make([]cellSubscriber[T], 0, len(c.subs))
	for _, s := range c.subs {
		if s.id != c.writerID {
			subs = append(subs, s)
		}
	}
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(c.initial)
	}
}

// Reload discards the in-memory value and reads the store again, without writing
func (c *Cell[T]) Reload() {
	v := c.readInitial()
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

// Subscribe registers fn to be called after every change; the returned
// function removes it.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, cellSubscriber[T]{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}
