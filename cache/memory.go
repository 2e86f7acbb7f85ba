// SPDX-License-Identifier: MIT

package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is a fixed-capacity LRU Store. It is safe for concurrent use.
type Memory struct {
	lru *lru.Cache[string, string]
}

// NewMemory returns an LRU holding at most size entries (at least one).
func NewMemory(size int) *Memory {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		// lru.New only rejects non-positive sizes.
		panic(err)
	}

	return &Memory{lru: c}
}

// Get implements Store and marks key as most recently used.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.lru.Get(key)

	return v, ok, nil
}

// Set implements Store, evicting the least recently used entry when full.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.lru.Add(key, value)

	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int { return m.lru.Len() }

// Close implements Store and drops every entry.
func (m *Memory) Close() error {
	m.lru.Purge()

	return nil
}
