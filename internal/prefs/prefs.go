// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package prefs defines the durable key-value store that keeps user
// preferences across page loads.
package prefs

import "sync"

// Store is a durable string key-value store scoped to one client.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]

	return v, ok
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

// Discard is a Store that remembers nothing.
type Discard struct{}

// Get implements Store.
func (Discard) Get(string) (string, bool) { return "", false }

// Set implements Store.
func (Discard) Set(string, string) error { return nil }
