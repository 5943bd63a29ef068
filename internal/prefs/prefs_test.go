// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	store := NewMemory()

	_, ok := store.Get("nexus_lang")
	assert.False(t, ok)

	require.NoError(t, store.Set("nexus_lang", "ar"))

	v, ok := store.Get("nexus_lang")
	assert.True(t, ok)
	assert.Equal(t, "ar", v)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	var store Store = Discard{}

	require.NoError(t, store.Set("k", "v"))

	_, ok := store.Get("k")
	assert.False(t, ok)
}
