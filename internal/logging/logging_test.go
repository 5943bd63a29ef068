// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		debugOn bool
		infoOn  bool
	}{
		{name: "default level", opts: Options{}, debugOn: false, infoOn: true},
		{name: "invalid level falls back", opts: Options{Level: "chatty"}, debugOn: false, infoOn: true},
		{name: "debug", opts: Options{Level: "DEBUG"}, debugOn: true, infoOn: true},
		{name: "error only", opts: Options{Level: "error"}, debugOn: false, infoOn: false},
		{name: "development console", opts: Options{Level: "info", Development: true}, debugOn: false, infoOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, _, err := New(tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.infoOn, log.V(0).Enabled())
			assert.Equal(t, tt.debugOn, log.V(1).Enabled())
		})
	}
}
