// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT_DottedKeys(t *testing.T) {
	t.Parallel()

	msg, err := T(LangEN, "modal.relatedGames")
	require.NoError(t, err)
	assert.Equal(t, "More by this Developer", msg)

	msg, err = T(LangAR, "status.not_active")
	require.NoError(t, err)
	assert.Equal(t, "غير نشط", msg)
}

func TestT_MissingIsExplicit(t *testing.T) {
	t.Parallel()

	_, err := T(LangEN, "modal.nonexistent")
	require.ErrorIs(t, err, ErrMissingKey)

	_, err = T("fr", "title")
	require.ErrorIs(t, err, ErrMissingKey)

	_, err = Table("fr")
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestTables_HaveSameKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Keys(LangEN), Keys(LangAR))
}

func TestToggle_RoundTripRestoresTable(t *testing.T) {
	t.Parallel()

	original, err := Table(LangEN)
	require.NoError(t, err)

	lang := Toggle(LangEN)
	assert.Equal(t, LangAR, lang)
	assert.Equal(t, DirRTL, Direction(lang))

	lang = Toggle(lang)
	assert.Equal(t, LangEN, lang)
	assert.Equal(t, DirLTR, Direction(lang))

	restored, err := Table(lang)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestTable_ReturnsCopy(t *testing.T) {
	t.Parallel()

	table, err := Table(LangEN)
	require.NoError(t, err)

	table["title"] = "changed"

	msg, err := T(LangEN, "title")
	require.NoError(t, err)
	assert.Equal(t, "KUN 0X Nexus", msg)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LangAR, Normalize(" AR "))
	assert.Equal(t, LangEN, Normalize("de"))
	assert.Equal(t, LangEN, Normalize(""))
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		cookie   string
		header   string
		expected string
	}{
		{
			name:     "query parameter wins",
			url:      "/?lang=ar",
			cookie:   "en",
			header:   "en-US",
			expected: LangAR,
		},
		{
			name:     "unsupported query falls through to cookie",
			url:      "/?lang=fr",
			cookie:   "ar",
			expected: LangAR,
		},
		{
			name:     "accept-language regional variant",
			url:      "/",
			header:   "ar-EG,ar;q=0.9,en;q=0.8",
			expected: LangAR,
		},
		{
			name:     "accept-language honors q-values",
			url:      "/",
			header:   "ar;q=0.5, en;q=0.9",
			expected: LangEN,
		},
		{
			name:     "unsupported accept-language uses default",
			url:      "/",
			header:   "ja-JP",
			expected: DefaultLang,
		},
		{
			name:     "nothing set",
			url:      "/",
			expected: DefaultLang,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: PreferenceKey, Value: tt.cookie})
			}

			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}

			assert.Equal(t, tt.expected, DetectLanguage(req))
		})
	}
}
