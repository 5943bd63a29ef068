// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package i18n holds the bilingual string tables of the catalog browser.
package i18n

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Supported languages.
const (
	LangEN = "en"
	LangAR = "ar"

	DefaultLang = LangEN
)

// Text directions.
const (
	DirLTR = "ltr"
	DirRTL = "rtl"
)

// PreferenceKey is the durable storage key holding the language preference.
const PreferenceKey = "nexus_lang"

// ErrMissingKey is returned when a language or key has no translation.
var ErrMissingKey = errors.New("missing translation")

// supportedLangs contains all supported language codes.
var supportedLangs = []string{LangEN, LangAR} //nolint:gochecknoglobals // immutable language list

//nolint:gochecknoglobals // immutable matcher over supportedLangs
var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// IsSupported checks if the language is in the supported list.
func IsSupported(lang string) bool {
	return slices.Contains(supportedLangs, strings.ToLower(lang))
}

// Normalize returns lang when supported, DefaultLang otherwise.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if IsSupported(lang) {
		return lang
	}

	return DefaultLang
}

// Toggle flips between the two supported languages.
func Toggle(lang string) string {
	if Normalize(lang) == LangEN {
		return LangAR
	}

	return LangEN
}

// Direction returns the document text direction for lang.
func Direction(lang string) string {
	if Normalize(lang) == LangAR {
		return DirRTL
	}

	return DirLTR
}

// T returns the translation stored under the dotted key for lang.
// There is no fallback: a miss is reported as ErrMissingKey.
func T(lang, key string) (string, error) {
	translations, ok := messages[lang]
	if !ok {
		return "", fmt.Errorf("%w: language %q", ErrMissingKey, lang)
	}

	msg, ok := translations[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingKey, lang, key)
	}

	return msg, nil
}

// Table returns a copy of the full string table for lang.
func Table(lang string) (map[string]string, error) {
	translations, ok := messages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: language %q", ErrMissingKey, lang)
	}

	return maps.Clone(translations), nil
}

// Keys returns the sorted keys of the table for lang.
func Keys(lang string) []string {
	return slices.Sorted(maps.Keys(messages[lang]))
}

// DetectLanguage determines the language from the request.
// Priority: 1) ?lang= parameter, 2) preference cookie, 3) Accept-Language header, 4) default (en).
func DetectLanguage(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" && IsSupported(lang) {
		return strings.ToLower(lang)
	}

	if c, err := r.Cookie(PreferenceKey); err == nil && IsSupported(c.Value) {
		return strings.ToLower(c.Value)
	}

	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		if lang := parseAcceptLanguage(acceptLang); lang != "" {
			return lang
		}
	}

	return DefaultLang
}

// parseAcceptLanguage extracts the best matching language from Accept-Language header.
func parseAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}

	return supportedLangs[index]
}
