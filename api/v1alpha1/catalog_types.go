// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package v1alpha1 contains the schema definitions for the catalog documents
// (games, pricing plans and articles) served to the catalog browser.
package v1alpha1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// GameStatus is the availability state of a catalog entry.
type GameStatus string

// Supported game statuses.
const (
	StatusActive    GameStatus = "active"
	StatusNotActive GameStatus = "not_active"
	StatusSoon      GameStatus = "soon"
)

// Supported device platforms, compared case-insensitively with Game.DeviceOS.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

// UnknownDeveloper is the placeholder developer value that never relates games.
const UnknownDeveloper = "Unknown"

// FlexString accepts either a JSON string or a JSON number and keeps its
// textual form. Catalog exports mix both for identifiers and prices.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = FlexString(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}

	*f = FlexString(n.String())

	return nil
}

// String returns the textual value.
func (f FlexString) String() string {
	return string(f)
}

// Game is a single catalog entry.
type Game struct {
	// ID uniquely identifies the game within the catalog.
	ID FlexString `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// PackageName is the store package identifier (e.g. "com.zomcraft").
	// +optional
	PackageName *string `json:"package_name,omitempty"`

	// Developer is the studio that published the game.
	Developer string `json:"developer"`

	// Provider is the tracking/analytics vendor label.
	Provider string `json:"provider"`

	// Genre is the catalog genre.
	// +optional
	Genre *string `json:"genre,omitempty"`

	// DeviceOS is the platform the game runs on ("Android", "iOS").
	DeviceOS string `json:"device_os"`

	// Status is the availability state.
	Status GameStatus `json:"status"`

	// IsFeatured flags the game for promotional display.
	IsFeatured bool `json:"is_featured"`

	// Price is the display price.
	Price FlexString `json:"price"`

	// StoreLink points to the store listing.
	StoreLink string `json:"store_link"`

	// AdminNotes are operator notes shown in the detail view.
	// +optional
	AdminNotes *string `json:"admin_notes,omitempty"`

	// Description explains how the bypass works for this game.
	// +optional
	Description string `json:"description,omitempty"`

	// Image is the icon URL.
	// +optional
	Image string `json:"image,omitempty"`
}

// PackageNameOrEmpty returns the package name, or "" when absent.
func (g *Game) PackageNameOrEmpty() string {
	if g.PackageName == nil {
		return ""
	}

	return *g.PackageName
}

// GenreOrEmpty returns the genre, or "" when absent.
func (g *Game) GenreOrEmpty() string {
	if g.Genre == nil {
		return ""
	}

	return *g.Genre
}

// Platform returns the lower-cased device OS.
func (g *Game) Platform() string {
	return strings.ToLower(g.DeviceOS)
}

// HasKnownDeveloper reports whether the developer can relate games together.
func (g *Game) HasKnownDeveloper() bool {
	return g.Developer != "" && g.Developer != UnknownDeveloper
}

// Plan is a pricing tier descriptor.
type Plan struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name"`
	Price    FlexString `json:"price"`
	Currency string     `json:"currency,omitempty"`
	Period   string     `json:"period,omitempty"`
	Features []string   `json:"features,omitempty"`

	// Highlighted marks the recommended tier.
	// +optional
	Highlighted bool `json:"highlighted,omitempty"`
}

// Article is a blog entry. Body holds markdown.
type Article struct {
	ID          FlexString `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body,omitempty"`
	Author      string     `json:"author,omitempty"`
	Image       string     `json:"image,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	// PublishedAt is passed through as written: a date, an RFC 3339
	// timestamp or free text.
	// +optional
	PublishedAt string `json:"published_at,omitempty"`

	// BodyHTML is the sanitized rendering of Body, filled in by the store.
	BodyHTML string `json:"body_html,omitempty"`
}
