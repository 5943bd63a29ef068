// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package filter derives the visible subset of the game catalog from a set of
// filter criteria, together with the option lists that feed the filter UI.
package filter

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	catalogv1alpha1 "github.com/rewful008-cloud/nexus-game-catalog/api/v1alpha1"
)

// All is the "no restriction" value for platform, provider and genre.
const All = "all"

// Criteria is the live filter state of a browser session.
type Criteria struct {
	Search   string `json:"search"`
	Platform string `json:"platform"`
	Provider string `json:"provider"`
	Genre    string `json:"genre"`
}

// DefaultCriteria returns criteria that pass every game.
func DefaultCriteria() Criteria {
	return Criteria{
		Platform: All,
		Provider: All,
		Genre:    All,
	}
}

// IsDefault reports whether the criteria place no restriction.
func (c Criteria) IsDefault() bool {
	return c == DefaultCriteria()
}

// Normalize maps empty selector values to All.
func (c Criteria) Normalize() Criteria {
	if c.Platform == "" {
		c.Platform = All
	}

	if c.Provider == "" {
		c.Provider = All
	}

	if c.Genre == "" {
		c.Genre = All
	}

	return c
}

// Matches reports whether a single game satisfies every predicate.
func (c Criteria) Matches(game *catalogv1alpha1.Game) bool {
	c = c.Normalize()

	return c.matchSearch(game) &&
		c.matchPlatform(game) &&
		(c.Provider == All || game.Provider == c.Provider) &&
		(c.Genre == All || game.GenreOrEmpty() == c.Genre)
}

func (c Criteria) matchSearch(game *catalogv1alpha1.Game) bool {
	query := strings.ToLower(c.Search)
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(game.Name), query) {
		return true
	}

	// An absent package name never matches.
	return game.PackageName != nil && strings.Contains(strings.ToLower(*game.PackageName), query)
}

func (c Criteria) matchPlatform(game *catalogv1alpha1.Game) bool {
	if c.Platform == All {
		return true
	}

	return game.Platform() == strings.ToLower(c.Platform)
}

// Filter returns the games matching the criteria, in catalog order.
// The returned slice references the input elements.
func Filter(games []catalogv1alpha1.Game, criteria Criteria) []*catalogv1alpha1.Game {
	out := make([]*catalogv1alpha1.Game, 0, len(games))

	for i := range games {
		if criteria.Matches(&games[i]) {
			out = append(out, &games[i])
		}
	}

	return out
}

// Featured returns the games flagged for promotional display, regardless of
// any filter state.
func Featured(games []catalogv1alpha1.Game) []*catalogv1alpha1.Game {
	out := make([]*catalogv1alpha1.Game, 0)

	for i := range games {
		if games[i].IsFeatured {
			out = append(out, &games[i])
		}
	}

	return out
}

// UniqueProviders returns the distinct providers of the full collection,
// sorted ascending.
func UniqueProviders(games []catalogv1alpha1.Game) []string {
	providers := sets.New[string]()
	for i := range games {
		providers.Insert(games[i].Provider)
	}

	return sets.List(providers)
}

// UniqueGenres returns the distinct non-empty genres of the full collection,
// sorted ascending.
func UniqueGenres(games []catalogv1alpha1.Game) []string {
	genres := sets.New[string]()
	for i := range games {
		if genre := games[i].GenreOrEmpty(); genre != "" {
			genres.Insert(genre)
		}
	}

	return sets.List(genres)
}
