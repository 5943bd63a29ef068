// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package catalog

import (
	catalogv1alpha1 "github.com/rewful008-cloud/nexus-game-catalog/api/v1alpha1"
)

// Stats summarises a collection of games.
type Stats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	NotActive  int            `json:"notActive"`
	Soon       int            `json:"soon"`
	Featured   int            `json:"featured"`
	ByPlatform map[string]int `json:"byPlatform"`
}

// ComputeStats counts games by status, featured flag and lower-cased platform.
func ComputeStats(games []*catalogv1alpha1.Game) Stats {
	stats := Stats{ByPlatform: make(map[string]int)}

	for _, game := range games {
		stats.Total++

		switch game.Status {
		case catalogv1alpha1.StatusActive:
			stats.Active++
		case catalogv1alpha1.StatusNotActive:
			stats.NotActive++
		case catalogv1alpha1.StatusSoon:
			stats.Soon++
		}

		if game.IsFeatured {
			stats.Featured++
		}

		stats.ByPlatform[game.Platform()]++
	}

	return stats
}
