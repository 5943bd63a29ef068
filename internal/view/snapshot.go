// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package view

import (
	catalogv1alpha1 "github.com/rewful008-cloud/nexus-game-catalog/api/v1alpha1"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/catalog"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/filter"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/paginate"
)

// Snapshot is everything the presentation layer reads, computed at one instant.
type Snapshot struct {
	Loading  bool    `json:"loading"`
	Section  Section `json:"section"`
	Lang     string  `json:"lang"`
	Dir      string  `json:"dir"`
	Scrolled bool    `json:"scrolled"`

	// ScrollToTop is set once after a page change.
	ScrollToTop bool `json:"scrollToTop"`

	Filters   filter.Criteria `json:"filters"`
	Providers []string        `json:"providers"`
	Genres    []string        `json:"genres"`

	Featured []*catalogv1alpha1.Game              `json:"featured"`
	Page     paginate.Page[*catalogv1alpha1.Game] `json:"page"`
	Pages    []int                                `json:"pages"`
	Stats    catalog.Stats                        `json:"stats"`

	SelectedGame    *catalogv1alpha1.Game    `json:"selectedGame"`
	RelatedGames    []*catalogv1alpha1.Game  `json:"relatedGames"`
	SelectedArticle *catalogv1alpha1.Article `json:"selectedArticle"`

	Plans    []catalogv1alpha1.Plan    `json:"plans"`
	Articles []catalogv1alpha1.Article `json:"articles"`
}

// Snapshot derives the full view. It consumes a pending scroll-to-top request.
func (s *State) Snapshot() Snapshot {
	games := s.catalog.Games()
	filtered := filter.Filter(games, s.criteria)
	total := paginate.TotalPages(len(filtered), s.pager.PageSize())
	current := s.pager.Current(total)

	return Snapshot{
		Loading:         s.catalog.Loading(),
		Section:         s.section,
		Lang:            s.lang,
		Dir:             s.Dir(),
		Scrolled:        s.scrolled,
		ScrollToTop:     s.TakeScrollToTop(),
		Filters:         s.criteria,
		Providers:       filter.UniqueProviders(games),
		Genres:          filter.UniqueGenres(games),
		Featured:        filter.Featured(games),
		Page:            paginate.Paginate(filtered, current, s.pager.PageSize()),
		Pages:           paginate.VisiblePages(current, total, paginate.ButtonCap(s.viewportWidth)),
		Stats:           catalog.ComputeStats(filtered),
		SelectedGame:    s.selectedGame,
		RelatedGames:    s.RelatedGames(),
		SelectedArticle: s.selectedPost,
		Plans:           s.catalog.Plans(),
		Articles:        s.catalog.Articles(),
	}
}
