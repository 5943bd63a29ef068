// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package view holds the per-session UI state of the catalog browser and
// derives everything the presentation layer reads from it.
//
// A State is not safe for concurrent use; callers serialise access.
package view

import (
	"fmt"

	catalogv1alpha1 "github.com/rewful008-cloud/nexus-game-catalog/api/v1alpha1"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/filter"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/i18n"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/paginate"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/prefs"
)

// Section is a top-level content view.
type Section string

// Sections.
const (
	SectionGames   Section = "games"
	SectionPricing Section = "pricing"
	SectionBlog    Section = "blog"
)

// ScrollThreshold is the vertical offset past which the page counts as scrolled.
const ScrollThreshold = 20

// maxRelatedGames caps the related games list.
const maxRelatedGames = 4

// ParseSection validates a section name.
func ParseSection(name string) (Section, error) {
	switch s := Section(name); s {
	case SectionGames, SectionPricing, SectionBlog:
		return s, nil
	default:
		return "", fmt.Errorf("unknown section %q", name)
	}
}

// Catalog is the read side of the data store used by the view.
type Catalog interface {
	Loading() bool
	Games() []catalogv1alpha1.Game
	Plans() []catalogv1alpha1.Plan
	Articles() []catalogv1alpha1.Article
	Game(id string) (*catalogv1alpha1.Game, error)
	Article(id string) (*catalogv1alpha1.Article, error)
}

// State is the explicit state container of one browser session. Raw state is
// the criteria, the pager, the selections and the language; every derived
// value is recomputed from the catalog on read.
type State struct {
	catalog Catalog
	prefs   prefs.Store

	criteria      filter.Criteria
	pager         *paginate.Pager
	section       Section
	selectedGame  *catalogv1alpha1.Game
	selectedPost  *catalogv1alpha1.Article
	lang          string
	viewportWidth int
	scrolled      bool
	scrollToTop   bool
}

// New creates a state bound to catalog. The language is read from store,
// defaulting to English.
func New(catalog Catalog, store prefs.Store) *State {
	if store == nil {
		store = prefs.Discard{}
	}

	s := &State{
		catalog:  catalog,
		prefs:    store,
		criteria: filter.DefaultCriteria(),
		pager:    paginate.NewPager(paginate.DefaultPageSize),
		section:  SectionGames,
		lang:     i18n.DefaultLang,
	}

	if lang, ok := store.Get(i18n.PreferenceKey); ok {
		s.lang = i18n.Normalize(lang)
	}

	s.pager.OnNavigate = func(int) { s.scrollToTop = true }

	return s
}

// UsePreferences swaps the durable store, e.g. for the request currently
// being served.
func (s *State) UsePreferences(store prefs.Store) {
	if store == nil {
		store = prefs.Discard{}
	}

	s.prefs = store
}

// Criteria returns the live filter criteria.
func (s *State) Criteria() filter.Criteria {
	return s.criteria
}

// SetCriteria replaces all criteria and resets the page.
func (s *State) SetCriteria(c filter.Criteria) {
	s.criteria = c.Normalize()
	s.pager.Reset()
}

// SetSearch updates the search term and resets the page.
func (s *State) SetSearch(search string) {
	s.criteria.Search = search
	s.pager.Reset()
}

// SetPlatform updates the platform filter and resets the page.
func (s *State) SetPlatform(platform string) {
	s.criteria.Platform = platform
	s.SetCriteria(s.criteria)
}

// SetProvider updates the provider filter and resets the page.
func (s *State) SetProvider(provider string) {
	s.criteria.Provider = provider
	s.SetCriteria(s.criteria)
}

// SetGenre updates the genre filter and resets the page.
func (s *State) SetGenre(genre string) {
	s.criteria.Genre = genre
	s.SetCriteria(s.criteria)
}

// ResetFilters restores the default criteria and resets the page.
func (s *State) ResetFilters() {
	s.SetCriteria(filter.DefaultCriteria())
}

// FilteredGames returns the games matching the current criteria.
func (s *State) FilteredGames() []*catalogv1alpha1.Game {
	return filter.Filter(s.catalog.Games(), s.criteria)
}

// TotalPages returns the page count of the filtered games.
func (s *State) TotalPages() int {
	return paginate.TotalPages(len(s.FilteredGames()), s.pager.PageSize())
}

// CurrentPage returns the current page, kept within 1..max(1, TotalPages).
func (s *State) CurrentPage() int {
	return s.pager.Current(s.TotalPages())
}

// PageGames returns the games on the current page.
func (s *State) PageGames() paginate.Page[*catalogv1alpha1.Game] {
	filtered := s.FilteredGames()
	total := paginate.TotalPages(len(filtered), s.pager.PageSize())

	return paginate.Paginate(filtered, s.pager.Current(total), s.pager.PageSize())
}

// GoToPage moves to page n; out-of-range pages are ignored.
func (s *State) GoToPage(n int) bool {
	return s.pager.GoToPage(n, s.TotalPages())
}

// NextPage advances one page when possible.
func (s *State) NextPage() bool {
	return s.pager.NextPage(s.TotalPages())
}

// PrevPage goes back one page when possible.
func (s *State) PrevPage() bool {
	return s.pager.PrevPage(s.TotalPages())
}

// ShouldShowPage reports whether the pager button for page n is visible.
func (s *State) ShouldShowPage(n int) bool {
	total := s.TotalPages()

	return paginate.ShouldShowPage(n, s.pager.Current(total), total, paginate.ButtonCap(s.viewportWidth))
}

// SetViewportWidth records the client viewport width in CSS pixels.
func (s *State) SetViewportWidth(width int) {
	s.viewportWidth = max(width, 0)
}

// TakeScrollToTop reports whether a page change requested a scroll to the
// top since the last call, and clears the request.
func (s *State) TakeScrollToTop() bool {
	pending := s.scrollToTop
	s.scrollToTop = false

	return pending
}

// SetScrollY records the vertical scroll offset.
func (s *State) SetScrollY(y int) {
	s.scrolled = y > ScrollThreshold
}

// Scrolled reports whether the page is scrolled past the threshold.
func (s *State) Scrolled() bool {
	return s.scrolled
}

// Section returns the active section.
func (s *State) Section() Section {
	return s.section
}

// SetSection switches the active section. It has no other effect.
func (s *State) SetSection(section Section) {
	s.section = section
}

// OpenModal selects the game with the given id, replacing any open game.
func (s *State) OpenModal(id string) error {
	game, err := s.catalog.Game(id)
	if err != nil {
		return err
	}

	s.selectedGame = game

	return nil
}

// CloseModal clears the selected game.
func (s *State) CloseModal() {
	s.selectedGame = nil
}

// SelectedGame returns the open game, or nil.
func (s *State) SelectedGame() *catalogv1alpha1.Game {
	return s.selectedGame
}

// OpenArticle selects the article with the given id, replacing any open article.
func (s *State) OpenArticle(id string) error {
	article, err := s.catalog.Article(id)
	if err != nil {
		return err
	}

	s.selectedPost = article

	return nil
}

// CloseArticle clears the selected article.
func (s *State) CloseArticle() {
	s.selectedPost = nil
}

// SelectedArticle returns the open article, or nil.
func (s *State) SelectedArticle() *catalogv1alpha1.Article {
	return s.selectedPost
}

// RelatedGames returns up to four other games by the open game's developer.
// Games by an unknown developer have no relations.
func (s *State) RelatedGames() []*catalogv1alpha1.Game {
	related := make([]*catalogv1alpha1.Game, 0, maxRelatedGames)

	open := s.selectedGame
	if open == nil || !open.HasKnownDeveloper() {
		return related
	}

	games := s.catalog.Games()
	for i := range games {
		if len(related) == maxRelatedGames {
			break
		}

		if games[i].Developer == open.Developer && games[i].ID != open.ID {
			related = append(related, &games[i])
		}
	}

	return related
}

// Lang returns the active language.
func (s *State) Lang() string {
	return s.lang
}

// Dir returns the document text direction for the active language.
func (s *State) Dir() string {
	return i18n.Direction(s.lang)
}

// ToggleLanguage flips the language and persists the choice.
func (s *State) ToggleLanguage() error {
	s.lang = i18n.Toggle(s.lang)

	if err := s.prefs.Set(i18n.PreferenceKey, s.lang); err != nil {
		return fmt.Errorf("persist language: %w", err)
	}

	return nil
}

// T looks up a string in the active language table.
func (s *State) T(key string) (string, error) {
	return i18n.T(s.lang, key)
}
