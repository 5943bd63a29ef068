// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package catalog holds the fetched catalog collections and their load status.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	catalogv1alpha1 "github.com/rewful008-cloud/nexus-game-catalog/api/v1alpha1"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/content"
)

// ResourceReport describes the outcome of loading one resource.
type ResourceReport struct {
	Name    string
	Loaded  int
	Dropped int
	Err     error
}

// LoadReport describes the outcome of a Store.Load call.
type LoadReport struct {
	Games    ResourceReport
	Plans    ResourceReport
	Articles ResourceReport
}

// Store owns the catalog collections. Collections are replaced wholesale by
// Load and never mutated element-wise, so the slices handed out by the
// accessors may be read without further locking.
type Store struct {
	source   Source
	renderer *content.Renderer
	diag     *DiagnosticLog

	mu       sync.RWMutex
	games    []catalogv1alpha1.Game
	plans    []catalogv1alpha1.Plan
	articles []catalogv1alpha1.Article
	loading  bool
}

// NewStore creates an empty store in the loading state.
func NewStore(source Source, renderer *content.Renderer) *Store {
	if renderer == nil {
		renderer = content.NewRenderer()
	}

	return &Store{
		source:   source,
		renderer: renderer,
		diag:     NewDiagnosticLog(),
		games:    []catalogv1alpha1.Game{},
		plans:    []catalogv1alpha1.Plan{},
		articles: []catalogv1alpha1.Article{},
		loading:  true,
	}
}

// Load fetches games, plans and articles concurrently. A games failure is
// recorded in the diagnostic log; plans and articles failures are only
// logged. A collection whose fetch or decode fails keeps its previous
// contents, which are empty before the first successful load. There are no
// retries.
func (s *Store) Load(ctx context.Context) LoadReport {
	log := logf.FromContext(ctx).WithName("catalog")

	report := LoadReport{
		Games:    ResourceReport{Name: GamesResource},
		Plans:    ResourceReport{Name: PlansResource},
		Articles: ResourceReport{Name: ArticlesResource},
	}

	var wg sync.WaitGroup

	wg.Go(func() {
		games, rep := loadResource[catalogv1alpha1.Game](ctx, s.source, GamesResource)
		report.Games = rep

		s.mu.Lock()
		if rep.Err == nil {
			s.games = games
		}
		s.loading = false
		s.mu.Unlock()

		if rep.Err != nil {
			log.Error(rep.Err, "Main load error", "resource", rep.Name)
			s.diag.Append(fmt.Sprintf("Main Load Error: %v", rep.Err))

			return
		}

		log.Info("Loaded games", "count", rep.Loaded, "dropped", rep.Dropped)
	})

	wg.Go(func() {
		plans, rep := loadResource[catalogv1alpha1.Plan](ctx, s.source, PlansResource)
		report.Plans = rep

		if rep.Err == nil {
			s.mu.Lock()
			s.plans = plans
			s.mu.Unlock()
		}

		if rep.Err != nil {
			log.Info("Plans unavailable", "resource", rep.Name, "error", rep.Err.Error())

			return
		}

		log.V(1).Info("Loaded plans", "count", rep.Loaded, "dropped", rep.Dropped)
	})

	wg.Go(func() {
		articles, rep := loadResource[catalogv1alpha1.Article](ctx, s.source, ArticlesResource)
		report.Articles = rep

		for i := range articles {
			html, err := s.renderer.Render(articles[i].Body)
			if err != nil {
				log.Info("Article body not rendered", "id", articles[i].ID, "error", err.Error())

				continue
			}

			articles[i].BodyHTML = html
		}

		if rep.Err == nil {
			s.mu.Lock()
			s.articles = articles
			s.mu.Unlock()
		}

		if rep.Err != nil {
			log.Info("Articles unavailable", "resource", rep.Name, "error", rep.Err.Error())

			return
		}

		log.V(1).Info("Loaded articles", "count", rep.Loaded, "dropped", rep.Dropped)
	})

	wg.Wait()

	return report
}

// record is the constraint satisfied by every catalog document element.
type record[T any] interface {
	*T
	Validate(path *field.Path) field.ErrorList
}

// defaulter is implemented by records that can repair optional fields.
type defaulter interface {
	Default() bool
}

// identified exposes the identifier used for duplicate detection.
func identified(v any) string {
	switch r := v.(type) {
	case *catalogv1alpha1.Game:
		return r.ID.String()
	case *catalogv1alpha1.Plan:
		return r.ID.String()
	case *catalogv1alpha1.Article:
		return r.ID.String()
	default:
		return ""
	}
}

// loadResource fetches and decodes a JSON array document. A document that is
// not an array fails as a whole; individual records that fail to decode or
// validate are dropped.
func loadResource[T any, PT record[T]](ctx context.Context, source Source, name string) ([]T, ResourceReport) {
	log := logf.FromContext(ctx).WithName("catalog")
	rep := ResourceReport{Name: name}

	data, err := source.Fetch(ctx, name)
	if err != nil {
		rep.Err = fmt.Errorf("fetch %s: %w", name, err)

		return []T{}, rep
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		rep.Err = fmt.Errorf("decode %s: %w", name, err)

		return []T{}, rep
	}

	out := make([]T, 0, len(raw))
	seen := sets.New[string]()
	root := field.NewPath(name)

	var (
		dropped   []error
		defaulted int
	)

	for i, item := range raw {
		path := root.Index(i)

		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			dropped = append(dropped, field.Invalid(path, string(item), err.Error()))

			continue
		}

		ptr := PT(&v)

		if d, ok := any(ptr).(defaulter); ok && d.Default() {
			defaulted++
		}

		if errs := ptr.Validate(path); len(errs) > 0 {
			dropped = append(dropped, errs.ToAggregate())

			continue
		}

		id := identified(ptr)
		if seen.Has(id) {
			dropped = append(dropped, field.Duplicate(path.Child("id"), id))

			continue
		}

		seen.Insert(id)
		out = append(out, v)
	}

	rep.Loaded = len(out)
	rep.Dropped = len(dropped)

	if defaulted > 0 {
		log.V(1).Info("Cleared unusable optional fields", "resource", name, "count", defaulted)
	}

	if agg := utilerrors.NewAggregate(dropped); agg != nil {
		log.Info("Dropped invalid records", "resource", name, "count", len(dropped), "errors", agg.Error())
	}

	return out, rep
}

// Loading reports whether the games resource has not settled yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// Games returns the loaded games in document order.
func (s *Store) Games() []catalogv1alpha1.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.games
}

// Plans returns the loaded pricing plans.
func (s *Store) Plans() []catalogv1alpha1.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.plans
}

// Articles returns the loaded articles.
func (s *Store) Articles() []catalogv1alpha1.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.articles
}

// Game returns the game with the given id.
func (s *Store) Game(id string) (*catalogv1alpha1.Game, error) {
	games := s.Games()
	for i := range games {
		if games[i].ID.String() == id {
			return &games[i], nil
		}
	}

	return nil, fmt.Errorf("game %q: %w", id, ErrNotFound)
}

// Article returns the article with the given id.
func (s *Store) Article(id string) (*catalogv1alpha1.Article, error) {
	articles := s.Articles()
	for i := range articles {
		if articles[i].ID.String() == id {
			return &articles[i], nil
		}
	}

	return nil, fmt.Errorf("article %q: %w", id, ErrNotFound)
}

// Diagnostics returns the persistent diagnostic log.
func (s *Store) Diagnostics() *DiagnosticLog {
	return s.diag
}

// DiagnosticEntry is one user-visible error record.
type DiagnosticEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// DiagnosticLog is an append-only, user-visible error log. Entries are never
// cleared.
type DiagnosticLog struct {
	mu      sync.RWMutex
	entries []DiagnosticEntry
}

// NewDiagnosticLog creates an empty log.
func NewDiagnosticLog() *DiagnosticLog {
	return &DiagnosticLog{}
}

// Append records a message.
func (d *DiagnosticLog) Append(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = append(d.entries, DiagnosticEntry{Time: time.Now(), Message: message})
}

// Entries returns a copy of all recorded entries, oldest first.
func (d *DiagnosticLog) Entries() []DiagnosticEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]DiagnosticEntry, len(d.entries))
	copy(out, d.entries)

	return out
}

// Visible reports whether the log has anything to show.
func (d *DiagnosticLog) Visible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries) > 0
}
