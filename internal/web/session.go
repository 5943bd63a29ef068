// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/util/cache"

	"github.com/rewful008-cloud/nexus-game-catalog/internal/i18n"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/prefs"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/view"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "nexus_session"

// preferenceMaxAge is the lifetime of preference cookies.
const preferenceMaxAge = 365 * 24 * time.Hour

// session is one browser's view state. Handlers hold mu for the whole request.
type session struct {
	mu    sync.Mutex
	state *view.State
}

// sessions keeps view states in a bounded LRU cache whose entries expire after
// ttl without use.
type sessions struct {
	catalog view.Catalog
	ttl     time.Duration
	secure  bool
	cache   *cache.LRUExpireCache
}

func newSessions(catalog view.Catalog, maxSessions int, ttl time.Duration, secure bool) *sessions {
	return &sessions{
		catalog: catalog,
		ttl:     ttl,
		secure:  secure,
		cache:   cache.NewLRUExpireCache(maxSessions),
	}
}

// acquire returns the locked session of the request, creating it when the
// cookie is missing or has expired. The caller must unlock it.
func (ss *sessions) acquire(w http.ResponseWriter, r *http.Request) *session {
	store := newCookieStore(w, r, ss.secure)

	var sess *session

	if c, err := r.Cookie(SessionCookie); err == nil {
		if v, ok := ss.cache.Get(c.Value); ok {
			sess, _ = v.(*session)
		}

		if sess != nil {
			ss.cache.Add(c.Value, sess, ss.ttl)
		}
	}

	if sess == nil {
		id := uuid.NewString()
		sess = &session{state: view.New(ss.catalog, store)}
		ss.cache.Add(id, sess, ss.ttl)

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ss.ttl.Seconds()),
			HttpOnly: true,
			Secure:   ss.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	sess.mu.Lock()
	sess.state.UsePreferences(store)

	return sess
}

// len reports the number of live sessions.
func (ss *sessions) len() int {
	return len(ss.cache.Keys())
}

// cookieStore is a prefs.Store backed by the request and response cookies.
type cookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	set    map[string]string
}

var _ prefs.Store = (*cookieStore)(nil)

func newCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *cookieStore {
	return &cookieStore{w: w, r: r, secure: secure, set: make(map[string]string)}
}

// Get implements prefs.Store.
func (c *cookieStore) Get(key string) (string, bool) {
	if v, ok := c.set[key]; ok {
		return v, true
	}

	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", false
	}

	if key == i18n.PreferenceKey && !i18n.IsSupported(cookie.Value) {
		return "", false
	}

	return cookie.Value, true
}

// Set implements prefs.Store. It must be called before the response is written.
func (c *cookieStore) Set(key, value string) error {
	c.set[key] = value

	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(preferenceMaxAge.Seconds()),
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
