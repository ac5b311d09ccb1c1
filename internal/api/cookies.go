package api

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shubham-309/chatbot/internal/logging"
)

// Jar is an http.CookieJar that persists cookies to disk so the backend's
// HTTP-only access_token cookie survives process restarts, the way a browser
// keeps it between page loads. Session cookies (no expiry) are persisted
// too: the backend scopes their real lifetime with the token inside.
type Jar struct {
	mu      sync.Mutex
	inner   http.CookieJar
	path    string
	entries map[string][]persistedCookie // keyed by scheme://host
}

type persistedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// NewJar creates a persistent cookie jar backed by the given file.
// A missing or unreadable file yields an empty jar, not an error.
func NewJar(path string) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		inner:   inner,
		path:    path,
		entries: make(map[string][]persistedCookie),
	}
	j.load()
	return j, nil
}

// SetCookies stores cookies in the in-memory jar and persists them.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)

	j.mu.Lock()
	key := u.Scheme + "://" + u.Host
	existing := j.entries[key]
	for _, c := range cookies {
		existing = upsertCookie(existing, c)
	}
	j.entries[key] = existing
	j.mu.Unlock()

	if err := j.save(); err != nil {
		logging.SessionError("failed to persist cookies: %v", err)
	}
}

// Cookies returns the cookies to send for the given URL.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Clear drops all cookies, in memory and on disk.
func (j *Jar) Clear() error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.inner = inner
	j.entries = make(map[string][]persistedCookie)
	j.mu.Unlock()

	err = os.Remove(j.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func upsertCookie(list []persistedCookie, c *http.Cookie) []persistedCookie {
	// MaxAge<0 is a deletion
	drop := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now()))

	expires := c.Expires
	if c.MaxAge > 0 {
		expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
	}

	for i, existing := range list {
		if existing.Name == c.Name {
			if drop {
				return append(list[:i], list[i+1:]...)
			}
			list[i] = persistedCookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: expires}
			return list
		}
	}
	if drop {
		return list
	}
	return append(list, persistedCookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: expires})
}

func (j *Jar) load() {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}

	var entries map[string][]persistedCookie
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.SessionError("failed to parse cookie file %s: %v", j.path, err)
		return
	}

	now := time.Now()
	for key, cookies := range entries {
		u, err := url.Parse(key)
		if err != nil {
			continue
		}
		var live []*http.Cookie
		var keep []persistedCookie
		for _, c := range cookies {
			if !c.Expires.IsZero() && c.Expires.Before(now) {
				continue
			}
			live = append(live, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
			keep = append(keep, c)
		}
		if len(live) > 0 {
			j.inner.SetCookies(u, live)
			j.entries[key] = keep
		}
	}
}

func (j *Jar) save() error {
	j.mu.Lock()
	data, err := json.MarshalIndent(j.entries, "", "  ")
	j.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0600)
}
