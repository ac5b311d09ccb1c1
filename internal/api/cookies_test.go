package api

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJar_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://localhost:5000")

	jar, err := NewJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "access_token", Value: "tok-1", MaxAge: 3600}})

	// A fresh jar backed by the same file sees the cookie
	reloaded, err := NewJar(path)
	require.NoError(t, err)
	cookies := reloaded.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, "tok-1", cookies[0].Value)
}

func TestJar_ExpiredCookiesDroppedOnLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://localhost:5000")

	jar, err := NewJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{
		Name:    "access_token",
		Value:   "stale",
		Expires: time.Now().Add(time.Minute),
	}})

	// Rewrite the entry as already expired by aging the stored expiry
	jar.mu.Lock()
	for key, list := range jar.entries {
		for i := range list {
			list[i].Expires = time.Now().Add(-time.Hour)
		}
		jar.entries[key] = list
	}
	jar.mu.Unlock()
	require.NoError(t, jar.save())

	reloaded, err := NewJar(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Cookies(u))
}

func TestJar_ClearRemovesFileAndMemory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://localhost:5000")

	jar, err := NewJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "access_token", Value: "tok-1", MaxAge: 3600}})

	require.NoError(t, jar.Clear())
	assert.Empty(t, jar.Cookies(u))

	reloaded, err := NewJar(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Cookies(u))
}

func TestJar_DeletionCookieRemovesEntry(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://localhost:5000")

	jar, err := NewJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "access_token", Value: "tok-1", MaxAge: 3600}})
	// Server-side logout clears the cookie with MaxAge -1
	jar.SetCookies(u, []*http.Cookie{{Name: "access_token", Value: "", MaxAge: -1}})

	reloaded, err := NewJar(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Cookies(u))
}

func TestJar_MissingFileIsEmptyJar(t *testing.T) {
	t.Parallel()
	jar, err := NewJar(filepath.Join(t.TempDir(), "nope", "cookies.json"))
	require.NoError(t, err)
	u, _ := url.Parse("http://localhost:5000")
	assert.Empty(t, jar.Cookies(u))
}
