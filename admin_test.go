package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/favorites"
)

var testCreds = config.Admin{Username: "owner", Password: "s3cret"}

// newAdminServer wires admin and favorites onto one temporary SQLite file.
func newAdminServer(t *testing.T) (*server, *admin) {
	t.Helper()
	ctx := context.Background()

	db, err := openDB(filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)

	logger := newLogger(io.Discard, "error")
	adm, err := newAdmin(ctx, db, testCreds, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		adm.wait()
		db.Close()
	})

	backend, err := favorites.NewSQLite(ctx, db)
	require.NoError(t, err)

	s := newTestServer(t, contact.Disabled{})
	s.favorites = favorites.NewStore(backend, favorites.DefaultLimit)
	s.admin = adm
	return s, adm
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	w := do(h, http.MethodPost, "/admin/login", postForm(url.Values{
		"username": {testCreds.Username},
		"password": {testCreds.Password},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	c := cookieNamed(w, "admin_token")
	require.NotNil(t, c)
	return c
}

func TestAdminLogin(t *testing.T) {
	s, adm := newAdminServer(t)
	r := s.router()

	w := do(r, http.MethodPost, "/admin/login", postForm(url.Values{
		"username": {testCreds.Username},
		"password": {"wrong"},
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Nil(t, cookieNamed(w, "admin_token"))

	c := login(t, r)
	assert.Equal(t, adm.token, c.Value)
	assert.True(t, c.HttpOnly)

	w = do(r, http.MethodGet, "/admin/logout", nil, c)
	assert.Equal(t, http.StatusFound, w.Code)
	out := cookieNamed(w, "admin_token")
	require.NotNil(t, out)
	assert.Empty(t, out.Value)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s, _ := newAdminServer(t)
	r := s.router()

	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/visitors", "/admin/export/stats"} {
		w := do(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)

		w = do(r, http.MethodGet, path, nil, &http.Cookie{Name: "admin_token", Value: "forged"})
		assert.Equal(t, http.StatusFound, w.Code, path)
	}
}

func TestAdminDashboard(t *testing.T) {
	s, _ := newAdminServer(t)
	r := s.router()
	c := login(t, r)

	w := do(r, http.MethodGet, "/admin/dashboard", nil, c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Most favorited projects")

	w = do(r, http.MethodGet, "/admin/visitors", nil, c)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/admin/export/stats", nil, c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "admin-stats.json")
}

func TestTrackingAndStats(t *testing.T) {
	s, adm := newAdminServer(t)
	r := s.router()
	ctx := context.Background()

	do(r, http.MethodGet, "/", nil)
	do(r, http.MethodGet, "/projects", nil)
	do(r, http.MethodGet, "/static/style.css", nil)
	do(r, http.MethodGet, "/layout/projects?width=1264", nil)
	do(r, http.MethodPost, "/theme", nil)

	do(r, http.MethodGet, "/projects", nil, visitor())
	adm.wait()

	stats, err := adm.stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalVisitors)
	assert.Equal(t, int64(1), stats.UniqueVisitors)
	assert.Equal(t, int64(3), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	assert.True(t, stats.FavoritesInSQLite)

	require.Len(t, stats.RecentVisitors, 3)
	var paths []string
	for _, v := range stats.RecentVisitors {
		paths = append(paths, v.Path)
		assert.Len(t, v.HashedIP, 16)
		assert.WithinDuration(t, time.Now(), v.Timestamp, time.Minute)
	}
	assert.ElementsMatch(t, []string{"/", "/projects", "/projects"}, paths)
}

func TestTracking_DoNotTrack(t *testing.T) {
	s, adm := newAdminServer(t)
	r := s.router()

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Set("DNT", "1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	adm.wait()

	stats, err := adm.stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVisitors)
}

func TestStats_TopProjects(t *testing.T) {
	s, adm := newAdminServer(t)
	ctx := context.Background()

	a, b := visitor().Value, visitor().Value
	_, err := s.favorites.Add(ctx, a, "Kasir App2")
	require.NoError(t, err)
	_, err = s.favorites.Add(ctx, a, "UI Kit6")
	require.NoError(t, err)
	_, err = s.favorites.Add(ctx, b, "UI Kit6")
	require.NoError(t, err)

	stats, err := adm.stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.VisitorsWithFavs)
	assert.Equal(t, int64(3), stats.TotalFavorites)
	require.Len(t, stats.TopProjects, 2)
	assert.Equal(t, ProjectStat{ProjectID: "UI Kit6", Favorites: 2}, stats.TopProjects[0])
	assert.Equal(t, ProjectStat{ProjectID: "Kasir App2", Favorites: 1}, stats.TopProjects[1])

	// emptied lists still have a row but no longer count
	_, err = s.favorites.Remove(ctx, b, "UI Kit6")
	require.NoError(t, err)
	stats, err = adm.stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.VisitorsWithFavs)
}

func TestStats_ExternalFavorites(t *testing.T) {
	s, adm := newAdminServer(t)
	adm.externalFavorites = true
	r := s.router()
	c := login(t, r)

	stats, err := adm.stats(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.FavoritesInSQLite)
	assert.Nil(t, stats.TopProjects)

	w := do(r, http.MethodGet, "/admin/api/stats", nil, c)
	require.Equal(t, http.StatusOK, w.Code)
	var got AdminStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.FavoritesInSQLite)

	w = do(r, http.MethodGet, "/admin/dashboard", nil, c)
	assert.Contains(t, w.Body.String(), "stored in Redis")
}

func TestHashIP(t *testing.T) {
	_, adm := newAdminServer(t)

	h := adm.hashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, adm.hashIP("203.0.113.7"))
	assert.NotEqual(t, h, adm.hashIP("203.0.113.8"))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, want, parseTimestamp("2025-03-04 05:06:07"))
	assert.Equal(t, want, parseTimestamp([]byte("2025-03-04 05:06:07")))
	assert.Equal(t, want, parseTimestamp(want))
	assert.True(t, parseTimestamp(nil).IsZero())
	assert.True(t, parseTimestamp("garbage").IsZero())
}

func TestPrivacyPage(t *testing.T) {
	s, _ := newAdminServer(t)

	w := do(s.router(), http.MethodGet, "/privacy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Do Not Track")
}
