// admin.go - privacy-conscious admin system
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/config"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type ProjectStat struct {
	ProjectID string `json:"project_id"`
	Favorites int64  `json:"favorites"`
}

type AdminStats struct {
	TotalVisitors     int64           `json:"total_visitors"`
	UniqueVisitors    int64           `json:"unique_visitors"`
	VisitorsToday     int64           `json:"visitors_today"`
	VisitorsThisWeek  int64           `json:"visitors_this_week"`
	VisitorsWithFavs  int64           `json:"visitors_with_favorites"`
	TotalFavorites    int64           `json:"total_favorites"`
	TopProjects       []ProjectStat   `json:"top_projects"`
	RecentVisitors    []VisitorMetric `json:"recent_visitors"`
	FavoritesInSQLite bool            `json:"favorites_in_sqlite"`
}

const timestampLayout = time.DateTime

type admin struct {
	db          *sql.DB
	logger      *log.Logger
	creds       config.Admin
	token       string
	hashingSalt string

	// favorites live in Redis instead of the favorites table
	externalFavorites bool

	tracking sync.WaitGroup
}

// newAdmin prepares the visitors table and generates a fresh admin token
// and IP hashing salt for this process.
func newAdmin(ctx context.Context, db *sql.DB, creds config.Admin, logger *log.Logger) (*admin, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	a := &admin{db: db, logger: logger, creds: creds, token: token, hashingSalt: salt}
	if err := a.initVisitorTracking(ctx); err != nil {
		return nil, err
	}

	logger.Info("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		logger.Debug("Admin token (dev only)", "token", token)
	}
	logger.Info("Privacy: visitor tracking enabled with hashed IP addresses")
	return a, nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address for privacy compliance (consistent per IP for the life of the process)
func (a *admin) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Middleware to check admin authentication
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (a *admin) trackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/layout/") ||
			strings.HasPrefix(path, "/favorites/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") ||
			path == "/healthz" ||
			c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		a.tracking.Add(1)
		go func(ip, userAgent string) {
			defer a.tracking.Done()
			a.trackVisitor(ip, userAgent, path)
		}(c.ClientIP(), c.GetHeader("User-Agent"))
		c.Next()
	}
}

func (a *admin) trackVisitor(ip, userAgent, path string) {
	_, err := a.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, a.hashIP(ip), userAgent, path, time.Now().UTC().Format(timestampLayout))
	if err != nil {
		a.logger.Error("Error recording visitor", "err", err)
	}
}

// wait blocks until in-flight visitor writes finish.
func (a *admin) wait() { a.tracking.Wait() }

func (a *admin) initVisitorTracking(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create visitors table: %w", err)
	}

	// Clean up old visitor data for privacy compliance (run in background)
	a.tracking.Add(1)
	go func() {
		defer a.tracking.Done()
		a.cleanupOldVisitorData()
	}()
	return nil
}

// Cleanup old visitor data for privacy compliance
func (a *admin) cleanupOldVisitorData() {
	result, err := a.db.Exec(`
		DELETE FROM visitors
		WHERE timestamp < datetime('now', '-12 months')
	`)
	if err != nil {
		a.logger.Error("Error cleaning up old visitor data", "err", err)
		return
	}

	rowsDeleted, _ := result.RowsAffected()
	if rowsDeleted > 0 {
		a.logger.Info("Privacy cleanup: removed old visitor records", "rows", rowsDeleted)
	}
}

// Get comprehensive admin statistics
func (a *admin) stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{FavoritesInSQLite: !a.externalFavorites}

	type count struct {
		query string
		dest  *int64
	}
	counts := []count{
		{"SELECT COUNT(*) FROM visitors", &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')", &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')", &stats.VisitorsThisWeek},
	}
	if !a.externalFavorites {
		counts = append(counts,
			count{"SELECT COUNT(*) FROM favorites WHERE json_array_length(ids) > 0", &stats.VisitorsWithFavs},
			count{"SELECT COALESCE(SUM(json_array_length(ids)), 0) FROM favorites", &stats.TotalFavorites},
		)
	}
	for _, q := range counts {
		if err := a.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("%s: %w", q.query, err)
		}
	}

	if !a.externalFavorites {
		top, err := a.topProjects(ctx, 10)
		if err != nil {
			return nil, err
		}
		stats.TopProjects = top
	}

	recent, err := a.recentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

// topProjects counts how many visitors favorited each project.
func (a *admin) topProjects(ctx context.Context, limit int) ([]ProjectStat, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT j.value, COUNT(*) AS n
		FROM favorites, json_each(favorites.ids) AS j
		GROUP BY j.value
		ORDER BY n DESC, j.value ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectStat
	for rows.Next() {
		var ps ProjectStat
		if err := rows.Scan(&ps.ProjectID, &ps.Favorites); err != nil {
			continue
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (a *admin) recentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts any
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp = parseTimestamp(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// parseTimestamp accepts whatever the driver hands back for a DATETIME
// column: a decoded time or the stored text.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		ts, _ := time.Parse(timestampLayout, t)
		return ts
	case []byte:
		ts, _ := time.Parse(timestampLayout, string(t))
		return ts
	default:
		return time.Time{}
	}
}

// Setup all admin routes
func (a *admin) routes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", a.token, 3600*24, "/admin", "", false, true)
			a.logger.Info("Admin login successful", "from", a.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.logger.Warn("Failed admin login attempt", "from", a.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		a.logger.Info("Admin logout", "from", a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(a.authMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			a.logger.Error("Error loading admin stats", "err", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.recentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		a.tracking.Add(1)
		go func() {
			defer a.tracking.Done()
			a.cleanupOldVisitorData()
		}()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("Admin stats exported", "by", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
