package main

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/favorites"
	"github.com/Zachkp/portfolio/internal/masonry"
	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/resume"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	visitorCookie = "visitor_id"
	themeCookie   = "theme"
	openedCookie  = "opened"
	cookieMaxAge  = 365 * 24 * 3600
)

type server struct {
	logger    *log.Logger
	portfolio *content.Portfolio
	favorites *favorites.Store
	relay     contact.Relay
	admin     *admin
	grid      masonry.Options

	// site is the public base URL; empty means derive it per request
	site string
}

func (s *server) templates() *template.Template {
	funcs := template.FuncMap{
		"badgeClass": s.portfolio.BadgeClass,
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
		"contains": func(ids []string, id string) bool { return slices.Contains(ids, id) },
		"inc":      func(i int) int { return i + 1 },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.SetHTMLTemplate(s.templates())

	static, _ := fs.Sub(staticFS, "static")
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", "./images")

	if s.admin != nil {
		r.Use(s.admin.trackingMiddleware())
		s.admin.routes(r)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	site := r.Group("/", visitorMiddleware())
	site.GET("/", s.home)
	site.GET("/projects", s.projects)
	site.GET("/projects/:id", s.projectDetail)
	site.POST("/projects/:id/favorite", s.toggleFavorite)
	site.GET("/layout/projects", s.projectsLayout)
	site.GET("/layout/favorites", s.favoritesLayout)
	site.GET("/favorites/events", s.favoriteEvents)
	site.GET("/contact", s.contactPage)
	site.POST("/contact", s.sendContact)
	site.POST("/theme", toggleTheme)
	site.GET("/resume.pdf", s.resumePDF)
	site.GET("/share.png", s.shareQR)

	r.NoRoute(func(c *gin.Context) { s.notFound(c, "Not Found") })
	return r
}

func (s *server) notFound(c *gin.Context, title string) {
	c.HTML(http.StatusNotFound, "not-found.html", s.page(c, []string{}, gin.H{"title": title}))
}

// visitorMiddleware gives every browser a stable anonymous ID that keys its
// favorites.
func visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, cookieMaxAge, "/", "", false, true)
		}
		c.Set(visitorCookie, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorCookie)
}

func monochrome(c *gin.Context) bool {
	theme, err := c.Cookie(themeCookie)
	return err != nil || theme != "color"
}

func toggleTheme(c *gin.Context) {
	next := "color"
	if !monochrome(c) {
		next = "mono"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next, cookieMaxAge, "/", "", false, false)

	back := c.Request.Referer()
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}

// favoriteIDs loads the visitor's favorites for display. A broken store
// renders as no favorites rather than failing the page.
func (s *server) favoriteIDs(c *gin.Context) []string {
	ids, err := s.favorites.List(c.Request.Context(), visitorID(c))
	if err != nil {
		s.logger.Error("load favorites", "visitor", visitorID(c), "err", err)
		_ = c.Error(err)
		return []string{}
	}
	return ids
}

// page adds the values every full page template uses.
func (s *server) page(c *gin.Context, favIDs []string, h gin.H) gin.H {
	h["owner"] = s.portfolio.Owner
	h["monochrome"] = monochrome(c)
	h["path"] = c.Request.URL.Path
	h["favoriteIDs"] = favIDs
	h["favoritesCount"] = len(favIDs)
	h["favoritesLimit"] = s.favorites.Limit()
	return h
}

// homeTab is one panel of the favorites preview on the home page.
type homeTab struct {
	ID    string
	Label string
}

var homeTabs = []homeTab{
	{ID: "favorites", Label: "Pinned Projects"},
	{ID: "certificates", Label: "Certificates"},
	{ID: "stack", Label: "Tech Stack"},
}

// activeTab falls back to the first tab for unknown names.
func activeTab(raw string) string {
	for _, t := range homeTabs {
		if t.ID == raw {
			return raw
		}
	}
	return homeTabs[0].ID
}

func (s *server) home(c *gin.Context) {
	favIDs := s.favoriteIDs(c)

	// the opening sequence plays once per browser
	var opening motion.Sequence
	if _, err := c.Cookie(openedCookie); err != nil {
		opening = motion.Opening()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(openedCookie, "1", cookieMaxAge, "/", "", false, true)
	}

	p := s.portfolio
	c.HTML(http.StatusOK, "index.html", s.page(c, favIDs, gin.H{
		"title":          p.Owner.Name,
		"opening":        opening,
		"education":      p.Education,
		"work":           p.Work,
		"timeline":       motion.Timeline(len(p.Education)),
		"favorites":      p.ByIDs(favIDs),
		"emptyFavorites": EmptyFavorites,
		"certificates":   p.Certificates,
		"techStack":      p.TechStack,
		"tabs":           homeTabs,
		"tab":            activeTab(c.Query("tab")),
	}))
}

// parseSemester reads the semester filter; anything outside 1-8 means all.
func parseSemester(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || !slices.Contains(content.Semesters(), n) {
		return 0
	}
	return n
}

func (s *server) projects(c *gin.Context) {
	semester := parseSemester(c.Query("semester"))
	c.HTML(http.StatusOK, "projects.html", s.page(c, s.favoriteIDs(c), gin.H{
		"title":     "My Projects",
		"projects":  s.portfolio.BySemester(semester),
		"semester":  semester,
		"semesters": content.Semesters(),
	}))
}

func (s *server) projectDetail(c *gin.Context) {
	project, ok := s.portfolio.Project(c.Param("id"))
	if !ok {
		s.notFound(c, "Project Not Found")
		return
	}
	favIDs := s.favoriteIDs(c)
	c.HTML(http.StatusOK, "project.html", s.page(c, favIDs, gin.H{
		"title":      project.Title,
		"project":    project,
		"isFavorite": slices.Contains(favIDs, project.ID()),
	}))
}

func (s *server) toggleFavorite(c *gin.Context) {
	project, ok := s.portfolio.Project(c.Param("id"))
	if !ok {
		c.HTML(http.StatusNotFound, "toast.html", gin.H{"kind": "error", "message": "Project not found"})
		return
	}

	h := gin.H{"project": project, "favoritesLimit": s.favorites.Limit()}
	added, ids, err := s.favorites.Toggle(c.Request.Context(), visitorID(c), project.ID())
	switch {
	case errors.Is(err, favorites.ErrLimitReached):
		h["kind"], h["message"] = "error", fmt.Sprintf(FavoriteLimit, s.favorites.Limit())
	case err != nil:
		s.logger.Error("toggle favorite", "visitor", visitorID(c), "project", project.ID(), "err", err)
		h["kind"], h["message"] = "error", FavoriteFailed
	case added:
		h["kind"], h["message"] = "success", fmt.Sprintf(FavoriteAdded, project.Title)
	default:
		h["kind"], h["message"] = "success", fmt.Sprintf(FavoriteRemoved, project.Title)
	}
	h["isFavorite"] = slices.Contains(ids, project.ID())
	h["favoritesCount"] = len(ids)
	c.HTML(http.StatusOK, "favorite.html", h)
}

func (s *server) projectsLayout(c *gin.Context) {
	projects := s.portfolio.BySemester(parseSemester(c.Query("semester")))
	s.layout(c, projects)
}

func (s *server) favoritesLayout(c *gin.Context) {
	s.layout(c, s.portfolio.ByIDs(s.favoriteIDs(c)))
}

func (s *server) layout(c *gin.Context, projects []content.Project) {
	m := masonry.ParseMeasure(c.Query("width"), c.Query("height"))
	c.JSON(http.StatusOK, masonry.Layout(content.Tiles(projects), m, s.grid))
}

// favoriteEvents streams the visitor's favorites, starting with the current
// list, until the client goes away.
func (s *server) favoriteEvents(c *gin.Context) {
	visitor := visitorID(c)
	events, cancel := s.favorites.Subscribe(visitor)
	defer cancel()

	ids := s.favoriteIDs(c)
	c.SSEvent("favorites", favorites.Event{IDs: ids, Count: len(ids), Limit: s.favorites.Limit()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("favorites", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *server) contactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", s.page(c, s.favoriteIDs(c), gin.H{
		"title":   "Contact Me",
		"socials": s.portfolio.Socials,
	}))
}

func (s *server) sendContact(c *gin.Context) {
	var msg contact.Message
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": ContactMissing})
		return
	}

	if err := msg.Validate(); err != nil {
		text := ContactMissing
		if errors.Is(err, contact.ErrInvalidEmail) {
			text = ContactEmail
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": text, "form": msg})
		return
	}

	if err := s.relay.Send(c.Request.Context(), msg); err != nil {
		s.logger.Error("Error sending email", "relay", contact.Name(s.relay), "err", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": ContactFailed, "form": msg})
		return
	}

	s.logger.Info("Contact message relayed", "relay", contact.Name(s.relay), "from", msg.Normalize().Email)
	c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": ContactSent})
}

func (s *server) baseURL(c *gin.Context) string {
	if s.site != "" {
		return s.site
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/"
}

func (s *server) resumePDF(c *gin.Context) {
	var buf bytes.Buffer
	if err := resume.Write(&buf, s.portfolio, s.baseURL(c)); err != nil {
		s.logger.Error("render resume", "err", err)
		c.String(http.StatusInternalServerError, "could not render resume")
		return
	}
	c.Header("Content-Disposition", `inline; filename="resume.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// shareQR serves a QR code of the site address for the contact page.
func (s *server) shareQR(c *gin.Context) {
	png, err := resume.QR(s.baseURL(c), 256)
	if err != nil {
		s.logger.Error("render qr", "err", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
