// Package content holds the portfolio catalog: bio, timeline, projects,
// certificates and contact links.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/masonry"
)

//go:embed portfolio.yaml
var catalog []byte

// DefaultBadgeClass styles badges with no entry in the badge table.
const DefaultBadgeClass = "bg-purple-500/20 text-purple-200"

type Owner struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	About   string `yaml:"about"`
	Resume  string `yaml:"resume"`
}

type Education struct {
	Title       string `yaml:"title"`
	Address     string `yaml:"address"`
	Year        string `yaml:"year"`
	Description string `yaml:"desc"`
	Color       string `yaml:"color"`
	Website     string `yaml:"website"`
}

type Work struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Year        string `yaml:"year"`
	Description string `yaml:"desc"`
	Color       string `yaml:"color"`
}

type Project struct {
	Number      int           `yaml:"number"`
	Title       string        `yaml:"title"`
	Subtitle    string        `yaml:"subtitle"`
	Description string        `yaml:"description"`
	Image       string        `yaml:"image"`
	Category    string        `yaml:"category"`
	Semester    int           `yaml:"semester"`
	Shape       masonry.Shape `yaml:"shape"`
	Height      float64       `yaml:"height"`
	Badges      []string      `yaml:"badges"`
	KeyFeatures []string      `yaml:"key_features"`
	DemoLink    string        `yaml:"demo"`
	CodeLink    string        `yaml:"code"`
}

// ID identifies a project in URLs and in stored favorites.
func (p Project) ID() string {
	return p.Title + strconv.Itoa(p.Number)
}

// Published reports whether the demo link points somewhere real.
func (p Project) Published() bool {
	return p.DemoLink != "" && p.DemoLink != "#"
}

// Tile is the project as the masonry grid sees it.
func (p Project) Tile() masonry.Tile {
	return masonry.Tile{ID: p.ID(), Shape: p.Shape, Height: p.Height}
}

type Certificate struct {
	Title        string `yaml:"title"`
	Issuer       string `yaml:"issuer"`
	Date         string `yaml:"date"`
	CredentialID string `yaml:"credential"`
	Image        string `yaml:"image"`
}

type Social struct {
	Label string `yaml:"label"`
	Sub   string `yaml:"sub"`
	Link  string `yaml:"link"`
	Wide  bool   `yaml:"wide"`
}

// Portfolio is the whole catalog.
type Portfolio struct {
	Owner        Owner             `yaml:"owner"`
	Education    []Education       `yaml:"education"`
	Work         []Work            `yaml:"work"`
	Projects     []Project         `yaml:"projects"`
	Certificates []Certificate     `yaml:"certificates"`
	TechStack    []string          `yaml:"tech_stack"`
	Socials      []Social          `yaml:"socials"`
	Badges       map[string]string `yaml:"badges"`

	byID map[string]int
}

// Load parses the embedded catalog.
func Load() (*Portfolio, error) {
	return Parse(catalog)
}

// Parse decodes a YAML catalog and indexes its projects.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	p.byID = make(map[string]int, len(p.Projects))
	var errs []error
	for i, proj := range p.Projects {
		if strings.TrimSpace(proj.Title) == "" {
			errs = append(errs, fmt.Errorf("project %d: title is required", i))
			continue
		}
		id := proj.ID()
		if _, dup := p.byID[id]; dup {
			errs = append(errs, fmt.Errorf("project %d: duplicate id %q", i, id))
			continue
		}
		p.byID[id] = i
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &p, nil
}

// Project looks a project up by ID.
func (p *Portfolio) Project(id string) (Project, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Project{}, false
	}
	return p.Projects[i], true
}

// BySemester returns the projects from one semester, or all of them for 0.
func (p *Portfolio) BySemester(semester int) []Project {
	if semester == 0 {
		return p.Projects
	}
	var out []Project
	for _, proj := range p.Projects {
		if proj.Semester == semester {
			out = append(out, proj)
		}
	}
	return out
}

// ByIDs returns the projects named in ids, in catalog order. Unknown IDs
// are skipped.
func (p *Portfolio) ByIDs(ids []string) []Project {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Project
	for _, proj := range p.Projects {
		if want[proj.ID()] {
			out = append(out, proj)
		}
	}
	return out
}

// Has reports whether id names a project.
func (p *Portfolio) Has(id string) bool {
	_, ok := p.byID[id]
	return ok
}

// BadgeClass returns the CSS classes for a technology badge.
func (p *Portfolio) BadgeClass(badge string) string {
	if c, ok := p.Badges[strings.ToLower(badge)]; ok {
		return c
	}
	return DefaultBadgeClass
}

// Semesters lists the semester filter options.
func Semesters() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8}
}

// Tiles converts projects into masonry tiles, keeping their order.
func Tiles(projects []Project) []masonry.Tile {
	tiles := make([]masonry.Tile, len(projects))
	for i, proj := range projects {
		tiles[i] = proj.Tile()
	}
	return tiles
}
