package domain

import (
	"regexp"
	"strings"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

// DefaultPages is the sitemap every session starts with.
func DefaultPages() []projects.Page {
	return []projects.Page{
		{ID: "home", Name: "Home", Path: "/", Required: true},
		{ID: "about", Name: "About", Path: "/about"},
		{ID: "services", Name: "Services", Path: "/services"},
		{ID: "contact", Name: "Contact", Path: "/contact", Required: true},
	}
}

var slugSep = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a page name into its path: "My Page" becomes "/my-page".
func Slug(name string) string {
	s := slugSep.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return "/" + strings.Trim(s, "-")
}

// AddPage appends an optional page. Paths are not required to be unique.
func AddPage(s State, id, name string) (State, projects.Page, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, projects.Page{}, ErrInvalidPage
	}
	page := projects.Page{ID: id, Name: name, Path: Slug(name)}

	pages := make([]projects.Page, 0, len(s.Data.Pages)+1)
	pages = append(pages, s.Data.Pages...)
	s.Data.Pages = append(pages, page)
	return s, page, nil
}

// RemovePage drops an optional page together with its copy and direction.
func RemovePage(s State, id string) (State, error) {
	idx := pageIndex(s.Data.Pages, id)
	if idx < 0 {
		return s, ErrPageNotFound
	}
	if s.Data.Pages[idx].Required {
		return s, ErrRequiredPage
	}

	pages := make([]projects.Page, 0, len(s.Data.Pages)-1)
	pages = append(pages, s.Data.Pages[:idx]...)
	s.Data.Pages = append(pages, s.Data.Pages[idx+1:]...)

	var content []projects.GeneratedContent
	for _, gc := range s.Data.GeneratedContent {
		if gc.PageID != id {
			content = append(content, gc)
		}
	}
	s.Data.GeneratedContent = content

	if _, ok := s.PageDirections[id]; ok {
		dirs := copyMap(s.PageDirections)
		delete(dirs, id)
		s.PageDirections = dirs
	}
	return s, nil
}

// PageByID returns the sitemap entry with the given id.
func (s State) PageByID(id string) (projects.Page, bool) {
	if idx := pageIndex(s.Data.Pages, id); idx >= 0 {
		return s.Data.Pages[idx], true
	}
	return projects.Page{}, false
}

func pageIndex(pages []projects.Page, id string) int {
	for i, p := range pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
