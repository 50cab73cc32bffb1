package domain

import (
	"slices"
	"strings"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

func WithContact(s State, c projects.Contact) State {
	s.Data.Contact = c
	return s
}

func WithBusiness(s State, b projects.Business) State {
	s.Data.Business = b
	return s
}

// WithLogo replaces the logo section. A selection made from generated
// candidates survives unless the new value carries its own.
func WithLogo(s State, l projects.Logo) State {
	if l.Selected == nil {
		l.Selected = s.Data.Logo.Selected
	}
	l.Preferences.Colors = slices.Clone(l.Preferences.Colors)
	s.Data.Logo = l
	return s
}

func WithSiteType(s State, siteType string) State {
	s.Data.SiteType = strings.TrimSpace(siteType)
	return s
}

func WithContentPreferences(s State, p projects.ContentPreferences) State {
	p.Keywords = slices.Clone(p.Keywords)
	s.Data.ContentPreferences = p
	return s
}

func WithImageRequirements(s State, r projects.ImageRequirements) State {
	r.Styles = slices.Clone(r.Styles)
	s.Data.ImageRequirements = r
	return s
}

func WithDesign(s State, d projects.DesignPreferences) State {
	d.Colors = slices.Clone(d.Colors)
	d.Fonts = slices.Clone(d.Fonts)
	d.Inspirations = slices.Clone(d.Inspirations)
	s.Data.Design = d
	return s
}

func WithIntegrations(s State, in projects.Integrations) State {
	s.Data.Integrations = in
	return s
}

func WithMembership(s State, m projects.Membership) State {
	m.Roles = slices.Clone(m.Roles)
	m.Features = slices.Clone(m.Features)
	s.Data.Membership = m
	return s
}

func WithMedia(s State, media []projects.MediaRef) State {
	s.Data.Media = slices.Clone(media)
	return s
}

// WithPageDirection stores the client's free-text direction for one page.
// A blank direction clears it.
func WithPageDirection(s State, pageID, direction string) (State, error) {
	if _, ok := s.PageByID(pageID); !ok {
		return s, ErrPageNotFound
	}
	dirs := copyMap(s.PageDirections)
	if d := strings.TrimSpace(direction); d != "" {
		dirs[pageID] = d
	} else {
		delete(dirs, pageID)
	}
	s.PageDirections = dirs
	return s, nil
}

// WithLogoCandidates replaces the previous candidate set.
func WithLogoCandidates(s State, logos []projects.GeneratedLogo) State {
	s.LogoCandidates = slices.Clone(logos)
	return s
}

// SelectLogo copies a candidate into the logo section.
func SelectLogo(s State, logoID string, decision projects.LogoDecision) (State, error) {
	if !decision.Valid() {
		return s, ErrInvalidDecision
	}
	i := slices.IndexFunc(s.LogoCandidates, func(l projects.GeneratedLogo) bool { return l.ID == logoID })
	if i < 0 {
		return s, ErrLogoNotFound
	}
	s.Data.Logo.Choice = projects.LogoChoiceGenerate
	s.Data.Logo.Selected = &projects.LogoSelection{Logo: s.LogoCandidates[i], Decision: decision}
	return s, nil
}

// MergeGeneratedContent replaces the entry of every page present in entries
// and appends the rest.
func MergeGeneratedContent(s State, entries []projects.GeneratedContent) State {
	out := slices.Clone(s.Data.GeneratedContent)
	for _, e := range entries {
		i := slices.IndexFunc(out, func(gc projects.GeneratedContent) bool { return gc.PageID == e.PageID })
		if i >= 0 {
			out[i] = e
			continue
		}
		out = append(out, e)
	}
	s.Data.GeneratedContent = out
	return s
}

// EditContent records the client's own version of a page's copy. Typing the
// generated text back clears the edit.
func EditContent(s State, pageID, text string) (State, error) {
	i := slices.IndexFunc(s.Data.GeneratedContent, func(gc projects.GeneratedContent) bool { return gc.PageID == pageID })
	if i < 0 {
		return s, ErrPageNotFound
	}
	out := slices.Clone(s.Data.GeneratedContent)
	if text == out[i].Content {
		out[i].EditedContent = nil
	} else {
		out[i].EditedContent = &text
	}
	out[i].HasEdits = out[i].EditedContent != nil
	s.Data.GeneratedContent = out
	return s, nil
}
