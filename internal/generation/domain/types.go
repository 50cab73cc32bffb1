package domain

import (
	"context"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

// TextRequest is one chat completion.
type TextRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type TextGenerator interface {
	Complete(ctx context.Context, req TextRequest) (string, error)
}

// ImageGenerator returns the encoded image bytes for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// ReferenceImageGenerator renders a prompt starting from the client's own
// picture. Image providers may implement it next to ImageGenerator.
type ReferenceImageGenerator interface {
	GenerateFromReference(ctx context.Context, prompt string, reference []byte) ([]byte, error)
}

type NameRequest struct {
	Description string `json:"description"`
	NameIdea    string `json:"nameIdea"`
}

type LogoRequest struct {
	BusinessName         string                   `json:"businessName"`
	Description          string                   `json:"description"`
	Preferences          projects.LogoPreferences `json:"preferences"`
	ReferenceImageBase64 string                   `json:"referenceImageBase64,omitempty"`
}

// ContentRequest drives copy generation for one or more pages.
type ContentRequest struct {
	BusinessName        string                      `json:"businessName"`
	BusinessDescription string                      `json:"businessDescription"`
	SiteType            string                      `json:"siteType"`
	Pages               []projects.Page             `json:"pages"`
	Preferences         projects.ContentPreferences `json:"preferences"`
	PageDirections      map[string]string           `json:"pageDirections,omitempty"`
}

// PageContent is the structured answer expected from the model.
type PageContent struct {
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}
