package brief

import (
	"context"
	"fmt"
	"time"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/storage/media"
)

const (
	msgDocumentAndArchive = "Your creative brief and a zip of your images were generated."
	msgDocumentOnly       = "Your creative brief was generated. There were no images to bundle, so only the document was produced."
	msgArchiveFailed      = "Your creative brief was generated, but the image archive could not be packaged."
)

// Bundle is the result of an export. Byte fields encode as base64 in JSON.
type Bundle struct {
	DocumentName string `json:"documentName"`
	Document     []byte `json:"document"`
	ArchiveName  string `json:"archiveName,omitempty"`
	Archive      []byte `json:"archive,omitempty"`
	Message      string `json:"message"`
}

type Exporter struct {
	store media.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewExporter(store media.Store, log *logger.Logger) *Exporter {
	return &Exporter{store: store, log: log, now: time.Now}
}

// Export renders the brief and, when the project has images, an archive of
// them. Only a failure to produce the document itself is returned.
func (e *Exporter) Export(ctx context.Context, data projects.ProjectData) (*Bundle, error) {
	doc := Assemble(data)
	pdf, err := Render(doc, e.logoDataURL(ctx, data.Logo))
	if err != nil {
		return nil, err
	}

	docName, archiveName := FileNames(data.Business.Name, e.now())
	out := &Bundle{DocumentName: docName, Document: pdf, Message: msgDocumentOnly}

	assets := e.collect(ctx, data)
	if len(assets) == 0 {
		return out, nil
	}
	archive, err := buildArchive(assets)
	if err != nil {
		e.log.Warn("brief archive failed", "business", data.Business.Name, "error", err)
		out.Message = msgArchiveFailed
		return out, nil
	}
	out.ArchiveName = archiveName
	out.Archive = archive
	out.Message = msgDocumentAndArchive
	return out, nil
}

// logoDataURL prefers the uploaded logo and falls back to the selected
// generated one.
func (e *Exporter) logoDataURL(ctx context.Context, l projects.Logo) string {
	if l.Uploaded != nil && e.store != nil {
		url, err := media.DataURL(ctx, e.store, mediaKey(*l.Uploaded))
		if err == nil {
			return url
		}
		e.log.Warn("uploaded logo unavailable for brief", "media_id", l.Uploaded.ID, "error", err)
	}
	if l.Selected != nil {
		return l.Selected.Logo.DataURL
	}
	return ""
}

func (e *Exporter) collect(ctx context.Context, data projects.ProjectData) []asset {
	var assets []asset

	if e.store != nil {
		refs := data.Media
		if data.Logo.Uploaded != nil {
			refs = append([]projects.MediaRef{*data.Logo.Uploaded}, refs...)
		}
		for i, ref := range refs {
			b, contentType, err := media.ReadAll(ctx, e.store, mediaKey(ref))
			if err != nil {
				e.log.Warn("media skipped in brief archive", "media_id", ref.ID, "error", err)
				continue
			}
			if !isImage(contentType) {
				continue
			}
			dir, fallback := "media", ref.ID
			if i == 0 && data.Logo.Uploaded != nil {
				dir, fallback = "", "logo"
			}
			assets = append(assets, asset{name: assetName(dir, ref.Name, fallback, contentType), data: b})
		}
	}

	if sel := data.Logo.Selected; sel != nil && sel.Logo.DataURL != "" {
		raw, contentType, err := decodeDataURL(sel.Logo.DataURL)
		if err != nil {
			e.log.Warn("generated logo skipped in brief archive", "logo_id", sel.Logo.ID, "error", err)
		} else {
			assets = append(assets, asset{name: fmt.Sprintf("generated-logo.%s", extensionFor(contentType)), data: raw})
		}
	}
	return assets
}

func mediaKey(ref projects.MediaRef) string {
	if ref.Key != "" {
		return ref.Key
	}
	return media.KeyFor(ref.ID)
}
