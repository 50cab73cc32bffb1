package brief

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageMargin   = 15.0
	pageBreakY   = 270.0
	lineHeight   = 6.0
	headingSize  = 14.0
	swatchSize   = 8.0
	logoWidth    = 30.0
	logoHeight   = 20.0
	contentWidth = 210.0 - 2*pageMargin
)

var errUnsupportedLogo = errors.New("logo must be a PNG or JPEG data URL")

// renderer writes lines top to bottom and opens a new page whenever the next
// block would cross pageBreakY.
type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render draws the document. logoDataURL may be empty; a logo that cannot be
// embedded is replaced by a text line.
func Render(doc Document, logoDataURL string) ([]byte, error) {
	r := newRenderer(doc.Title)
	r.draw(doc, logoDataURL)

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render brief: %w", err)
	}
	return buf.Bytes(), nil
}

func newRenderer(title string) *renderer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	return &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (r *renderer) draw(doc Document, logoDataURL string) {
	r.pdf.AddPage()
	r.title(doc.Title, doc.BusinessName)
	for _, s := range doc.Sections {
		r.section(s, 0)
		if s.Title == SectionBranding && logoDataURL != "" {
			r.logo(logoDataURL)
		}
	}
}

// ensure starts a new page when h more millimetres would not fit.
func (r *renderer) ensure(h float64) {
	if r.pdf.GetY()+h > pageBreakY {
		r.pdf.AddPage()
	}
}

func (r *renderer) title(title, business string) {
	r.pdf.SetFont("Helvetica", "B", 20)
	r.pdf.CellFormat(contentWidth, 10, r.tr(title), "", 1, "L", false, 0, "")
	if business != "" {
		r.pdf.SetFont("Helvetica", "", 13)
		r.pdf.CellFormat(contentWidth, 8, r.tr(business), "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *renderer) section(s Section, depth int) {
	if s.IsEmpty() {
		return
	}
	size := headingSize - 2*float64(depth)
	r.ensure(lineHeight * 2)
	r.pdf.SetFont("Helvetica", "B", size)
	r.pdf.CellFormat(contentWidth, lineHeight+1, r.tr(s.Title), "", 1, "L", false, 0, "")

	for _, f := range s.Fields {
		r.field(f)
	}
	if len(s.Swatches) > 0 {
		r.swatches(s.Swatches)
	}
	for _, p := range s.Paragraphs {
		r.paragraph(p)
	}
	for _, sub := range s.Subsections {
		r.section(sub, depth+1)
	}
	r.pdf.Ln(3)
}

func (r *renderer) field(f Field) {
	r.paragraphWithLabel(f.Label+": ", f.Value)
}

func (r *renderer) paragraph(text string) {
	r.paragraphWithLabel("", text)
}

// paragraphWithLabel wraps text to the content width and writes it one line
// at a time so each line gets its own page-break check.
func (r *renderer) paragraphWithLabel(label, text string) {
	r.pdf.SetFont("Helvetica", "", 10)
	for _, para := range strings.Split(text, "\n") {
		lines := r.pdf.SplitText(r.tr(label+para), contentWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			r.ensure(lineHeight)
			r.pdf.CellFormat(contentWidth, lineHeight, line, "", 1, "L", false, 0, "")
		}
		label = ""
	}
}

func (r *renderer) swatches(colors []string) {
	r.ensure(swatchSize + 2)
	x, y := pageMargin, r.pdf.GetY()
	r.pdf.SetFont("Helvetica", "", 8)
	for _, c := range colors {
		if x+swatchSize+18 > pageMargin+contentWidth {
			x = pageMargin
			r.pdf.SetY(y + swatchSize + 2)
			r.ensure(swatchSize + 2)
			y = r.pdf.GetY()
		}
		if red, green, blue, ok := parseHex(c); ok {
			r.pdf.SetFillColor(red, green, blue)
			r.pdf.Rect(x, y, swatchSize, swatchSize, "FD")
		}
		r.pdf.Text(x+swatchSize+1.5, y+swatchSize-2, r.tr(c))
		x += swatchSize + 20
	}
	r.pdf.SetY(y + swatchSize + 2)
}

// logo embeds a 30x20 thumbnail at the cursor.
func (r *renderer) logo(dataURL string) {
	r.ensure(logoHeight + 2)
	if err := r.embed(dataURL); err != nil {
		r.paragraph("Logo: see attached file (preview unavailable)")
		return
	}
	r.pdf.SetY(r.pdf.GetY() + logoHeight + 2)
}

func (r *renderer) embed(dataURL string) error {
	imageType, raw, err := decodeImageDataURL(dataURL)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: imageType}

	// A failed registration poisons the whole document, so try it on a
	// throwaway instance first.
	probe := fpdf.New("P", "mm", "A4", "")
	probe.RegisterImageOptionsReader("logo", opts, bytes.NewReader(raw))
	if err := probe.Error(); err != nil {
		return err
	}

	r.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(raw))
	r.pdf.ImageOptions("logo", pageMargin, r.pdf.GetY(), logoWidth, logoHeight, false, opts, 0, "")
	return r.pdf.Error()
}

// decodeImageDataURL picks the embed format from the data URL prefix.
func decodeImageDataURL(dataURL string) (string, []byte, error) {
	var imageType string
	switch {
	case strings.HasPrefix(dataURL, "data:image/png"):
		imageType = "PNG"
	case strings.HasPrefix(dataURL, "data:image/jpeg"), strings.HasPrefix(dataURL, "data:image/jpg"):
		imageType = "JPG"
	default:
		return "", nil, errUnsupportedLogo
	}
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return "", nil, errUnsupportedLogo
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode logo: %w", err)
	}
	return imageType, raw, nil
}

func parseHex(c string) (int, int, int, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v>>16&0xff), int(v>>8&0xff), int(v&0xff), true
}
