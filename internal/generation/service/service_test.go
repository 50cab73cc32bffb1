package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type scriptedText struct {
	mu       sync.Mutex
	requests []domain.TextRequest
	replies  []func() (string, error)
}

func (s *scriptedText) Complete(_ context.Context, req domain.TextRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return next()
}

func reply(v string) func() (string, error) { return func() (string, error) { return v, nil } }
func failWith(err error) func() (string, error) { return func() (string, error) { return "", err } }

// slotImages fails or succeeds per logo slot, keyed by the slot's concept text.
type slotImages struct {
	mu    sync.Mutex
	calls map[int]int
	fail  map[int]error
}

func (s *slotImages) Generate(_ context.Context, prompt string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, v := range logoVariations {
		if strings.Contains(prompt, v) {
			s.calls[slot]++
			if err := s.fail[slot]; err != nil {
				return nil, err
			}
			return pngBytes, nil
		}
	}
	return nil, errors.New("unknown slot")
}

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func newService(text domain.TextGenerator, images domain.ImageGenerator) (*Service, *sleepRecorder) {
	rec := &sleepRecorder{}
	s := New(text, images, logger.NewNop())
	s.sleep = rec.sleep
	n := 0
	s.newID = func() string {
		n++
		return "logo-" + string(rune('0'+n))
	}
	return s, rec
}

func TestGenerateNames_ParsesProviderNames(t *testing.T) {
	text := &scriptedText{replies: []func() (string, error){
		reply("```json\n{\"names\":[\"Forge & Co\",\"Anvilry\",\"forge & co\",\"Ironclad\"]}\n```"),
	}}
	s, _ := newService(text, nil)

	names := s.GenerateNames(context.Background(), domain.NameRequest{NameIdea: "Forge"})

	require.Len(t, names, 5)
	assert.Equal(t, []string{"Forge & Co", "Anvilry", "Ironclad", "Forge Studio", "Forge Co."}, names)
	assert.Len(t, text.requests, 1)
}

func TestGenerateNames_FallbackOnFailure(t *testing.T) {
	text := &scriptedText{replies: []func() (string, error){failWith(errors.New("502 bad gateway"))}}
	s, rec := newService(text, nil)

	names := s.GenerateNames(context.Background(), domain.NameRequest{Description: "We sell handmade ceramic mugs"})

	assert.Equal(t, FallbackNames(domain.NameRequest{Description: "We sell handmade ceramic mugs"}), names)
	assert.Equal(t, "Sell Handmade Studio", names[0])
	assert.Len(t, text.requests, 1, "names get a single attempt")
	assert.Empty(t, rec.waits)
}

func TestGenerateLogos_PartialSuccess(t *testing.T) {
	images := &slotImages{
		calls: map[int]int{},
		fail:  map[int]error{0: errors.New("timeout"), 1: errors.New("timeout")},
	}
	s, rec := newService(nil, images)

	logos, err := s.GenerateLogos(context.Background(), domain.LogoRequest{BusinessName: "Acme", Description: "Anvils"})

	require.NoError(t, err)
	require.Len(t, logos, 1)
	assert.True(t, strings.HasPrefix(logos[0].DataURL, "data:image/png;base64,"))
	assert.Contains(t, logos[0].Prompt, logoVariations[2])
	assert.Equal(t, map[int]int{0: 3, 1: 3, 2: 1}, images.calls)
	assert.Len(t, rec.waits, 4)
	for _, w := range rec.waits {
		assert.Equal(t, time.Second, w)
	}
}

func TestGenerateLogos_ZeroSuccesses(t *testing.T) {
	boom := errors.New("server error")
	images := &slotImages{calls: map[int]int{}, fail: map[int]error{0: boom, 1: boom, 2: boom}}
	s, _ := newService(nil, images)

	logos, err := s.GenerateLogos(context.Background(), domain.LogoRequest{Description: "Anvils"})

	assert.Nil(t, logos)
	assert.ErrorIs(t, err, domain.ErrNoLogos)
	assert.NotErrorIs(t, err, domain.ErrContentPolicy)
	assert.Equal(t, map[int]int{0: 3, 1: 3, 2: 3}, images.calls)
}

func TestGenerateLogos_PolicyIsNotRetried(t *testing.T) {
	images := &slotImages{calls: map[int]int{}, fail: map[int]error{
		0: domain.ErrContentPolicy,
		1: domain.ErrContentPolicy,
		2: domain.ErrQuotaExceeded,
	}}
	s, rec := newService(nil, images)

	_, err := s.GenerateLogos(context.Background(), domain.LogoRequest{Description: "Anvils"})

	assert.ErrorIs(t, err, domain.ErrContentPolicy)
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, images.calls)
	assert.Empty(t, rec.waits)
}

func TestGenerateLogos_QuotaOnly(t *testing.T) {
	images := &slotImages{calls: map[int]int{}, fail: map[int]error{
		0: domain.ErrQuotaExceeded, 1: domain.ErrQuotaExceeded, 2: errors.New("timeout"),
	}}
	s, _ := newService(nil, images)

	_, err := s.GenerateLogos(context.Background(), domain.LogoRequest{Description: "Anvils"})
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestGenerateLogos_RequiresInput(t *testing.T) {
	images := &slotImages{calls: map[int]int{}}
	s, _ := newService(nil, images)

	_, err := s.GenerateLogos(context.Background(), domain.LogoRequest{})
	assert.ErrorIs(t, err, ErrInvalidLogoRequest)

	_, err = s.GenerateLogos(context.Background(), domain.LogoRequest{BusinessName: "Acme", Description: "  "})
	assert.ErrorIs(t, err, ErrInvalidLogoRequest)
	assert.ErrorContains(t, err, "description is required")

	_, err = s.GenerateLogos(context.Background(), domain.LogoRequest{Description: "Anvils", ReferenceImageBase64: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidLogoRequest)

	_, err = s.GenerateLogos(context.Background(), domain.LogoRequest{
		Description:          "Anvils",
		ReferenceImageBase64: base64.StdEncoding.EncodeToString([]byte("plain text")),
	})
	assert.ErrorIs(t, err, ErrInvalidLogoRequest)
	assert.Empty(t, images.calls)
}

// referenceImages renders every slot from the reference picture.
type referenceImages struct {
	slotImages
	refs [][]byte
}

func (r *referenceImages) GenerateFromReference(ctx context.Context, prompt string, ref []byte) ([]byte, error) {
	r.mu.Lock()
	r.refs = append(r.refs, ref)
	r.mu.Unlock()
	return r.Generate(ctx, prompt)
}

func TestGenerateLogos_SendsReferenceImage(t *testing.T) {
	images := &referenceImages{slotImages: slotImages{calls: map[int]int{}}}
	s, _ := newService(nil, images)

	logos, err := s.GenerateLogos(context.Background(), domain.LogoRequest{
		Description:          "Anvils",
		ReferenceImageBase64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes),
	})
	require.NoError(t, err)
	assert.Len(t, logos, logoSlots)
	require.Len(t, images.refs, logoSlots)
	for _, ref := range images.refs {
		assert.Equal(t, pngBytes, ref)
	}
}

func TestGenerateLogos_NoReferenceUsesPlainGeneration(t *testing.T) {
	images := &referenceImages{slotImages: slotImages{calls: map[int]int{}}}
	s, _ := newService(nil, images)

	_, err := s.GenerateLogos(context.Background(), domain.LogoRequest{Description: "Anvils"})
	require.NoError(t, err)
	assert.Empty(t, images.refs)
}

func contentRequest(pages ...projects.Page) domain.ContentRequest {
	return domain.ContentRequest{
		BusinessName:        "Acme",
		BusinessDescription: "Anvils for every workshop",
		SiteType:            "business",
		Pages:               pages,
		Preferences:         projects.ContentPreferences{Tone: "bold"},
		PageDirections:      map[string]string{"home": "mention free shipping"},
	}
}

var (
	homePage    = projects.Page{ID: "home", Name: "Home", Path: "/", Required: true}
	aboutPage   = projects.Page{ID: "about", Name: "About", Path: "/about"}
	contactPage = projects.Page{ID: "contact", Name: "Contact", Path: "/contact", Required: true}
)

func TestGenerateContent_RetryScheduleAndFallback(t *testing.T) {
	timeout := errors.New("timeout")
	text := &scriptedText{replies: []func() (string, error){
		// home: two failures, then fenced JSON
		failWith(timeout),
		failWith(timeout),
		reply("```json\n{\"content\":\"Welcome to Acme\",\"suggestions\":[\"a\"]}\n```"),
		// about: all attempts fail
		failWith(timeout),
		failWith(timeout),
		failWith(timeout),
		// contact: prose on first try
		reply("Write to us any time."),
	}}
	s, rec := newService(text, nil)

	out, err := s.GenerateContent(context.Background(), contentRequest(homePage, aboutPage, contactPage))
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Welcome to Acme", out[0].Content)
	assert.Equal(t, []string{"a"}, out[0].Suggestions)
	assert.Equal(t, "mention free shipping", out[0].PageDirection)

	assert.Equal(t, FallbackContent(contentRequest(), aboutPage).Content, out[1].Content)
	assert.Len(t, out[1].Suggestions, 3)

	assert.Equal(t, "Write to us any time.", out[2].Content)
	assert.Equal(t, GenericSuggestions, out[2].Suggestions)

	for i, pc := range out {
		assert.Equal(t, contentRequest(homePage, aboutPage, contactPage).Pages[i].ID, pc.PageID)
		assert.False(t, pc.HasEdits)
	}

	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, // home
		time.Second, 2 * time.Second, // about
	}, rec.waits)

	require.Len(t, text.requests, 7)
	assert.Equal(t, fullTemperature, text.requests[0].Temperature)
	assert.Contains(t, text.requests[0].Prompt, "mention free shipping")
	assert.Contains(t, text.requests[0].Prompt, GuidanceFor("Home"))
	assert.Equal(t, shortTemperature, text.requests[1].Temperature)
	assert.Less(t, len(text.requests[1].Prompt), len(text.requests[0].Prompt))
	assert.Equal(t, shortTemperature, text.requests[2].Temperature)
	assert.Equal(t, fullTemperature, text.requests[3].Temperature)
}

func TestGenerateContent_PolicyFallsBackWithoutRetry(t *testing.T) {
	text := &scriptedText{replies: []func() (string, error){failWith(domain.ErrContentPolicy)}}
	s, rec := newService(text, nil)

	out, err := s.GenerateContent(context.Background(), contentRequest(homePage))
	require.NoError(t, err)
	assert.Equal(t, FallbackContent(contentRequest(), homePage).Content, out[0].Content)
	assert.Len(t, text.requests, 1)
	assert.Empty(t, rec.waits)
}

func TestGenerateContent_Validation(t *testing.T) {
	s, _ := newService(&scriptedText{}, nil)

	_, err := s.GenerateContent(context.Background(), domain.ContentRequest{BusinessDescription: "x"})
	var verr *projects.ValidationError
	assert.ErrorAs(t, err, &verr)

	req := contentRequest(homePage)
	req.BusinessDescription = ""
	_, err = s.GenerateContent(context.Background(), req)
	assert.ErrorAs(t, err, &verr)
}

func TestRegenerateContent_AlwaysReturnsContent(t *testing.T) {
	boom := errors.New("connection reset")
	text := &scriptedText{replies: []func() (string, error){failWith(boom), failWith(boom), failWith(boom)}}
	s, _ := newService(text, nil)

	gc, err := s.RegenerateContent(context.Background(), contentRequest(), aboutPage, "more playful")
	require.NoError(t, err)
	assert.Equal(t, "about", gc.PageID)
	assert.Equal(t, "more playful", gc.PageDirection)
	assert.NotEmpty(t, gc.Content)
	assert.Len(t, text.requests, 3)
}

func TestGuidanceFor(t *testing.T) {
	assert.Equal(t, guidanceTable[1].guidance, GuidanceFor("About Us"))
	assert.Equal(t, guidanceTable[6].guidance, GuidanceFor("FAQ"))
	assert.Equal(t, genericGuidance, GuidanceFor("Careers"))
}
