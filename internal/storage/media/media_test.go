package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestLocalStore_RoundTrip(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "media/abc", "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader))))

	b, ct, err := ReadAll(ctx, s, "media/abc")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, b)
	assert.Equal(t, "image/png", ct)

	url, err := DataURL(ctx, s, "media/abc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestLocalStore_Errors(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), "media/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Put(context.Background(), "../escape", "", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(b)),
		ContentType: aws.String(f.types[aws.ToString(in.Key)]),
	}, nil
}

func TestS3Store_PrefixesKeys(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	s := NewS3StoreWithClient(fake, "briefs", "onboarding/")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "media/1", "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader))))
	assert.Contains(t, fake.objects, "onboarding/media/1")

	b, ct, err := ReadAll(ctx, s, "media/1")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, b)
	assert.Equal(t, "image/png", ct)

	_, _, err = s.Get(ctx, "media/2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func upload(t *testing.T, r http.Handler, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_UploadAndDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	r := gin.New()
	NewHandler(s, logger.NewNop()).Register(r.Group("/api/media"))

	rr := upload(t, r, "logo.png", pngHeader)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Media domain.MediaRef `json:"media"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "logo.png", resp.Media.Name)
	assert.Equal(t, "image/png", resp.Media.ContentType)
	assert.Equal(t, KeyFor(resp.Media.ID), resp.Media.Key)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/media/"+resp.Media.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, pngHeader, rr.Body.Bytes())
}

func TestHandler_RejectsNonImages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	r := gin.New()
	NewHandler(s, logger.NewNop()).Register(r.Group("/api/media"))

	rr := upload(t, r, "notes.png", []byte("just some text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/media/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
