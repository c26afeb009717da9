package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/config"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failOn  string
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Put(_ context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	if s.err != nil && (s.failOn == "" || strings.HasSuffix(key, s.failOn)) {
		return "", s.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return "https://photos.example.com/" + key, nil
}

type upload struct {
	name        string
	contentType string
	size        int
}

func fileHeaders(t *testing.T, uploads ...upload) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, u.name))
		if u.contentType != "" {
			h.Set("Content-Type", u.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0xff}, u.size))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["photos"]
}

func newPhotoService(store ObjectStore) *PhotoService {
	s := NewPhotoService(store)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestUploadReviewPhotos(t *testing.T) {
	store := newFakeStore()
	s := newPhotoService(store)
	caller := moderation.NewCaller(uuid.New(), moderation.RoleUser)

	files := fileHeaders(t,
		upload{name: "room.jpg", contentType: "image/jpeg", size: 1024},
		upload{name: "huge.png", contentType: "image/png", size: MaxPhotoSize + 1},
		upload{name: "mess hall.webp", size: 10},
	)

	result, err := s.UploadReviewPhotos(context.Background(), caller, files)
	require.NoError(t, err)

	require.Len(t, result.Uploaded, 2)
	assert.Equal(t, "room.jpg", result.Uploaded[0].FileName)
	key := keyOf(t, result.Uploaded[0].URL, caller, "room.jpg")
	assert.Len(t, store.objects[key], 1024)
	assert.Equal(t, "image/jpeg", store.types[key])

	webpKey := keyOf(t, result.Uploaded[1].URL, caller, "mess-hall.webp")
	assert.Equal(t, "image/webp", store.types[webpKey])

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "huge.png", result.Failed[0].FileName)
	assert.True(t, result.AllTooLarge())
	assert.Equal(t, []string{"https://photos.example.com/" + key, "https://photos.example.com/" + webpKey}, result.URLs())
}

// keyOf checks the key layout <user>/<millis>-<uuid>-<name> and returns the key.
func keyOf(t *testing.T, url string, caller moderation.Caller, name string) string {
	t.Helper()
	key := strings.TrimPrefix(url, "https://photos.example.com/")
	prefix := fmt.Sprintf("%s/1700000000000-", caller.UserID)
	require.True(t, strings.HasPrefix(key, prefix), key)
	require.True(t, strings.HasSuffix(key, "-"+name), key)
	_, err := uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(key, prefix), "-"+name))
	require.NoError(t, err, key)
	return key
}

func TestUploadSameFilenameKeepsBothFiles(t *testing.T) {
	store := newFakeStore()
	s := newPhotoService(store)
	caller := moderation.NewCaller(uuid.New(), moderation.RoleUser)

	result, err := s.UploadReviewPhotos(context.Background(), caller, fileHeaders(t,
		upload{name: "image.jpg", contentType: "image/jpeg", size: 10},
		upload{name: "image.jpg", contentType: "image/jpeg", size: 20},
	))
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 2)

	first := keyOf(t, result.Uploaded[0].URL, caller, "image.jpg")
	second := keyOf(t, result.Uploaded[1].URL, caller, "image.jpg")
	assert.NotEqual(t, first, second)
	assert.Len(t, store.objects, 2)
	assert.Len(t, store.objects[first], 10)
	assert.Len(t, store.objects[second], 20)
}

func TestUploadRejectsNonImages(t *testing.T) {
	s := newPhotoService(newFakeStore())
	caller := moderation.NewCaller(uuid.New(), moderation.RoleUser)

	result, err := s.UploadReviewPhotos(context.Background(), caller, fileHeaders(t,
		upload{name: "notes.pdf", contentType: "application/pdf", size: 10},
		upload{name: "script.sh", size: 10},
	))
	require.NoError(t, err)
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Failed, 2)
	assert.False(t, result.AllTooLarge())
	assert.Contains(t, result.Failed[0].Error, ErrInvalidFileType.Error())
}

func TestUploadStopsWhenBucketMissing(t *testing.T) {
	store := newFakeStore()
	store.err = ErrBucketNotFound
	store.failOn = "b.png"
	s := newPhotoService(store)
	caller := moderation.NewCaller(uuid.New(), moderation.RoleUser)

	result, err := s.UploadReviewPhotos(context.Background(), caller, fileHeaders(t,
		upload{name: "a.png", contentType: "image/png", size: 10},
		upload{name: "b.png", contentType: "image/png", size: 10},
		upload{name: "c.png", contentType: "image/png", size: 10},
	))
	assert.ErrorIs(t, err, ErrBucketNotFound)
	require.NotNil(t, result)
	assert.Len(t, result.Uploaded, 1)
	assert.Len(t, store.objects, 1)
}

func TestUploadKeepsGoingAfterStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection reset")
	store.failOn = "a.png"
	s := newPhotoService(store)
	caller := moderation.NewCaller(uuid.New(), moderation.RoleUser)

	result, err := s.UploadReviewPhotos(context.Background(), caller, fileHeaders(t,
		upload{name: "a.png", contentType: "image/png", size: 10},
		upload{name: "b.png", contentType: "image/png", size: 10},
	))
	require.NoError(t, err)
	assert.Len(t, result.Uploaded, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "a.png", result.Failed[0].FileName)
}

func TestUploadRequiresCallerAndFiles(t *testing.T) {
	s := newPhotoService(newFakeStore())

	_, err := s.UploadReviewPhotos(context.Background(), moderation.Anonymous(), nil)
	assert.ErrorIs(t, err, moderation.ErrUnauthenticated)

	_, err = s.UploadReviewPhotos(context.Background(), moderation.NewCaller(uuid.New(), moderation.RoleUser), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"room.jpg":             "room.jpg",
		"../../etc/passwd":     "passwd",
		`C:\photos\my pic.png`: "my-pic.png",
		"...":                  "photo",
		"héllo wörld.gif":      "h-llo-w-rld.gif",
		"":                     "photo",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), "input %q", in)
	}
}

func TestS3PublicURL(t *testing.T) {
	s, err := NewS3Service(&config.Config{
		S3Region:     "ap-south-1",
		S3BucketName: "review-photos",
		S3AccessKey:  "key",
		S3SecretKey:  "secret",
		S3Endpoint:   "http://localhost:9000/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/review-photos/u/1-a.jpg", s.publicURL("u/1-a.jpg"))

	s.endpoint = ""
	assert.Equal(t, "https://review-photos.s3.ap-south-1.amazonaws.com/u/1-a.jpg", s.publicURL("u/1-a.jpg"))
}
