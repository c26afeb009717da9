package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
)

const MaxPhotoSize = 5 << 20

var (
	ErrNoFiles         = errors.New("no files provided")
	ErrFileTooLarge    = errors.New("file exceeds the 5 MB limit")
	ErrInvalidFileType = errors.New("file is not a supported image")
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type UploadedPhoto struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

type FailedPhoto struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
	err      error
}

// PhotoUploadResult reports every file of a batch. Successful uploads are
// kept even when other files fail.
type PhotoUploadResult struct {
	Uploaded []UploadedPhoto `json:"uploaded"`
	Failed   []FailedPhoto   `json:"failed"`
}

// URLs lists the public URLs in upload order, ready for a review's photos.
func (r *PhotoUploadResult) URLs() []string {
	urls := make([]string, 0, len(r.Uploaded))
	for _, u := range r.Uploaded {
		urls = append(urls, u.URL)
	}
	return urls
}

// AllTooLarge reports whether every failure was a size violation.
func (r *PhotoUploadResult) AllTooLarge() bool {
	if len(r.Failed) == 0 {
		return false
	}
	for _, f := range r.Failed {
		if !errors.Is(f.err, ErrFileTooLarge) {
			return false
		}
	}
	return true
}

type PhotoService struct {
	store ObjectStore
	now   func() time.Time
}

func NewPhotoService(store ObjectStore) *PhotoService {
	return &PhotoService{store: store, now: time.Now}
}

// UploadReviewPhotos stores each file under the uploader's prefix. A bad file
// is recorded and skipped; a missing bucket aborts the batch.
func (s *PhotoService) UploadReviewPhotos(ctx context.Context, caller moderation.Caller, files []*multipart.FileHeader) (*PhotoUploadResult, error) {
	if !caller.Authenticated() {
		return nil, moderation.ErrUnauthenticated
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	result := &PhotoUploadResult{
		Uploaded: []UploadedPhoto{},
		Failed:   []FailedPhoto{},
	}
	for _, fh := range files {
		url, err := s.uploadOne(ctx, caller, fh)
		if errors.Is(err, ErrBucketNotFound) {
			return result, err
		}
		if err != nil {
			result.Failed = append(result.Failed, FailedPhoto{FileName: fh.Filename, Error: err.Error(), err: err})
			continue
		}
		result.Uploaded = append(result.Uploaded, UploadedPhoto{FileName: fh.Filename, URL: url})
	}
	return result, nil
}

func (s *PhotoService) uploadOne(ctx context.Context, caller moderation.Caller, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxPhotoSize {
		return "", ErrFileTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExtension(fh.Filename)
	}
	if !isValidImageType(contentType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// the header size is client supplied; enforce the limit on the bytes read
	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxPhotoSize {
		return "", ErrFileTooLarge
	}

	return s.store.Put(ctx, s.objectKey(caller, fh.Filename), contentType, bytes.NewReader(data))
}

// objectKey is unique per file even when a batch repeats a filename within
// the same millisecond.
func (s *PhotoService) objectKey(caller moderation.Caller, filename string) string {
	return fmt.Sprintf("%s/%d-%s-%s", caller.UserID, s.now().UnixMilli(), uuid.NewString(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "photo"
	}
	return name
}

func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}

	for _, validType := range validTypes {
		if strings.EqualFold(contentType, validType) {
			return true
		}
	}
	return false
}

func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
