// ABOUTME: Disk-backed blob storage for uploaded videos and images
// ABOUTME: Saves uploads under per-kind directories with random filenames

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage errors
var (
	ErrTooLarge      = errors.New("upload exceeds size limit")
	ErrEmptyUpload   = errors.New("upload is empty")
	ErrUnsupported   = errors.New("unsupported file type")
	ErrUnknownKind   = errors.New("unknown media kind")
	ErrBlobNotFound  = errors.New("blob not found")
	ErrInvalidTarget = errors.New("invalid blob path")
)

// Kind names the upload categories. Each kind gets its own subdirectory and
// its own set of allowed extensions.
type Kind string

const (
	KindVideo     Kind = "videos"
	KindThumbnail Kind = "thumbnails"
	KindAvatar    Kind = "avatars"
	KindCover     Kind = "covers"
)

// allowedExts maps each kind to the file extensions it accepts.
var allowedExts = map[Kind]map[string]bool{
	KindVideo:     {".mp4": true, ".webm": true, ".mov": true, ".mkv": true},
	KindThumbnail: {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	KindAvatar:    {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	KindCover:     {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
}

// Blob describes a stored upload.
type Blob struct {
	URL         string
	Path        string
	Size        int64
	ContentType string
}

// Store writes uploads to a directory tree and serves them back over HTTP.
type Store struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

// NewStore creates a media store rooted at dir. Stored blobs are addressed
// as baseURL/<kind>/<name>. maxBytes caps a single upload.
func NewStore(dir, baseURL string, maxBytes int64) (*Store, error) {
	for _, kind := range []Kind{KindVideo, KindThumbnail, KindAvatar, KindCover} {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("creating media directory: %w", err)
		}
	}
	return &Store{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   slog.Default().With("component", "media"),
	}, nil
}

// Save streams an upload to disk under a fresh random name and returns the
// stored blob. The original filename contributes only its extension.
func (s *Store) Save(ctx context.Context, kind Kind, filename string, r io.Reader) (*Blob, error) {
	exts, ok := allowedExts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !exts[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.dir, string(kind), name)

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("creating blob file: %w", err)
	}

	// Read one byte past the limit so oversize uploads are detected without
	// buffering the whole body.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("writing blob: %w", err)
	}
	if written == 0 {
		os.Remove(dst)
		return nil, ErrEmptyUpload
	}
	if written > s.maxBytes {
		os.Remove(dst)
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxBytes)
	}

	if err := ctx.Err(); err != nil {
		os.Remove(dst)
		return nil, err
	}

	s.logger.Debug("blob stored", "kind", kind, "name", name, "bytes", written)
	return &Blob{
		URL:         s.baseURL + "/" + string(kind) + "/" + name,
		Path:        dst,
		Size:        written,
		ContentType: contentTypeFor(ext),
	}, nil
}

// Remove deletes a previously stored blob by its public URL. Unknown URLs
// are ignored so callers can fire and forget during replacement.
func (s *Store) Remove(blobURL string) error {
	if blobURL == "" || !strings.HasPrefix(blobURL, s.baseURL+"/") {
		return nil
	}
	rel := strings.TrimPrefix(blobURL, s.baseURL+"/")
	// Reject anything that walks outside the media root.
	if rel != path.Clean(rel) || strings.Contains(rel, "..") {
		return ErrInvalidTarget
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.Remove(dst); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}

// Dir returns the root directory blobs are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// contentTypeFor returns the MIME type for a file extension, falling back to
// the standard library's database then to octet-stream.
func contentTypeFor(ext string) string {
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
