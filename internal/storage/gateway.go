package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Class selects the validation profile for an upload.
type Class string

const (
	ClassImage    Class = "image"
	ClassDocument Class = "document"
)

const (
	MaxImageSize    = 5 * 1024 * 1024
	MaxDocumentSize = 10 * 1024 * 1024
)

// Upload namespaces, one per content kind. They become key prefixes, so each
// kind's files live under their own directory/bucket prefix.
const (
	NamespaceLostFound   = "lostfound"
	NamespaceMarketplace = "marketplace"
	NamespaceNotes       = "notes"
)

var validNamespaces = map[string]bool{
	NamespaceLostFound:   true,
	NamespaceMarketplace: true,
	NamespaceNotes:       true,
}

type classProfile struct {
	maxSize int64
	exts    map[string]bool
	mimes   map[string]bool
}

var classProfiles = map[Class]classProfile{
	ClassImage: {
		maxSize: MaxImageSize,
		exts:    map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true},
		mimes: map[string]bool{
			"image/jpeg": true,
			"image/jpg":  true,
			"image/png":  true,
			"image/gif":  true,
		},
	},
	ClassDocument: {
		maxSize: MaxDocumentSize,
		exts: map[string]bool{
			".pdf": true, ".doc": true, ".docx": true, ".ppt": true,
			".pptx": true, ".xls": true, ".xlsx": true, ".txt": true,
		},
		mimes: map[string]bool{
			"application/pdf":    true,
			"application/msword": true,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
			"application/vnd.ms-powerpoint":                                             true,
			"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
			"application/vnd.ms-excel": true,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
			"text/plain": true,
		},
	},
}

// Gateway validates uploads and hands them to the configured blob store.
// Validation runs before any byte reaches the store, so a rejected upload
// never leaves a partial file behind.
type Gateway struct {
	store BlobStore
}

func NewGateway(store BlobStore) *Gateway {
	return &Gateway{store: store}
}

// MaxSize returns the size bound for the class; callers use it to cap the
// multipart read buffer before handing bytes to Store.
func MaxSize(class Class) int64 {
	return classProfiles[class].maxSize
}

// Store validates the buffered upload against the class profile and writes it
// under a fresh key inside namespace. Both the file extension and the
// declared MIME type must match the profile.
func (g *Gateway) Store(ctx context.Context, namespace, declaredFilename, declaredMIME string, class Class, data []byte) (*FileReference, error) {
	if !validNamespaces[namespace] {
		return nil, ErrUnknownNamespace
	}
	profile, ok := classProfiles[class]
	if !ok {
		return nil, fmt.Errorf("unknown upload class %q", class)
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > profile.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(declaredFilename))
	mime := strings.ToLower(strings.Split(declaredMIME, ";")[0])
	if !profile.exts[ext] || !profile.mimes[mime] {
		return nil, ErrUnsupportedFileType
	}

	// The uuid keeps keys collision-free even for identical filenames
	// uploaded in the same instant.
	id := uuid.NewString()
	key := fmt.Sprintf("%s/%s-%s%s", namespace, id, sanitizeName(declaredFilename), ext)

	url, err := g.store.Save(ctx, key, mime, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &FileReference{
		ID:          id,
		Key:         key,
		URL:         url,
		Size:        int64(len(data)),
		ContentType: mime,
	}, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}
