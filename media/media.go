// Package media validates uploaded images and stores them on an object store.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted upload.
const MaxFileSize = 5 << 20

// Folders used for featured images.
const (
	FolderPosts        = "blog-posts"
	FolderPublications = "blog-publications"
)

// sniffLen is how much of the body is read to detect its content type.
const sniffLen = 3072

// AllowedTypes lists the accepted image MIME types.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Messages reported to callers for rejected or failed uploads.
const (
	MsgTooLarge     = "File size exceeds 5MB limit"
	MsgBadType      = "Only JPEG, PNG, WEBP, and GIF images are allowed"
	MsgUploadFailed = "Failed to upload featured image"
)

// File is an uploaded file as received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores a file under folder and returns a durable URL for it.
type Uploader interface {
	Upload(ctx context.Context, folder string, f File) (string, error)
}

// Guard enforces the size limit and the image allow-list. The declared type
// must be allowed and must agree with the type sniffed from the content. The
// returned File has an unread Body and the sniffed ContentType.
func Guard(f File) (File, error) {
	if f.Size > MaxFileSize {
		return f, inkwell.NewError(inkwell.KindUpload, MsgTooLarge)
	}
	if !allowed(f.ContentType) {
		return f, inkwell.NewError(inkwell.KindUpload, MsgBadType)
	}
	if f.Body == nil {
		return f, inkwell.NewError(inkwell.KindUpload, MsgUploadFailed)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return f, &inkwell.Error{Kind: inkwell.KindUpload, Message: MsgUploadFailed, Err: err}
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !allowed(detected.String()) || !detected.Is(f.ContentType) {
		return f, inkwell.NewError(inkwell.KindUpload, MsgBadType)
	}

	f.ContentType = detected.String()
	f.Body = io.MultiReader(bytes.NewReader(head), f.Body)
	return f, nil
}

// Upload guards f and hands it to u. Any backend failure is reported as
// MsgUploadFailed with the cause attached.
func Upload(ctx context.Context, u Uploader, folder string, f File) (string, error) {
	f, err := Guard(f)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", inkwell.NewError(inkwell.KindUpload, MsgUploadFailed)
	}

	url, err := u.Upload(ctx, folder, f)
	if err != nil {
		return "", &inkwell.Error{Kind: inkwell.KindUpload, Message: MsgUploadFailed, Err: err}
	}
	if url == "" {
		return "", inkwell.NewError(inkwell.KindUpload, MsgUploadFailed)
	}
	return url, nil
}

// ObjectKey builds the storage key <folder>/<yyyy>/<mm>/<uuid><ext>.
func ObjectKey(folder string, f File, at time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s%s", folder, at.Year(), at.Month(), uuid.New().String(), extension(f))
}

func extension(f File) string {
	if ext := strings.ToLower(filepath.Ext(f.Name)); ext != "" {
		return ext
	}
	if m := mimetype.Lookup(f.ContentType); m != nil {
		return m.Extension()
	}
	return ""
}

func allowed(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, a := range AllowedTypes {
		if ct == a {
			return true
		}
	}
	return false
}
