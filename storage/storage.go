package storage

import (
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImageStore persists uploaded images and returns a reference that can be
// served back to the browser.
type ImageStore interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

var ErrUnsupportedImage = errors.New("unsupported image type")

// imageExtensions is the set of image types accepted for upload. SVG is left
// out because browsers run scripts embedded in it.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension reports the stored extension for contentType and whether
// the type is accepted at all.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// DetectImage sniffs the leading bytes of r and returns the image type they
// hold. Declared content types and file names are never trusted.
func DetectImage(r io.Reader) (string, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", errors.Wrap(err, "could not read image data")
	}
	contentType := mtype.String()
	if _, ok := imageExtensions[contentType]; !ok {
		return "", errors.Wrapf(ErrUnsupportedImage, "detected %s", contentType)
	}
	return contentType, nil
}

// objectName builds a collision-free name whose extension follows the
// image type.
func objectName(contentType string) (string, error) {
	ext, ok := ImageExtension(contentType)
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedImage, "content type %q", contentType)
	}
	return uuid.NewString() + ext, nil
}
