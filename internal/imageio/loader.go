// Image loading and saving
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	_ "image/gif"
)

// ImageLoadError reports a source image that could not be read. Callers
// receive the fixed broken-image placeholder alongside it so they always
// have something with dimensions to show.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// Loader handles image file operations.
type Loader struct {
	logger *logrus.Logger

	// MaxWidth clamps oversized inputs before the pipeline sees them.
	// 0 disables the clamp.
	MaxWidth int
}

func NewLoader(logger *logrus.Logger, maxWidth int) *Loader {
	return &Loader{logger: logger, MaxWidth: maxWidth}
}

// Load reads and decodes an image file. On failure it returns the 34x34
// broken-image placeholder together with an *ImageLoadError.
func (l *Loader) Load(path string) (image.Image, error) {
	if !isSupportedFormat(path) {
		l.logger.WithField("path", path).Warn("Unsupported image format")
		return Placeholder(), &ImageLoadError{Path: path, Err: fmt.Errorf("unsupported format")}
	}

	f, err := os.Open(path)
	if err != nil {
		l.logger.WithError(err).WithField("path", path).Warn("Cannot open image")
		return Placeholder(), &ImageLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		l.logger.WithError(err).WithField("path", path).Warn("Cannot decode image")
		return Placeholder(), &ImageLoadError{Path: path, Err: err}
	}

	if l.MaxWidth > 0 && img.Bounds().Dx() > l.MaxWidth {
		l.logger.WithFields(logrus.Fields{
			"path":  path,
			"width": img.Bounds().Dx(),
			"max":   l.MaxWidth,
		}).Info("Downscaling oversized input")
		img = resize.Resize(uint(l.MaxWidth), 0, img, resize.Lanczos3)
	}

	l.logger.WithFields(logrus.Fields{
		"path":   path,
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("Image loaded")

	return img, nil
}

// Save writes img as PNG or JPEG depending on the file extension.
func (l *Loader) Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	default:
		err = fmt.Errorf("unsupported output format %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("Image saved")
	return nil
}

func isSupportedFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
