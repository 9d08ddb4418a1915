// Thread-safe holder for the original and brickified images
package imageio

import (
	"fmt"
	"image"
	"sync"
)

// Metadata describes the currently loaded source image.
type Metadata struct {
	Path   string
	Width  int
	Height int
}

// Source owns the original image and the latest brickified result. The GUI
// reads from it on the UI thread while the pipeline writes from its run
// goroutine.
type Source struct {
	mu       sync.RWMutex
	original image.Image
	result   *image.RGBA
	meta     Metadata
}

func NewSource() *Source {
	return &Source{}
}

// SetOriginal installs a newly loaded image and drops any previous result.
func (s *Source) SetOriginal(img image.Image, path string) error {
	if img == nil {
		return fmt.Errorf("cannot set nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("invalid image dimensions: %dx%d", b.Dx(), b.Dy())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = img
	s.result = nil
	s.meta = Metadata{Path: path, Width: b.Dx(), Height: b.Dy()}
	return nil
}

// SetResult swaps in a finished brickified image, the plugin's "replace the
// original element" step.
func (s *Source) SetResult(img *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.original == nil {
		return fmt.Errorf("no original image loaded")
	}
	s.result = img
	return nil
}

func (s *Source) Original() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original
}

func (s *Source) Result() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Source) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original != nil
}

func (s *Source) Meta() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}
