package imageio

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 0, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestPlaceholderIsFixed(t *testing.T) {
	a := Placeholder()
	b := Placeholder()
	assert.Equal(t, PlaceholderSize, a.Rect.Dx())
	assert.Equal(t, PlaceholderSize, a.Rect.Dy())
	assert.Equal(t, a.Pix, b.Pix)
}

func TestLoadMissingFileReturnsPlaceholder(t *testing.T) {
	loader := NewLoader(quietLogger(), 0)
	img, err := loader.Load(filepath.Join(t.TempDir(), "nope.png"))

	require.Error(t, err)
	var loadErr *ImageLoadError
	assert.ErrorAs(t, err, &loadErr)
	require.NotNil(t, img)
	assert.Equal(t, PlaceholderSize, img.Bounds().Dx())
	assert.Equal(t, PlaceholderSize, img.Bounds().Dy())
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.webp")
	require.NoError(t, os.WriteFile(path, []byte("not really webp"), 0o644))

	loader := NewLoader(quietLogger(), 0)
	img, err := loader.Load(path)
	assert.Error(t, err)
	assert.Equal(t, PlaceholderSize, img.Bounds().Dx())
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, 64, 48)

	loader := NewLoader(quietLogger(), 0)
	img, err := loader.Load(src)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	out := filepath.Join(dir, "out.png")
	require.NoError(t, loader.Save(out, img))

	reloaded, err := loader.Load(out)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), reloaded.Bounds())
}

func TestLoadClampsOversizedInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	writePNG(t, src, 300, 100)

	loader := NewLoader(quietLogger(), 200)
	img, err := loader.Load(src)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	// Aspect ratio preserved.
	assert.InDelta(t, 66, img.Bounds().Dy(), 1)
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	loader := NewLoader(quietLogger(), 0)
	err := loader.Save(filepath.Join(t.TempDir(), "out.tiff"), Placeholder())
	assert.Error(t, err)
}

func TestSourceLifecycle(t *testing.T) {
	s := NewSource()
	assert.False(t, s.HasImage())
	assert.Error(t, s.SetResult(Placeholder()))

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	require.NoError(t, s.SetOriginal(img, "x.png"))
	assert.True(t, s.HasImage())
	assert.Equal(t, 10, s.Meta().Width)

	require.NoError(t, s.SetResult(Placeholder()))
	assert.NotNil(t, s.Result())

	// A new original drops the stale result.
	require.NoError(t, s.SetOriginal(img, "y.png"))
	assert.Nil(t, s.Result())
}
