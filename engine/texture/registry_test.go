package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	fail map[string]error
}

func (f fakeSource) Decode(path string) (common.TextureStagingData, error) {
	if err, ok := f.fail[filepath.Base(path)]; ok {
		return common.TextureStagingData{}, err
	}
	return common.TextureStagingData{Label: path, Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}}, nil
}

func TestInitializeUploadsInOrder(t *testing.T) {
	dev := gfx.NewRecordingDevice()
	ctx := gfx.NewContext(dev)
	r := NewRegistry("assets")

	require.NoError(t, r.Initialize(ctx, fakeSource{}))
	require.True(t, r.Initialized())
	require.Len(t, dev.Created, int(Count))

	for id := ID(0); id < Count; id++ {
		h := r.Handle(id)
		assert.Equal(t, dev.Created[id], h, id.String())
		tex := dev.Textures[h]
		assert.Equal(t, id.String(), tex.Staging.Label)
		assert.Equal(t, wgpu.FilterModeLinear, tex.Sampler.MinFilter)
		assert.Equal(t, wgpu.FilterModeLinear, tex.Sampler.MagFilter)
		assert.Equal(t, wgpu.AddressModeRepeat, tex.Sampler.AddressModeU)
		assert.Equal(t, wgpu.AddressModeRepeat, tex.Sampler.AddressModeV)
	}
	assert.Equal(t, gfx.TextureHandle(0), r.Handle(Count))
}

func TestInitializeFailsOnMissingFile(t *testing.T) {
	dev := gfx.NewRecordingDevice()
	ctx := gfx.NewContext(dev)
	r := NewRegistry("assets")
	missing := fmt.Errorf("%w: no such file", ErrDecode)

	err := r.Initialize(ctx, fakeSource{fail: map[string]error{"castle_walls.png": missing}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.Contains(t, err.Error(), "CastleWalls")
	assert.Contains(t, err.Error(), filepath.Join("assets", "castle_walls.png"))
	assert.False(t, r.Initialized())
	assert.Empty(t, dev.Created)
}

func TestInitializeReleasesOnUploadFailure(t *testing.T) {
	dev := gfx.NewRecordingDevice()
	dev.FailTextures["PavedMud"] = errors.New("out of memory")
	ctx := gfx.NewContext(dev)
	r := NewRegistry("assets")

	err := r.Initialize(ctx, fakeSource{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PavedMud")
	assert.Len(t, dev.Created, 2)
	assert.Empty(t, dev.Textures)
	assert.Equal(t, gfx.TextureHandle(0), r.Handle(Grass))
}

func TestInitializeTwice(t *testing.T) {
	ctx := gfx.NewContext(gfx.NewRecordingDevice())
	r := NewRegistry("assets")

	require.NoError(t, r.Initialize(ctx, fakeSource{}))
	assert.ErrorIs(t, r.Initialize(ctx, fakeSource{}), ErrAlreadyInitialized)
}

func TestRelease(t *testing.T) {
	dev := gfx.NewRecordingDevice()
	ctx := gfx.NewContext(dev)
	r := NewRegistry("assets")
	require.NoError(t, r.Initialize(ctx, fakeSource{}))

	r.Release(ctx)

	assert.Empty(t, dev.Textures)
	assert.Len(t, dev.Released, int(Count))
	assert.Equal(t, gfx.TextureHandle(0), r.Handle(CastleWalls))
}

func TestWithFile(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "stone.png")
	r := NewRegistry("assets", WithFile(CastleWalls, abs), WithFile(Grass, "turf.jpg"), WithFile(Count, "x.png"))

	assert.Equal(t, abs, r.Path(CastleWalls))
	assert.Equal(t, filepath.Join("assets", "turf.jpg"), r.Path(Grass))
	assert.Equal(t, "", r.Path(Count))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFileSourceFlipsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	writePNG(t, path)

	staged, err := FileSource{}.Decode(path)

	require.NoError(t, err)
	assert.Equal(t, uint32(2), staged.Width)
	assert.Equal(t, uint32(2), staged.Height)
	require.True(t, staged.Valid())
	// first stored row is the image's bottom (blue) row
	assert.Equal(t, []byte{0, 0, 255, 255}, staged.Pixels[0:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, staged.Pixels[8:12])
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(notImage, []byte("definitely not a picture"), 0o644))

	_, err := FileSource{}.Decode(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = FileSource{}.Decode(notImage)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestRegistryWithFileSource(t *testing.T) {
	dir := t.TempDir()
	for id := ID(0); id < Count; id++ {
		writePNG(t, filepath.Join(dir, DefaultFiles[id]))
	}
	dev := gfx.NewRecordingDevice()
	r := NewRegistry(dir, WithDecodeWorkers(2))

	require.NoError(t, r.Initialize(gfx.NewContext(dev), FileSource{}))
	assert.Len(t, dev.Textures, int(Count))

	require.NoError(t, os.Remove(filepath.Join(dir, DefaultFiles[MetalFence])))
	err := NewRegistry(dir).Initialize(gfx.NewContext(gfx.NewRecordingDevice()), FileSource{})
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "MetalFence")
}
