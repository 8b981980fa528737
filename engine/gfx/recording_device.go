package gfx

import (
	"fmt"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/go-gl/mathgl/mgl32"
)

// RecordedTexture is a texture created on a RecordingDevice.
type RecordedTexture struct {
	Staging common.TextureStagingData
	Sampler common.SamplerStagingData
}

// RecordedFrame holds every draw issued between BeginFrame and EndFrame.
type RecordedFrame struct {
	Clear mgl32.Vec4
	Draws []DrawCommand
}

// RecordingDevice is a Device that keeps everything in memory. It backs headless runs and tests.
type RecordingDevice struct {
	// Textures maps live handles to their creation data.
	Textures map[TextureHandle]RecordedTexture
	// Created lists handles in creation order, including released ones.
	Created []TextureHandle
	// Released lists handles in release order.
	Released []TextureHandle
	// Frames lists every completed frame.
	Frames []RecordedFrame

	// FailTextures makes CreateTexture fail for textures with a matching label.
	FailTextures map[string]error

	Width, Height int

	next    TextureHandle
	current *RecordedFrame
}

var _ Device = &RecordingDevice{}

// NewRecordingDevice creates an empty RecordingDevice.
//
// Returns:
//   - *RecordingDevice: the device
func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{
		Textures:     make(map[TextureHandle]RecordedTexture),
		FailTextures: make(map[string]error),
	}
}

func (d *RecordingDevice) BeginFrame(clear mgl32.Vec4) error {
	if d.current != nil {
		return fmt.Errorf("previous frame not ended")
	}
	d.current = &RecordedFrame{Clear: clear}
	return nil
}

func (d *RecordingDevice) Draw(cmd DrawCommand) {
	if d.current == nil {
		return
	}
	d.current.Draws = append(d.current.Draws, cmd)
}

func (d *RecordingDevice) EndFrame() error {
	if d.current == nil {
		return ErrNoFrame
	}
	d.Frames = append(d.Frames, *d.current)
	d.current = nil
	return nil
}

func (d *RecordingDevice) CreateTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (TextureHandle, error) {
	if err, ok := d.FailTextures[staging.Label]; ok {
		return 0, err
	}
	d.next++
	d.Textures[d.next] = RecordedTexture{Staging: staging, Sampler: sampler}
	d.Created = append(d.Created, d.next)
	return d.next, nil
}

func (d *RecordingDevice) ReleaseTexture(h TextureHandle) {
	if _, ok := d.Textures[h]; !ok {
		return
	}
	delete(d.Textures, h)
	d.Released = append(d.Released, h)
}

func (d *RecordingDevice) Resize(width, height int) {
	d.Width = width
	d.Height = height
}

func (d *RecordingDevice) Release() {
	for h := range d.Textures {
		d.ReleaseTexture(h)
	}
}

// LastFrame returns the most recently completed frame.
//
// Returns:
//   - RecordedFrame: the frame, or the zero frame if none completed
func (d *RecordingDevice) LastFrame() RecordedFrame {
	if len(d.Frames) == 0 {
		return RecordedFrame{}
	}
	return d.Frames[len(d.Frames)-1]
}

// DrawsOf returns the draws of the last frame whose mesh label matches.
//
// Parameters:
//   - label: the mesh label
//
// Returns:
//   - []DrawCommand: the matching draws in issue order
func (d *RecordingDevice) DrawsOf(label string) []DrawCommand {
	var out []DrawCommand
	for _, cmd := range d.LastFrame().Draws {
		if cmd.Mesh != nil && cmd.Mesh.Label == label {
			out = append(out, cmd)
		}
	}
	return out
}
