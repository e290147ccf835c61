package spheredemo

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"golang.org/x/image/tiff"

	"github.com/gekko3d/spheredemo/effect"
)

// CaptureModule saves the procedural texture to TIFF files on request.
type CaptureModule struct {
	Dir string
}

// Capture copies the procedural texture back to the host. Request marks the
// next rendered frame; the file is written after that frame is submitted.
type Capture struct {
	Dir string
	// LastPath is the most recently written file.
	LastPath string

	pending     bool
	effect      effect.Effect
	buffer      *wgpu.Buffer
	bytesPerRow uint32
}

func (mod CaptureModule) Install(app *App, cmd *Commands) {
	gpuState, ok := Resource[GpuState](app)
	if !ok {
		panic("CaptureModule requires GpuModule")
	}
	tex, ok := Resource[ProceduralTexture](app)
	if !ok {
		panic("CaptureModule requires ProceduralTextureModule")
	}

	dir := mod.Dir
	if dir == "" {
		dir = "."
	}
	bytesPerRow := paddedBytesPerRow(tex.Resolution, proceduralTextureFormat)
	buffer, err := gpuState.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Capture Readback",
		Size:  uint64(bytesPerRow) * uint64(tex.Resolution),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	c := &Capture{Dir: dir, buffer: buffer, bytesPerRow: bytesPerRow}
	app.onCleanup(c.buffer.Release)

	cmd.AddResources(c)
	cmd.UseSystem(
		System(captureSystem).
			InStage(Render).
			RunAlways(),
	)
}

// Request captures the texture of e at the end of the next frame.
func (c *Capture) Request(e effect.Effect) {
	c.pending = true
	c.effect = e
}

func (c *Capture) Pending() bool {
	return c.pending
}

func captureSystem(c *Capture, tex *ProceduralTexture, gpuState *GpuState, frame *Frame, log Logger) {
	if !c.pending || !frame.Active {
		return
	}
	c.pending = false

	if err := c.record(frame.Encoder, tex.Texture, tex.Resolution); err != nil {
		log.Errorf("capture: %v", err)
		return
	}

	e := c.effect
	frame.AfterSubmit(func() {
		img, err := c.readback(gpuState, tex.Resolution)
		if err != nil {
			log.Errorf("capture readback: %v", err)
			return
		}
		path := captureFileName(c.Dir, e)
		if err := WriteTIFF(path, img); err != nil {
			log.Errorf("capture: %v", err)
			return
		}
		c.LastPath = path
		log.Infof("captured %s", path)
	})
}

// textureCopier is the part of *wgpu.CommandEncoder a capture records into.
type textureCopier interface {
	CopyTextureToBuffer(source *wgpu.ImageCopyTexture, destination *wgpu.ImageCopyBuffer, copySize *wgpu.Extent3D) error
}

// record encodes the texture to readback buffer copy. On error nothing is
// read back, so a rejected copy never produces a file.
func (c *Capture) record(enc textureCopier, texture *wgpu.Texture, resolution uint32) error {
	err := enc.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: c.buffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  c.bytesPerRow,
				RowsPerImage: resolution,
			},
		},
		&wgpu.Extent3D{Width: resolution, Height: resolution, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("copy %s texture: %w", c.effect, err)
	}
	return nil
}

// readback waits for the copy to land and decodes the half floats.
func (c *Capture) readback(gpuState *GpuState, resolution uint32) (*image.NRGBA64, error) {
	size := c.buffer.GetSize()
	var status wgpu.BufferMapAsyncStatus
	err := c.buffer.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, err
	}
	gpuState.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("map readback buffer: status %v", status)
	}
	defer c.buffer.Unmap()

	data := c.buffer.GetMappedRange(0, uint(size))
	return effect.DecodeRGBA16F(data, resolution, resolution, c.bytesPerRow)
}

func captureFileName(dir string, e effect.Effect) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.tiff", e, uuid.NewString()))
}

// WriteTIFF writes img as a deflate-compressed TIFF.
func WriteTIFF(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
