package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// Recording writes frame_00000.png, frame_00001.png, ... into its
// directory and keeps metadata.json current.
type Recording struct {
	dir      string
	meta     RecordingMetadata
	created  bool
	finished bool
}

// Dir returns the recording directory.
func (r *Recording) Dir() string { return r.dir }

// Metadata returns a copy of the current metadata.
func (r *Recording) Metadata() RecordingMetadata { return r.meta }

// WriteFrame encodes buf as the next frame. Indices must arrive in order
// starting at zero. When the buffer is larger than the recording's
// Width x Height it is downscaled with a Catmull-Rom filter.
func (r *Recording) WriteFrame(index int, buf *fractal.PixelBuffer) error {
	if r.finished {
		return fmt.Errorf("recording %s already finished", r.meta.ID)
	}
	if index != r.meta.FramesWritten {
		return fmt.Errorf("%w: got frame %d, expected %d", fractal.ErrOutOfOrder, index, r.meta.FramesWritten)
	}
	if err := r.ensureDir(); err != nil {
		return err
	}

	path := filepath.Join(r.dir, FrameName(index))
	if err := SavePNG(path, r.scale(buf)); err != nil {
		return err
	}

	r.meta.FramesWritten++
	fractal.Logger().Debug("frame saved", "path", path)
	return r.writeMetadata()
}

// Finish records whether the sequence is complete. A sequence is only
// complete when every planned frame was written.
func (r *Recording) Finish(complete bool) error {
	if r.finished {
		return nil
	}
	r.finished = true
	if err := r.ensureDir(); err != nil {
		return err
	}
	r.meta.Complete = complete && (r.meta.FrameCount == 0 || r.meta.FramesWritten == r.meta.FrameCount)
	if !r.meta.Complete {
		fractal.Logger().Warn("recording incomplete", "dir", r.dir, "frames_written", r.meta.FramesWritten, "frame_count", r.meta.FrameCount)
	}
	return r.writeMetadata()
}

func (r *Recording) ensureDir() error {
	if r.created {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return err
	}
	r.created = true
	fractal.Logger().Info("recording directory created", "dir", r.dir)
	return nil
}

func (r *Recording) writeMetadata() error {
	return writeJSON(filepath.Join(r.dir, metadataFile), r.meta)
}

func (r *Recording) scale(buf *fractal.PixelBuffer) image.Image {
	w, h := r.meta.Width, r.meta.Height
	if w <= 0 || h <= 0 || (w == buf.Width && h == buf.Height) {
		return buf
	}
	return Downscale(buf, w, h)
}

// Downscale resamples src to w x h.
func Downscale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG encodes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
