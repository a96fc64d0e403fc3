package fractal

import (
	"errors"
	"testing"
)

func TestNewPixelBuffer(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		wantOK bool
	}{
		{"normal", 8, 4, true},
		{"zero width", 0, 4, false},
		{"zero height", 8, 0, false},
		{"negative", -1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewPixelBuffer(tt.w, tt.h)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(buf.Pix) != tt.w*tt.h {
					t.Errorf("expected %d pixels, got %d", tt.w*tt.h, len(buf.Pix))
				}
				return
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestPixelBuffer_SetAndImage(t *testing.T) {
	buf, err := NewPixelBuffer(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	c := ColorRGB{R: 10, G: 20, B: 30}
	buf.Set(2, 1, c)
	buf.Set(5, 5, c)

	if buf.Pix[5] != c {
		t.Errorf("expected row-major slot 5 to hold %v, got %v", c, buf.Pix[5])
	}
	if buf.RGB(9, 9) != Black {
		t.Error("expected black outside the buffer")
	}

	img := buf.RGBA()
	got := img.RGBAAt(2, 1)
	if got.R != 10 || got.G != 20 || got.B != 30 || got.A != 255 {
		t.Errorf("unexpected RGBA pixel %v", got)
	}

	r, _, _, a := c.RGBA()
	if r != 10*0x101 || a != 0xffff {
		t.Errorf("unexpected color.Color conversion r=%d a=%d", r, a)
	}
}

func TestPixelBuffer_Equal(t *testing.T) {
	a, _ := NewPixelBuffer(2, 2)
	b, _ := NewPixelBuffer(2, 2)
	if !a.Equal(b) {
		t.Error("expected equal buffers")
	}
	b.Set(0, 0, ColorRGB{R: 1})
	if a.Equal(b) {
		t.Error("expected different buffers")
	}
	c, _ := NewPixelBuffer(4, 1)
	if a.Equal(c) {
		t.Error("expected size mismatch to compare unequal")
	}
}

func TestFrameError(t *testing.T) {
	err := error(&FrameError{Index: 7, Wrapped: ErrSinkFailed})
	if !errors.Is(err, ErrSinkFailed) {
		t.Error("expected FrameError to unwrap")
	}
	var fe *FrameError
	if !errors.As(err, &fe) || fe.Index != 7 {
		t.Errorf("expected frame index 7, got %+v", fe)
	}
}
