package viz

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fraczoom/internal/fractal"
)

const halfBlock = "▀"

// Canvas shows a pixel buffer in the terminal. Every cell covers two
// vertically stacked pixels: the upper one is the foreground of a half
// block and the lower one the cell background.
type Canvas struct {
	mu    sync.RWMutex
	lines []string
	w, h  int
}

func NewCanvas() *Canvas {
	return &Canvas{}
}

// PixelSize returns the buffer resolution that fills cols x rows cells.
func PixelSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// CellToPixel maps a terminal cell to the pixel under its center.
func CellToPixel(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row*2) + 1
}

// Present implements fractal.DisplaySink.
func (c *Canvas) Present(buf *fractal.PixelBuffer) {
	lines := Rasterize(buf)
	c.mu.Lock()
	c.lines = lines
	c.w, c.h = buf.Width, buf.Height
	c.mu.Unlock()
}

// Size returns the pixel size of the last presented frame.
func (c *Canvas) Size() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.w, c.h
}

func (c *Canvas) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.Join(c.lines, "\n")
}

// Rasterize converts buf into one styled line per pair of pixel rows.
// Runs of cells with the same colors share a single style.
func Rasterize(buf *fractal.PixelBuffer) []string {
	rows := (buf.Height + 1) / 2
	lines := make([]string, 0, rows)
	for cy := 0; cy < rows; cy++ {
		top, bottom := 2*cy, 2*cy+1
		hasBottom := bottom < buf.Height

		var sb strings.Builder
		runStart := 0
		flush := func(end int) {
			fg := buf.RGB(runStart, top)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(fg)))
			if hasBottom {
				style = style.Background(lipgloss.Color(Hex(buf.RGB(runStart, bottom))))
			}
			sb.WriteString(style.Render(strings.Repeat(halfBlock, end-runStart)))
		}
		for x := 1; x < buf.Width; x++ {
			same := buf.RGB(x, top) == buf.RGB(runStart, top)
			if hasBottom {
				same = same && buf.RGB(x, bottom) == buf.RGB(runStart, bottom)
			}
			if !same {
				flush(x)
				runStart = x
			}
		}
		flush(buf.Width)
		lines = append(lines, sb.String())
	}
	return lines
}

// Hex formats c as #rrggbb.
func Hex(c fractal.ColorRGB) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

var _ fractal.DisplaySink = (*Canvas)(nil)
