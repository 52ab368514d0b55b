package grid

import "math"

const (
	DefaultRowHeight = 160
	DefaultMargin    = 16
)

// Metrics converts between pixels and cells for one container width. The
// container padding equals the margin, as in the canvas CSS.
type Metrics struct {
	ContainerWidth int
	Columns        int
	RowHeight      int
	MarginX        int
	MarginY        int
}

// PixelRect is a placement in container pixels.
type PixelRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewMetrics returns metrics with the default row height and margins.
func NewMetrics(containerWidth, columns int) Metrics {
	return Metrics{
		ContainerWidth: containerWidth,
		Columns:        max(columns, 1),
		RowHeight:      DefaultRowHeight,
		MarginX:        DefaultMargin,
		MarginY:        DefaultMargin,
	}
}

// ColumnWidth is the width of one cell in pixels.
func (m Metrics) ColumnWidth() float64 {
	cols := max(m.Columns, 1)
	w := float64(m.ContainerWidth-m.MarginX*(cols+1)) / float64(cols)
	return math.Max(w, 0)
}

// Rect returns the pixel rectangle of a placement.
func (m Metrics) Rect(p Placement) PixelRect {
	colW := m.ColumnWidth()
	return PixelRect{
		Left:   round((colW+float64(m.MarginX))*float64(p.X) + float64(m.MarginX)),
		Top:    round(float64(m.RowHeight+m.MarginY)*float64(p.Y) + float64(m.MarginY)),
		Width:  round(colW*float64(p.W) + float64(max(0, p.W-1)*m.MarginX)),
		Height: round(float64(m.RowHeight*p.H) + float64(max(0, p.H-1)*m.MarginY)),
	}
}

// CellAt returns the cell whose top-left corner is nearest to a pixel offset.
// Used to turn the end of a drag gesture into a grid position.
func (m Metrics) CellAt(left, top int) (x, y int) {
	colW := m.ColumnWidth()
	x = round(float64(left-m.MarginX) / (colW + float64(m.MarginX)))
	y = round(float64(top-m.MarginY) / float64(m.RowHeight+m.MarginY))
	return clamp(x, 0, max(m.Columns, 1)-1), max(y, 0)
}

// SizeFor returns the cell span nearest to a pixel size. Used to turn the end
// of a resize gesture into a span; callers still clamp it to the bounds.
func (m Metrics) SizeFor(width, height int) (w, h int) {
	colW := m.ColumnWidth()
	w = round(float64(width+m.MarginX) / (colW + float64(m.MarginX)))
	h = round(float64(height+m.MarginY) / float64(m.RowHeight+m.MarginY))
	return clamp(w, 1, max(m.Columns, 1)), max(h, 1)
}

func round(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
