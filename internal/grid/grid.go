// Package grid places widgets on a fixed-column grid. Placement follows
// vertical compaction: every widget is pulled up as far as it can go without
// overlapping a widget that was placed before it.
package grid

import (
	"errors"
	"sort"

	"github.com/GregMSThompson/layout-backend/internal/models"
)

var (
	ErrUnknownWidget = errors.New("grid: unknown widget id")
	ErrCollision     = errors.New("grid: placement overlaps another widget")
)

// Bounds limits the span of a single widget in cells.
type Bounds struct {
	MinW int `json:"minW" toml:"minW"`
	MinH int `json:"minH" toml:"minH"`
	MaxW int `json:"maxW" toml:"maxW"`
	MaxH int `json:"maxH" toml:"maxH"`
}

// DefaultBounds are the span limits used by the profile and dashboard editors.
var DefaultBounds = Bounds{MinW: 1, MinH: 1, MaxW: 4, MaxH: 4}

// Placement is the resolved cell rectangle of one widget.
type Placement struct {
	ID string `json:"i"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`
}

// Bottom is the first row below the placement.
func (p Placement) Bottom() int { return p.Y + p.H }

// Collides reports whether two placements share at least one cell. Ids are
// not compared; callers skip the placement itself by index.
func Collides(a, b Placement) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// Grid is a column count plus the rules applied to placements on it.
type Grid struct {
	Columns int
	Bounds  Bounds

	// PreventCollision rejects moves and resizes that would overlap another
	// widget. Off by default: overlaps persist until the next compaction.
	PreventCollision bool
}

// New returns a grid with the default bounds.
func New(columns int) Grid {
	if columns < 1 {
		columns = 1
	}
	return Grid{Columns: columns, Bounds: DefaultBounds}
}

// ClampSize fits a size into the bounds and the column count.
func (g Grid) ClampSize(s models.Size) models.Size {
	b := g.bounds()
	maxW := min(b.MaxW, g.columns())
	s.W = clamp(s.W, min(b.MinW, maxW), maxW)
	s.H = clamp(s.H, b.MinH, b.MaxH)
	return s
}

// ComputeLayout resolves every widget to a non-overlapping placement. Settled
// widgets are compacted in row-then-column order; pending widgets follow in
// insertion order. The result is in the same order as widgets.
func (g Grid) ComputeLayout(widgets []models.Widget) []Placement {
	cols := g.columns()
	order := make([]int, 0, len(widgets))
	var pending []int
	for i, w := range widgets {
		if w.Position.Pending {
			pending = append(pending, i)
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := widgets[order[a]].Position, widgets[order[b]].Position
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return pa.X < pb.X
	})
	order = append(order, pending...)

	out := make([]Placement, len(widgets))
	placed := make([]Placement, 0, len(widgets))
	for _, idx := range order {
		w := widgets[idx]
		size := g.ClampSize(w.Size)
		p := Placement{ID: w.ID, W: size.W, H: size.H}
		p.X = clamp(w.Position.X, 0, cols-p.W)
		if w.Position.Pending {
			p.Y = bottom(placed)
		} else {
			p.Y = min(max(w.Position.Y, 0), bottom(placed))
		}
		p = compactItem(placed, p)
		placed = append(placed, p)
		out[idx] = p
	}
	return out
}

// Compact returns a copy of widgets with positions and sizes taken from
// ComputeLayout. No widget is pending afterwards.
func (g Grid) Compact(widgets []models.Widget) []models.Widget {
	out := models.CloneWidgets(widgets)
	for i, p := range g.ComputeLayout(widgets) {
		out[i].Position = models.Position{X: p.X, Y: p.Y}
		out[i].Size = models.Size{W: p.W, H: p.H}
	}
	return out
}

// Placements reads the current positions without compacting. Pending widgets
// are reported one row below everything else.
func Placements(widgets []models.Widget) []Placement {
	out := make([]Placement, len(widgets))
	deepest := 0
	for _, w := range widgets {
		if !w.Position.Pending {
			deepest = max(deepest, w.Position.Y+w.Size.H)
		}
	}
	for i, w := range widgets {
		y := w.Position.Y
		if w.Position.Pending {
			y = deepest
		}
		out[i] = Placement{ID: w.ID, X: w.Position.X, Y: y, W: w.Size.W, H: w.Size.H}
	}
	return out
}

// Overlaps lists pairs of widget ids whose placements share cells.
func Overlaps(placements []Placement) [][2]string {
	var out [][2]string
	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			if Collides(placements[i], placements[j]) {
				out = append(out, [2]string{placements[i].ID, placements[j].ID})
			}
		}
	}
	return out
}

func compactItem(placed []Placement, p Placement) Placement {
	for p.Y > 0 {
		p.Y--
		if firstCollision(placed, p) >= 0 {
			p.Y++
			break
		}
	}
	for {
		hit := firstCollision(placed, p)
		if hit < 0 {
			return p
		}
		p.Y = placed[hit].Bottom()
	}
}

func firstCollision(placed []Placement, p Placement) int {
	for i, other := range placed {
		if Collides(other, p) {
			return i
		}
	}
	return -1
}

func bottom(placed []Placement) int {
	b := 0
	for _, p := range placed {
		b = max(b, p.Bottom())
	}
	return b
}

func (g Grid) columns() int {
	if g.Columns < 1 {
		return 1
	}
	return g.Columns
}

func (g Grid) bounds() Bounds {
	if g.Bounds == (Bounds{}) {
		return DefaultBounds
	}
	return g.Bounds
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
