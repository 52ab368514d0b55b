package grid

import (
	"github.com/GregMSThompson/layout-backend/internal/models"
)

// ApplyMove moves one widget to pos, keeping it inside the columns. Other
// widgets are not touched, so the result may contain overlaps unless
// PreventCollision is set, in which case an overlapping move fails.
func (g Grid) ApplyMove(widgets []models.Widget, id string, pos models.Position) ([]models.Widget, error) {
	out := models.CloneWidgets(widgets)
	i := models.FindWidget(out, id)
	if i < 0 {
		return nil, ErrUnknownWidget
	}
	w := &out[i]
	w.Size = g.ClampSize(w.Size)
	if pos.Pending {
		w.Position = models.Position{X: clamp(pos.X, 0, g.columns()-w.Size.W), Pending: true}
		return out, nil
	}
	w.Position = models.Position{
		X: clamp(pos.X, 0, g.columns()-w.Size.W),
		Y: max(pos.Y, 0),
	}
	if g.PreventCollision && g.collides(out, i) {
		return nil, ErrCollision
	}
	return out, nil
}

// ApplyResize sets one widget's span, clamped to the bounds. A widget that
// would run past the last column is shifted left.
func (g Grid) ApplyResize(widgets []models.Widget, id string, size models.Size) ([]models.Widget, error) {
	out := models.CloneWidgets(widgets)
	i := models.FindWidget(out, id)
	if i < 0 {
		return nil, ErrUnknownWidget
	}
	w := &out[i]
	w.Size = g.ClampSize(size)
	if w.Position.X+w.Size.W > g.columns() {
		w.Position.X = g.columns() - w.Size.W
	}
	w.Position.X = max(w.Position.X, 0)
	if g.PreventCollision && g.collides(out, i) {
		return nil, ErrCollision
	}
	return out, nil
}

// RemapForBreakpoint recomputes positions for a different column count.
// Stored x offsets are not trusted because they may exceed the new width.
func (g Grid) RemapForBreakpoint(widgets []models.Widget, columns int) []models.Widget {
	target := g
	target.Columns = max(columns, 1)
	return target.Compact(widgets)
}

func (g Grid) collides(widgets []models.Widget, idx int) bool {
	w := widgets[idx]
	if w.Position.Pending {
		return false
	}
	p := Placement{ID: w.ID, X: w.Position.X, Y: w.Position.Y, W: w.Size.W, H: w.Size.H}
	for j, other := range widgets {
		if j == idx || other.Position.Pending {
			continue
		}
		q := Placement{ID: other.ID, X: other.Position.X, Y: other.Position.Y, W: other.Size.W, H: other.Size.H}
		if Collides(p, q) {
			return true
		}
	}
	return false
}
