package dto

import (
	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
)

// SaveLayoutRequest is the PATCH body of a layout: { "layout": { "widgets": [...] } }.
type SaveLayoutRequest struct {
	Layout *models.Layout `json:"layout"`
}

type OpenSessionRequest struct {
	Kind models.LayoutKind `json:"kind"`
	ID   string            `json:"id"`
}

type AddWidgetRequest struct {
	Type string `json:"type"`
}

type UpdateConfigRequest struct {
	Config models.Config `json:"config"`
}

// LayoutChangedRequest carries the placements reported by the client grid
// after a drag or resize gesture.
type LayoutChangedRequest struct {
	Placements []grid.Placement `json:"placements"`
}

// MoveRequest moves one widget, either to a cell or to the cell nearest to a
// pixel offset. A null y sends it to the end of the layout.
type MoveRequest struct {
	Position *models.Position `json:"position,omitempty"`
	Pixels   *PixelOffset     `json:"pixels,omitempty"`
}

// ResizeRequest sets a widget's span in cells or from a pixel size.
type ResizeRequest struct {
	Size   *models.Size `json:"size,omitempty"`
	Pixels *PixelSize   `json:"pixels,omitempty"`
}

// PixelOffset is the top-left corner of a dragged widget inside its container.
type PixelOffset struct {
	Left           int `json:"left"`
	Top            int `json:"top"`
	ContainerWidth int `json:"containerWidth"`
}

// PixelSize is the size of a resized widget inside its container.
type PixelSize struct {
	Width          int `json:"width"`
	Height         int `json:"height"`
	ContainerWidth int `json:"containerWidth"`
}

type WidgetTypesResponse struct {
	Scope   models.LayoutKind `json:"scope,omitempty"`
	Widgets any               `json:"widgets"`
}
