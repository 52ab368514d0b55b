package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
)

// DashboardRowHeight is the row height of the dashboard canvas.
const DashboardRowHeight = 180

// LayoutConfig holds the grid rules shared by the canvas and the editor.
type LayoutConfig struct {
	RowHeight int `toml:"rowHeight"`
	// RowHeights overrides RowHeight per layout kind.
	RowHeights       map[models.LayoutKind]int `toml:"rowHeights"`
	Margin           int                       `toml:"margin"`
	PreventCollision bool                      `toml:"preventCollision"`
	Bounds           grid.Bounds               `toml:"bounds"`
	Breakpoints      []grid.Breakpoint         `toml:"breakpoints"`
	SessionTTL       Duration                  `toml:"sessionTTL"`

	table grid.Breakpoints
}

func DefaultLayout() *LayoutConfig {
	bps := grid.DefaultBreakpoints()
	return &LayoutConfig{
		RowHeight:   grid.DefaultRowHeight,
		RowHeights:  map[models.LayoutKind]int{models.KindDashboard: DashboardRowHeight},
		Margin:      grid.DefaultMargin,
		Bounds:      grid.DefaultBounds,
		Breakpoints: bps,
		table:       bps,
	}
}

// LoadLayoutFromFile reads a layout file. An empty path yields the defaults.
func LoadLayoutFromFile(path string) (*LayoutConfig, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid config: %w", err)
	}
	defer f.Close()
	return LoadLayoutFromReader(f)
}

// LoadLayoutFromReader decodes TOML over the defaults and validates the result.
func LoadLayoutFromReader(r io.Reader) (*LayoutConfig, error) {
	cfg := DefaultLayout()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode grid config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("grid config: %w", err)
	}
	return cfg, nil
}

func (c *LayoutConfig) validate() error {
	b := c.Bounds
	if b.MinW < 1 || b.MinH < 1 || b.MaxW < b.MinW || b.MaxH < b.MinH {
		return fmt.Errorf("invalid bounds %+v", b)
	}
	if c.RowHeight < 1 {
		return fmt.Errorf("rowHeight must be positive")
	}
	for kind, h := range c.RowHeights {
		if !kind.Valid() {
			return fmt.Errorf("rowHeights: unknown layout kind %q", kind)
		}
		if h < 1 {
			return fmt.Errorf("rowHeights.%s must be positive", kind)
		}
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative")
	}
	table, err := grid.NewBreakpoints(c.Breakpoints)
	if err != nil {
		return err
	}
	c.table = table
	return nil
}

func (c *LayoutConfig) BreakpointTable() grid.Breakpoints { return c.table }

// Grid returns the grid at the widest breakpoint; stored layouts use that column count.
func (c *LayoutConfig) Grid() grid.Grid {
	return grid.Grid{
		Columns:          c.table.Widest().Columns,
		Bounds:           c.Bounds,
		PreventCollision: c.PreventCollision,
	}
}

// RowHeightFor returns the row height in pixels used by a layout kind.
func (c *LayoutConfig) RowHeightFor(kind models.LayoutKind) int {
	if h, ok := c.RowHeights[kind]; ok {
		return h
	}
	return c.RowHeight
}

// Metrics returns pixel metrics for a container width at its breakpoint.
func (c *LayoutConfig) Metrics(kind models.LayoutKind, containerWidth int) grid.Metrics {
	bp := c.table.For(containerWidth)
	m := grid.NewMetrics(containerWidth, bp.Columns)
	m.RowHeight = c.RowHeightFor(kind)
	m.MarginX, m.MarginY = c.Margin, c.Margin
	return m
}
