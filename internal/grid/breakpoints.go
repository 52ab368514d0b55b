package grid

import (
	"fmt"
	"sort"
)

// Breakpoint is a viewport width threshold and the column count used at or above it.
type Breakpoint struct {
	Name     string `json:"name" toml:"name"`
	MinWidth int    `json:"minWidth" toml:"minWidth"`
	Columns  int    `json:"columns" toml:"columns"`
}

// Breakpoints is ordered from the widest threshold to the narrowest.
type Breakpoints []Breakpoint

// DefaultBreakpoints returns the lg/md/sm/xs/xxs table used by the profile canvas.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		{Name: "lg", MinWidth: 1200, Columns: 4},
		{Name: "md", MinWidth: 996, Columns: 3},
		{Name: "sm", MinWidth: 768, Columns: 2},
		{Name: "xs", MinWidth: 480, Columns: 1},
		{Name: "xxs", MinWidth: 0, Columns: 1},
	}
}

// NewBreakpoints sorts and checks a breakpoint table. The narrowest entry must
// start at zero so that every width resolves.
func NewBreakpoints(in []Breakpoint) (Breakpoints, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("grid: no breakpoints")
	}
	bps := append(Breakpoints(nil), in...)
	sort.SliceStable(bps, func(i, j int) bool { return bps[i].MinWidth > bps[j].MinWidth })
	seen := make(map[string]struct{}, len(bps))
	for _, bp := range bps {
		if bp.Columns < 1 {
			return nil, fmt.Errorf("grid: breakpoint %q needs at least one column", bp.Name)
		}
		if _, dup := seen[bp.Name]; dup {
			return nil, fmt.Errorf("grid: duplicate breakpoint %q", bp.Name)
		}
		seen[bp.Name] = struct{}{}
	}
	if bps[len(bps)-1].MinWidth != 0 {
		return nil, fmt.Errorf("grid: narrowest breakpoint must start at width 0")
	}
	return bps, nil
}

// For returns the breakpoint that applies to a container width in pixels.
func (b Breakpoints) For(width int) Breakpoint {
	for _, bp := range b {
		if width >= bp.MinWidth {
			return bp
		}
	}
	if len(b) == 0 {
		return Breakpoint{Name: "default", Columns: 1}
	}
	return b[len(b)-1]
}

// Widest returns the breakpoint with the highest threshold; stored layouts use its columns.
func (b Breakpoints) Widest() Breakpoint {
	if len(b) == 0 {
		return Breakpoint{Name: "default", Columns: 1}
	}
	return b[0]
}
