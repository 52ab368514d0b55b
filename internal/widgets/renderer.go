package widgets

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/layout-backend/internal/models"
)

// Input is everything a renderer may look at for one widget.
type Input struct {
	Widget   models.Widget
	Feeds    models.Feeds
	IsOwner  bool
	EditMode bool
	// Now anchors date-based widgets; zero means the current time.
	Now time.Time
}

func (in Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now().UTC()
	}
	return in.Now.UTC()
}

// Output is the rendered content of a widget, without the surrounding chrome.
type Output struct {
	Title string `json:"title"`
	Body  any    `json:"body,omitempty"`
}

// Renderer turns one widget instance into displayable content. A *ConfigError
// means the widget's own config is unusable; the canvas shows it inline.
type Renderer interface {
	Render(in Input) (Output, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(in Input) (Output, error)

func (f RendererFunc) Render(in Input) (Output, error) { return f(in) }

// ConfigError reports a widget config that fails the widget's own validation.
type ConfigError struct {
	WidgetType string
	Field      string
	Message    string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s widget: %s", e.WidgetType, e.Message)
	}
	return fmt.Sprintf("%s widget: config.%s: %s", e.WidgetType, e.Field, e.Message)
}

func newConfigError(widgetType, field, message string) *ConfigError {
	return &ConfigError{WidgetType: widgetType, Field: field, Message: message}
}

func genericRenderer(d Descriptor) Renderer {
	return RendererFunc(func(in Input) (Output, error) {
		return Output{Title: d.Name, Body: in.Widget.Config}, nil
	})
}

func builtinRenderers() map[string]Renderer {
	return map[string]Renderer{
		TypeTasks:          RendererFunc(renderTasks),
		TypeHabitStreak:    RendererFunc(renderHabitStreak),
		TypeStreakShowcase: RendererFunc(renderStreakShowcase),
		TypeHabitGraph:     RendererFunc(renderHabitGraph),
		TypeInterests:      RendererFunc(renderInterests),
		TypeImage:          RendererFunc(renderImage),
		TypeText:           RendererFunc(renderText),
		TypeGoals:          RendererFunc(renderGoals),
		TypeStats:          RendererFunc(renderStats),
		TypeTodaysFocus:    RendererFunc(renderTodaysFocus),
		TypeQuickActions:   RendererFunc(renderQuickActions),
		TypePomodoro:       RendererFunc(renderPomodoro),
		TypeGuildInfo:      RendererFunc(renderGuildInfo),
		TypeGuildMembers:   RendererFunc(renderGuildMembers),
		TypeGuildActivity:  RendererFunc(renderGuildActivity),
	}
}

// Widget type tags.
const (
	TypeTasks          = "tasks"
	TypeHabitStreak    = "habit-streak"
	TypeStreakShowcase = "streak-showcase"
	TypeHabitGraph     = "habit-graph"
	TypeInterests      = "interests"
	TypeImage          = "image"
	TypeText           = "text"
	TypeGoals          = "goals"
	TypeStats          = "stats"
	TypeTodaysFocus    = "todays-focus"
	TypeQuickActions   = "quick-actions"
	TypePomodoro       = "pomodoro"
	TypeGuildInfo      = "guild_info"
	TypeGuildMembers   = "guild_members"
	TypeGuildActivity  = "guild_activity"
)
