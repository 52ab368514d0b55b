package widgets

import (
	"math"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/GregMSThompson/layout-backend/internal/models"
)

// The stored config of a widget is an open map. The types below are the view
// each renderer decodes it into; unknown keys are kept in the map untouched.

type TextConfig struct {
	Text       string `json:"text"`
	FontSize   string `json:"fontSize"`
	FontStyle  string `json:"fontStyle"`
	FontWeight string `json:"fontWeight"`
	TextAlign  string `json:"textAlign"`
}

const textPlaceholder = "Click to add your text..."

var (
	fontSizes   = []string{"sm", "base", "lg", "xl", "2xl"}
	fontStyles  = []string{"normal", "italic"}
	fontWeights = []string{"normal", "medium", "semibold", "bold"}
	textAligns  = []string{"left", "center", "right"}
)

// DecodeText reads a text widget config, filling the defaults.
func DecodeText(cfg models.Config) (TextConfig, error) {
	var out TextConfig
	var err error
	if out.Text, err = stringField(TypeText, cfg, "text"); err != nil {
		return out, err
	}
	if out.FontSize, err = enumField(TypeText, cfg, "fontSize", fontSizes, "base"); err != nil {
		return out, err
	}
	if out.FontStyle, err = enumField(TypeText, cfg, "fontStyle", fontStyles, "normal"); err != nil {
		return out, err
	}
	if out.FontWeight, err = enumField(TypeText, cfg, "fontWeight", fontWeights, "normal"); err != nil {
		return out, err
	}
	if out.TextAlign, err = enumField(TypeText, cfg, "textAlign", textAligns, "center"); err != nil {
		return out, err
	}
	return out, nil
}

type ImageConfig struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Mode    string `json:"mode"`
}

var (
	imageModes      = []string{"cover", "contain"}
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".avif"}

	// Hosts that serve images from extension-less URLs.
	imageHosts       = []string{"images.unsplash.com", "plus.unsplash.com", "picsum.photos", "preview.redd.it", "i.redd.it", "i.imgur.com", "lh3.googleusercontent.com"}
	imageHostSuffixs = []string{".cloudinary.com"}
)

// DecodeImage reads an image widget config. An empty URL is valid and means
// the widget has not been configured yet.
func DecodeImage(cfg models.Config) (ImageConfig, error) {
	var out ImageConfig
	var err error
	if out.URL, err = stringField(TypeImage, cfg, "url"); err != nil {
		return out, err
	}
	if out.Caption, err = stringField(TypeImage, cfg, "caption"); err != nil {
		return out, err
	}
	if out.Mode, err = enumField(TypeImage, cfg, "mode", imageModes, "cover"); err != nil {
		return out, err
	}
	out.URL = strings.TrimSpace(out.URL)
	if out.URL != "" {
		if err := ValidateImageURL(out.URL); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ValidateImageURL accepts http(s) links that either end in a known image
// extension or point at an allow-listed image host.
func ValidateImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return newConfigError(TypeImage, "url", "Unsupported image link")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return newConfigError(TypeImage, "url", "Unsupported image link")
	}
	if slices.Contains(imageExtensions, strings.ToLower(path.Ext(u.Path))) {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	if slices.Contains(imageHosts, host) {
		return nil
	}
	for _, suffix := range imageHostSuffixs {
		if strings.HasSuffix(host, suffix) {
			return nil
		}
	}
	return newConfigError(TypeImage, "url", "Unsupported image link")
}

type StreakShowcaseConfig struct {
	SelectedHabitID string `json:"selectedHabitId"`
}

func DecodeStreakShowcase(cfg models.Config) (StreakShowcaseConfig, error) {
	id, err := stringField(TypeStreakShowcase, cfg, "selectedHabitId")
	return StreakShowcaseConfig{SelectedHabitID: id}, err
}

type GuildMembersConfig struct {
	ShowCount int `json:"show_count"`
}

func DecodeGuildMembers(cfg models.Config) (GuildMembersConfig, error) {
	n, err := intField(TypeGuildMembers, cfg, "show_count", 6)
	if err != nil {
		return GuildMembersConfig{}, err
	}
	if n < 1 || n > 50 {
		return GuildMembersConfig{}, newConfigError(TypeGuildMembers, "show_count", "must be between 1 and 50")
	}
	return GuildMembersConfig{ShowCount: n}, nil
}

type StatsConfig struct {
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Change  float64 `json:"change"`
}

func DecodeStats(cfg models.Config) (StatsConfig, error) {
	var out StatsConfig
	var err error
	if out.Label, err = stringField(TypeStats, cfg, "label"); err != nil {
		return out, err
	}
	if out.Current, err = floatField(TypeStats, cfg, "current", 0); err != nil {
		return out, err
	}
	if out.Target, err = floatField(TypeStats, cfg, "target", 100); err != nil {
		return out, err
	}
	if out.Change, err = floatField(TypeStats, cfg, "change", 0); err != nil {
		return out, err
	}
	if out.Target <= 0 {
		return out, newConfigError(TypeStats, "target", "must be positive")
	}
	return out, nil
}

type PomodoroConfig struct {
	WorkMinutes  int `json:"workMinutes"`
	BreakMinutes int `json:"breakMinutes"`
}

func DecodePomodoro(cfg models.Config) (PomodoroConfig, error) {
	work, err := intField(TypePomodoro, cfg, "workMinutes", 25)
	if err != nil {
		return PomodoroConfig{}, err
	}
	if work < 1 || work > 120 {
		return PomodoroConfig{}, newConfigError(TypePomodoro, "workMinutes", "must be between 1 and 120")
	}
	brk, err := intField(TypePomodoro, cfg, "breakMinutes", 5)
	if err != nil {
		return PomodoroConfig{}, err
	}
	if brk < 1 || brk > 60 {
		return PomodoroConfig{}, newConfigError(TypePomodoro, "breakMinutes", "must be between 1 and 60")
	}
	return PomodoroConfig{WorkMinutes: work, BreakMinutes: brk}, nil
}

// --- field helpers ---

func stringField(widgetType string, cfg models.Config, key string) (string, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", newConfigError(widgetType, key, "must be a string")
	}
	return s, nil
}

func enumField(widgetType string, cfg models.Config, key string, allowed []string, fallback string) (string, error) {
	s, err := stringField(widgetType, cfg, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return fallback, nil
	}
	if !slices.Contains(allowed, s) {
		return "", newConfigError(widgetType, key, "must be one of: "+strings.Join(allowed, ", "))
	}
	return s, nil
}

func floatField(widgetType string, cfg models.Config, key string, fallback float64) (float64, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, newConfigError(widgetType, key, "must be a number")
}

func intField(widgetType string, cfg models.Config, key string, fallback int) (int, error) {
	f, err := floatField(widgetType, cfg, key, float64(fallback))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, newConfigError(widgetType, key, "must be a whole number")
	}
	return int(f), nil
}
