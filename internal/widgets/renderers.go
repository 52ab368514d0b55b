package widgets

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/GregMSThompson/layout-backend/internal/models"
)

const (
	tasksPerColumn    = 4
	habitStreakLimit  = 6
	interestsLimit    = 8
	activityFeedLimit = 5
	habitGraphDays    = 84
	habitGraphMaxLvl  = 4
	focusTaskLimit    = 5
)

type TasksBody struct {
	Todo       []models.Task `json:"todo"`
	InProgress []models.Task `json:"inProgress"`
	Completed  []models.Task `json:"completed"`
}

func renderTasks(in Input) (Output, error) {
	body := TasksBody{Todo: []models.Task{}, InProgress: []models.Task{}, Completed: []models.Task{}}
	for _, t := range in.Feeds.Tasks {
		switch t.Status {
		case models.TaskTodo:
			body.Todo = appendCapped(body.Todo, t, tasksPerColumn)
		case models.TaskInProgress:
			body.InProgress = appendCapped(body.InProgress, t, tasksPerColumn)
		case models.TaskCompleted:
			body.Completed = appendCapped(body.Completed, t, tasksPerColumn)
		}
	}
	return Output{Title: "TASKS & PROJECTS", Body: body}, nil
}

type HabitStreakBody struct {
	Habits        []models.Habit `json:"habits"`
	BestCurrent   int            `json:"bestCurrent"`
	LongestStreak int            `json:"longestStreak"`
}

func renderHabitStreak(in Input) (Output, error) {
	habits := in.Feeds.Habits
	body := HabitStreakBody{Habits: slices.Clone(habits[:min(len(habits), habitStreakLimit)])}
	if body.Habits == nil {
		body.Habits = []models.Habit{}
	}
	for _, h := range habits {
		body.BestCurrent = max(body.BestCurrent, h.CurrentStreak)
		body.LongestStreak = max(body.LongestStreak, h.LongestStreak)
	}
	return Output{Title: "HABIT STREAKS", Body: body}, nil
}

// Streak tiers, highest first.
const (
	TierLegendary = "legendary"
	TierBlazing   = "blazing"
	TierHot       = "hot"
	TierWarm      = "warm"
)

func StreakTier(streak int) string {
	switch {
	case streak >= 30:
		return TierLegendary
	case streak >= 14:
		return TierBlazing
	case streak >= 7:
		return TierHot
	default:
		return TierWarm
	}
}

type StreakShowcaseBody struct {
	Habit   *models.Habit  `json:"habit,omitempty"`
	Tier    string         `json:"tier,omitempty"`
	Choices []models.Habit `json:"choices,omitempty"`
}

func renderStreakShowcase(in Input) (Output, error) {
	cfg, err := DecodeStreakShowcase(in.Widget.Config)
	if err != nil {
		return Output{}, err
	}
	sorted := slices.Clone(in.Feeds.Habits)
	slices.SortStableFunc(sorted, func(a, b models.Habit) int {
		return cmp.Compare(b.CurrentStreak, a.CurrentStreak)
	})
	var body StreakShowcaseBody
	if len(sorted) > 0 {
		pick := sorted[0]
		if cfg.SelectedHabitID != "" {
			// A selection that no longer exists falls back to the best streak.
			if i := slices.IndexFunc(sorted, func(h models.Habit) bool { return h.ID == cfg.SelectedHabitID }); i >= 0 {
				pick = sorted[i]
			}
		}
		body.Habit = &pick
		body.Tier = StreakTier(pick.CurrentStreak)
	}
	if in.IsOwner && in.EditMode {
		body.Choices = sorted
	}
	return Output{Title: "Streak Showcase", Body: body}, nil
}

type HabitGraphBody struct {
	// Levels holds one 0-4 value per day, oldest first, ending today.
	Levels             []int `json:"levels"`
	TotalContributions int   `json:"totalContributions"`
	CurrentStreak      int   `json:"currentStreak"`
}

func renderHabitGraph(in Input) (Output, error) {
	perDay := make(map[string]int)
	for _, h := range in.Feeds.Habits {
		for _, l := range h.Logs {
			if l.Completed {
				perDay[l.Date]++
			}
		}
	}
	today := in.now().Truncate(24 * time.Hour)
	body := HabitGraphBody{Levels: make([]int, habitGraphDays)}
	for i := range habitGraphDays {
		day := today.AddDate(0, 0, i-habitGraphDays+1).Format(time.DateOnly)
		lvl := min(perDay[day], habitGraphMaxLvl)
		body.Levels[i] = lvl
		if lvl > 0 {
			body.TotalContributions++
		}
	}
	for i := len(body.Levels) - 1; i >= 0 && body.Levels[i] > 0; i-- {
		body.CurrentStreak++
	}
	return Output{Title: "Activity", Body: body}, nil
}

type InterestsBody struct {
	Interests []models.Interest `json:"interests"`
	More      int               `json:"more,omitempty"`
}

func renderInterests(in Input) (Output, error) {
	all := in.Feeds.Interests
	n := min(len(all), interestsLimit)
	body := InterestsBody{Interests: slices.Clone(all[:n]), More: len(all) - n}
	if body.Interests == nil {
		body.Interests = []models.Interest{}
	}
	return Output{Title: "Interests", Body: body}, nil
}

type ImageBody struct {
	ImageConfig
	Empty string `json:"empty,omitempty"`
}

func renderImage(in Input) (Output, error) {
	cfg, err := DecodeImage(in.Widget.Config)
	if err != nil {
		return Output{}, err
	}
	title := cfg.Caption
	if title == "" {
		title = "Image"
	}
	body := ImageBody{ImageConfig: cfg}
	if cfg.URL == "" {
		body.Empty = "No Image Set"
	}
	return Output{Title: title, Body: body}, nil
}

type TextBody struct {
	TextConfig
	Placeholder string `json:"placeholder,omitempty"`
}

func renderText(in Input) (Output, error) {
	cfg, err := DecodeText(in.Widget.Config)
	if err != nil {
		return Output{}, err
	}
	body := TextBody{TextConfig: cfg}
	if cfg.Text == "" && in.IsOwner {
		body.Placeholder = textPlaceholder
	}
	return Output{Title: "Text", Body: body}, nil
}

type GoalProgress struct {
	models.Goal
	Percentage int `json:"percentage"`
}

func renderGoals(in Input) (Output, error) {
	goals := make([]GoalProgress, 0, len(in.Feeds.Goals))
	for _, g := range in.Feeds.Goals {
		goals = append(goals, GoalProgress{Goal: g, Percentage: percentage(g.Current, g.Target)})
	}
	return Output{Title: "Goals", Body: goals}, nil
}

type StatsBody struct {
	StatsConfig
	Percentage int  `json:"percentage"`
	Bar        int  `json:"bar"`
	Positive   bool `json:"positive"`
}

func renderStats(in Input) (Output, error) {
	cfg, err := DecodeStats(in.Widget.Config)
	if err != nil {
		return Output{}, err
	}
	pct := percentage(cfg.Current, cfg.Target)
	return Output{Title: "Stats", Body: StatsBody{
		StatsConfig: cfg,
		Percentage:  pct,
		Bar:         min(pct, 100),
		Positive:    cfg.Change >= 0,
	}}, nil
}

type FocusHabit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

type TodaysFocusBody struct {
	Tasks  []models.Task `json:"tasks"`
	Habits []FocusHabit  `json:"habits"`
}

// renderTodaysFocus lists open tasks due by the end of today, high priority
// first, and today's state of every habit.
func renderTodaysFocus(in Input) (Output, error) {
	now := in.now()
	endOfDay := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	today := now.Format(time.DateOnly)

	tasks := []models.Task{}
	for _, t := range in.Feeds.Tasks {
		if t.Status != models.TaskCompleted && t.DueDate != nil && t.DueDate.Before(endOfDay) {
			tasks = append(tasks, t)
		}
	}
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		if c := cmp.Compare(priorityRank(a.Priority), priorityRank(b.Priority)); c != 0 {
			return c
		}
		return a.DueDate.Compare(*b.DueDate)
	})
	body := TodaysFocusBody{Tasks: tasks[:min(len(tasks), focusTaskLimit)], Habits: []FocusHabit{}}

	for _, h := range in.Feeds.Habits {
		done := h.CompletedToday || slices.ContainsFunc(h.Logs, func(l models.HabitLog) bool {
			return l.Date == today && l.Completed
		})
		body.Habits = append(body.Habits, FocusHabit{ID: h.ID, Name: h.Name, Done: done})
	}
	return Output{Title: "TODAY'S FOCUS", Body: body}, nil
}

func priorityRank(p string) int {
	switch p {
	case "high":
		return 0
	case "medium":
		return 1
	}
	return 2
}

type QuickAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var quickActions = []QuickAction{
	{ID: "add_task", Label: "Add Task"},
	{ID: "add_habit", Label: "Add Habit"},
	{ID: "view_stats", Label: "View Stats"},
	{ID: "set_goal", Label: "Set Goal"},
	{ID: "start_timer", Label: "Start Timer"},
}

func renderQuickActions(_ Input) (Output, error) {
	return Output{Title: "QUICK ACTIONS", Body: slices.Clone(quickActions)}, nil
}

type PomodoroBody struct {
	PomodoroConfig
	WorkSeconds  int `json:"workSeconds"`
	BreakSeconds int `json:"breakSeconds"`
}

func renderPomodoro(in Input) (Output, error) {
	cfg, err := DecodePomodoro(in.Widget.Config)
	if err != nil {
		return Output{}, err
	}
	return Output{Title: "Pomodoro", Body: PomodoroBody{
		PomodoroConfig: cfg,
		WorkSeconds:    cfg.WorkMinutes * 60,
		BreakSeconds:   cfg.BreakMinutes * 60,
	}}, nil
}

type GuildInfoBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GuildType   string `json:"guildType"`
	MemberCount int    `json:"memberCount"`
}

func renderGuildInfo(in Input) (Output, error) {
	g := in.Feeds.Guild
	if g == nil {
		return Output{Title: "Guild Info"}, nil
	}
	return Output{Title: g.Name, Body: GuildInfoBody{
		Name:        g.Name,
		Description: g.Description,
		GuildType:   g.GuildType,
		MemberCount: len(g.Members),
	}}, nil
}

type GuildMembersBody struct {
	Members []models.GuildMember `json:"members"`
	Total   int                  `json:"total"`
}

func renderGuildMembers(in Input) (Output, error) {
	cfg, err := DecodeGuildMembers(in.Widget.Config)
	if err != nil {
		return Output{}, err
	}
	body := GuildMembersBody{Members: []models.GuildMember{}}
	if g := in.Feeds.Guild; g != nil {
		body.Members = slices.Clone(g.Members[:min(len(g.Members), cfg.ShowCount)])
		body.Total = len(g.Members)
	}
	return Output{Title: "Members", Body: body}, nil
}

func renderGuildActivity(in Input) (Output, error) {
	items := []models.GuildActivity{}
	if g := in.Feeds.Guild; g != nil {
		items = slices.Clone(g.Activity)
		slices.SortStableFunc(items, func(a, b models.GuildActivity) int {
			return b.At.Compare(a.At)
		})
		items = items[:min(len(items), activityFeedLimit)]
	}
	return Output{Title: "Guild Activity", Body: items}, nil
}

func appendCapped[T any](s []T, v T, limit int) []T {
	if len(s) >= limit {
		return s
	}
	return append(s, v)
}

func percentage(current, target float64) int {
	if target <= 0 {
		return 0
	}
	p := math.Round(current / target * 100)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return int(p)
}
