package models

import "time"

// Task statuses.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

type Task struct {
	ID       string     `firestore:"id" json:"id"`
	Title    string     `firestore:"title" json:"title"`
	Status   string     `firestore:"status" json:"status"`
	Priority string     `firestore:"priority,omitempty" json:"priority,omitempty"`
	DueDate  *time.Time `firestore:"dueDate,omitempty" json:"dueDate,omitempty"`
}

type HabitLog struct {
	Date      string `firestore:"date" json:"date"` // YYYY-MM-DD
	Completed bool   `firestore:"completed" json:"completed"`
}

type Habit struct {
	ID             string     `firestore:"id" json:"id"`
	Name           string     `firestore:"name" json:"name"`
	CurrentStreak  int        `firestore:"currentStreak" json:"currentStreak"`
	LongestStreak  int        `firestore:"longestStreak" json:"longestStreak"`
	CompletedToday bool       `firestore:"completedToday" json:"completedToday"`
	Logs           []HabitLog `firestore:"logs,omitempty" json:"logs,omitempty"`
}

type Interest struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name" json:"name"`
}

type Goal struct {
	ID       string  `firestore:"id" json:"id"`
	Title    string  `firestore:"title" json:"title"`
	Category string  `firestore:"category" json:"category"`
	Current  float64 `firestore:"current" json:"current"`
	Target   float64 `firestore:"target" json:"target"`
	Unit     string  `firestore:"unit,omitempty" json:"unit,omitempty"`
}

type GuildMember struct {
	UID         string `firestore:"uid" json:"uid"`
	DisplayName string `firestore:"displayName" json:"displayName"`
	Role        string `firestore:"role" json:"role"`
}

type GuildActivity struct {
	Kind    string    `firestore:"kind" json:"kind"`
	Summary string    `firestore:"summary" json:"summary"`
	At      time.Time `firestore:"at" json:"at"`
}

type GuildSummary struct {
	ID          string          `firestore:"id" json:"id"`
	Name        string          `firestore:"name" json:"name"`
	Description string          `firestore:"description" json:"description"`
	GuildType   string          `firestore:"guildType" json:"guildType"`
	Members     []GuildMember   `firestore:"members,omitempty" json:"members,omitempty"`
	Activity    []GuildActivity `firestore:"activity,omitempty" json:"activity,omitempty"`
}

// Feeds is the read-only page data handed to widget renderers. The layout core
// never fetches it itself.
type Feeds struct {
	Tasks     []Task        `json:"tasks"`
	Habits    []Habit       `json:"habits"`
	Interests []Interest    `json:"interests"`
	Goals     []Goal        `json:"goals"`
	Guild     *GuildSummary `json:"guild,omitempty"`
}
