// Package audit keeps a journal of what happened during play: sessions,
// section switches, completions, badges and progress resets.
package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorLearner ActorType = "learner"
	ActorSystem  ActorType = "system"
	ActorAdmin   ActorType = "admin"
)

// Action describes what was done.
type Action string

const (
	ActionSessionOpened     Action = "session_opened"
	ActionSessionClosed     Action = "session_closed"
	ActionSectionOpened     Action = "section_opened"
	ActionActivityCompleted Action = "activity_completed"
	ActionBadgeUnlocked     Action = "badge_unlocked"
	ActionProgressReset     Action = "progress_reset"
)

// Scope describes the level at which an action applies.
type Scope string

const (
	ScopeCourse   Scope = "course"
	ScopeSection  Scope = "section"
	ScopeActivity Scope = "activity"
)

// Entry is a single journal record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorType ActorType `json:"actor_type"`
	ActorID   string    `json:"actor_id"`
	Learner   string    `json:"learner"`
	Action    Action    `json:"action"`
	Scope     Scope     `json:"scope"`
	ScopeID   string    `json:"scope_id,omitempty"`
	Summary   string    `json:"summary"`
}
