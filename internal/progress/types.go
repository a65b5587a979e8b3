package progress

import (
	"strings"
	"time"
)

// Badge ids.
const (
	BadgeFirstSteps = "first-steps"
	BadgeAllClear   = "all-clear"
	sectionPrefix   = "section:"
)

// SectionBadge is awarded for finishing every activity of a section.
func SectionBadge(sectionID string) string { return sectionPrefix + sectionID }

// BadgeSection returns the section a section badge was awarded for.
func BadgeSection(badge string) (string, bool) {
	if !strings.HasPrefix(badge, sectionPrefix) {
		return "", false
	}
	return strings.TrimPrefix(badge, sectionPrefix), true
}

// Record is one persisted completion.
type Record struct {
	ActivityID   string    `json:"activity_id"`
	ActivityType string    `json:"activity_type"`
	SectionID    string    `json:"section_id,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}

// BadgeRecord is one unlocked badge.
type BadgeRecord struct {
	Badge      string    `json:"badge"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// SectionProgress counts completions within a section.
type SectionProgress struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Summary is everything known about a learner.
type Summary struct {
	Learner   string            `json:"learner"`
	Completed []Record          `json:"completed"`
	Badges    []BadgeRecord     `json:"badges"`
	Sections  []SectionProgress `json:"sections"`
}
