// Package progress is the collaborator that listens for completion
// signals, persists them per learner and unlocks badges.
package progress

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/audit"
	"github.com/ziadkadry99/playdeck/internal/content"
	"github.com/ziadkadry99/playdeck/internal/logger"
)

// Course is the part of the content catalog the badge rules need.
type Course interface {
	Sections() []content.Section
	ActivityIDs() []string
	SectionOf(activityID string) (content.Section, bool)
}

// Tracker applies completions to the store and evaluates badge rules.
type Tracker struct {
	store   *Store
	course  Course
	log     *logger.Logger
	journal *audit.Store
}

// NewTracker creates a tracker.
func NewTracker(store *Store, course Course, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{store: store, course: course, log: log}
}

// SetJournal makes the tracker write completions, badges and resets to j.
func (t *Tracker) SetJournal(j *audit.Store) { t.journal = j }

func (t *Tracker) note(ctx context.Context, e audit.Entry) {
	if t.journal == nil {
		return
	}
	if err := t.journal.Log(ctx, e); err != nil {
		t.log.Warn("writing journal entry failed", "action", string(e.Action), "error", err)
	}
}

// Store returns the underlying store.
func (t *Tracker) Store() *Store { return t.store }

// Record persists a completion and returns the badges it unlocked.
// A repeated completion unlocks nothing.
func (t *Tracker) Record(ctx context.Context, learner string, c activity.Completion) ([]string, error) {
	if learner == "" {
		return nil, fmt.Errorf("recording completion: learner is required")
	}
	r := Record{ActivityID: c.ActivityID, ActivityType: string(c.ActivityType)}
	if s, ok := t.course.SectionOf(c.ActivityID); ok {
		r.SectionID = s.ID
	}
	added, err := t.store.AddCompletion(ctx, learner, r)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, nil
	}
	t.log.Info("activity completed", "learner", learner, "activity", c.ActivityID, "type", string(c.ActivityType))
	t.note(ctx, audit.Entry{
		ActorType: audit.ActorLearner, ActorID: learner, Learner: learner,
		Action: audit.ActionActivityCompleted, Scope: audit.ScopeActivity, ScopeID: c.ActivityID,
		Summary: fmt.Sprintf("completed %s activity %s", c.ActivityType, c.ActivityID),
	})

	done, err := t.completedSet(ctx, learner)
	if err != nil {
		return nil, err
	}
	var unlocked []string
	for _, badge := range t.earned(done, r.SectionID) {
		ok, err := t.store.AddBadge(ctx, learner, badge)
		if err != nil {
			return unlocked, err
		}
		if ok {
			t.log.Info("badge unlocked", "learner", learner, "badge", badge)
			t.note(ctx, audit.Entry{
				ActorType: audit.ActorSystem, ActorID: "tracker", Learner: learner,
				Action: audit.ActionBadgeUnlocked, Scope: badgeScope(badge), ScopeID: badge,
				Summary: "unlocked badge " + badge,
			})
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked, nil
}

func (t *Tracker) completedSet(ctx context.Context, learner string) (map[string]bool, error) {
	records, err := t.store.Completions(ctx, learner)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.ActivityID] = true
	}
	return done, nil
}

// earned lists the badges the completed set qualifies for that could have
// changed with a completion in sectionID.
func (t *Tracker) earned(done map[string]bool, sectionID string) []string {
	badges := []string{BadgeFirstSteps}
	if sectionID != "" {
		for _, s := range t.course.Sections() {
			if s.ID == sectionID && len(s.Activities) > 0 && all(done, s.Activities) {
				badges = append(badges, SectionBadge(s.ID))
			}
		}
	}
	if ids := t.course.ActivityIDs(); len(ids) > 0 && all(done, ids) {
		badges = append(badges, BadgeAllClear)
	}
	return badges
}

func all(done map[string]bool, ids []string) bool {
	for _, id := range ids {
		if !done[id] {
			return false
		}
	}
	return true
}

// Summary gathers a learner's completions, badges and per-section counts.
func (t *Tracker) Summary(ctx context.Context, learner string) (*Summary, error) {
	completed, err := t.store.Completions(ctx, learner)
	if err != nil {
		return nil, err
	}
	badges, err := t.store.Badges(ctx, learner)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(completed))
	for _, r := range completed {
		done[r.ActivityID] = true
	}
	s := &Summary{
		Learner:   learner,
		Completed: completed,
		Badges:    badges,
		Sections:  []SectionProgress{},
	}
	if s.Completed == nil {
		s.Completed = []Record{}
	}
	if s.Badges == nil {
		s.Badges = []BadgeRecord{}
	}
	for _, sec := range t.course.Sections() {
		p := SectionProgress{SectionID: sec.ID, Title: sec.Title, Total: len(sec.Activities)}
		for _, id := range sec.Activities {
			if done[id] {
				p.Completed++
			}
		}
		s.Sections = append(s.Sections, p)
	}
	return s, nil
}

func badgeScope(badge string) audit.Scope {
	if _, ok := BadgeSection(badge); ok {
		return audit.ScopeSection
	}
	return audit.ScopeCourse
}

// Reset forgets a learner. actor names who asked for it in the journal.
func (t *Tracker) Reset(ctx context.Context, learner, actor string) error {
	if err := t.store.Reset(ctx, learner); err != nil {
		return err
	}
	t.log.Info("progress reset", "learner", learner, "by", actor)
	t.note(ctx, audit.Entry{
		ActorType: audit.ActorAdmin, ActorID: actor, Learner: learner,
		Action: audit.ActionProgressReset, Scope: audit.ScopeCourse,
		Summary: "progress reset",
	})
	return nil
}
