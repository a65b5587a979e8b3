package content

import "github.com/ziadkadry99/playdeck/internal/activity"

// Section is a unit of the course (a week or a chapter). Only the
// activities of the open section are live at any time.
type Section struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Activities []string `json:"activities" yaml:"activities"`
}

// File is the shape of one content file. A file may declare sections,
// activities or both.
type File struct {
	Sections   []Section          `json:"sections,omitempty" yaml:"sections,omitempty"`
	Activities []*activity.Config `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// Warning is a presence-check finding. Warnings never stop loading.
type Warning struct {
	Source   string `json:"source,omitempty"`
	Activity string `json:"activity,omitempty"`
	Section  string `json:"section,omitempty"`
	Message  string `json:"message"`
}

func (w Warning) String() string {
	s := w.Message
	switch {
	case w.Activity != "":
		s = "activity " + w.Activity + ": " + s
	case w.Section != "":
		s = "section " + w.Section + ": " + s
	}
	if w.Source != "" {
		s = w.Source + ": " + s
	}
	return s
}
