package activity

import (
	"fmt"
	"time"
)

// Type tags a configuration with the variant that plays it.
type Type string

const (
	TypeMatching    Type = "matching"
	TypeFlashcards  Type = "flashcards"
	TypeOrdering    Type = "ordering"
	TypeCategorize  Type = "categorize"
	TypeFillBlank   Type = "fillblank"
	TypeSoundMatch  Type = "soundmatch"
	TypeMaze        Type = "maze"
	TypeChallenge   Type = "challenge"
	TypeCertificate Type = "certificate"
)

// Types lists every known variant tag.
var Types = []Type{
	TypeMatching, TypeFlashcards, TypeOrdering, TypeCategorize, TypeFillBlank,
	TypeSoundMatch, TypeMaze, TypeChallenge, TypeCertificate,
}

// Known reports whether t is one of Types.
func (t Type) Known() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// Config is the static description of one activity. It is shared by
// reference with the live instance and never mutated.
type Config struct {
	ID           string   `json:"id" yaml:"id"`
	Type         Type     `json:"type" yaml:"type"`
	Title        string   `json:"title" yaml:"title"`
	Instructions string   `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Settings     Settings `json:"settings,omitempty" yaml:"settings,omitempty"`

	Pairs       []Pair       `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Cards       []Card       `json:"cards,omitempty" yaml:"cards,omitempty"`
	Items       []Item       `json:"items,omitempty" yaml:"items,omitempty"`
	Categories  []Category   `json:"categories,omitempty" yaml:"categories,omitempty"`
	Questions   []Question   `json:"questions,omitempty" yaml:"questions,omitempty"`
	Sounds      []SoundPair  `json:"sounds,omitempty" yaml:"sounds,omitempty"`
	Maze        *Maze        `json:"maze,omitempty" yaml:"maze,omitempty"`
	Challenges  []Challenge  `json:"challenges,omitempty" yaml:"challenges,omitempty"`
	Certificate *Certificate `json:"certificate,omitempty" yaml:"certificate,omitempty"`
}

// Face is what one side of a card shows.
type Face struct {
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
	Audio string `json:"audio,omitempty" yaml:"audio,omitempty"`
}

// Pair is a matching-game pair; both faces share the pair id.
type Pair struct {
	ID string `json:"id" yaml:"id"`
	A  Face   `json:"a" yaml:"a"`
	B  Face   `json:"b" yaml:"b"`
}

// Card is a flashcard.
type Card struct {
	ID    string `json:"id" yaml:"id"`
	Front Face   `json:"front" yaml:"front"`
	Back  Face   `json:"back" yaml:"back"`
}

// Item is an orderable or categorisable unit.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Image    string `json:"image,omitempty" yaml:"image,omitempty"`
	Order    int    `json:"order,omitempty" yaml:"order,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Category is a bucket in the categorisation activity.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Question is one fill-in-the-blank prompt.
type Question struct {
	ID           string   `json:"id" yaml:"id"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Audio        string   `json:"audio,omitempty" yaml:"audio,omitempty"`
	Answer       string   `json:"answer" yaml:"answer"`
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Hint         string   `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Accepted returns the primary answer followed by the alternatives.
func (q Question) Accepted() []string {
	return append([]string{q.Answer}, q.Alternatives...)
}

// SoundPair links a sound clip to the image it describes.
type SoundPair struct {
	ID    string `json:"id" yaml:"id"`
	Audio string `json:"audio" yaml:"audio"`
	Image string `json:"image" yaml:"image"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Cell is a maze coordinate.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Maze describes a grid maze.
type Maze struct {
	GridSize     int      `json:"gridSize" yaml:"gridSize"`
	Start        Cell     `json:"start" yaml:"start"`
	End          Cell     `json:"end" yaml:"end"`
	Obstacles    []Cell   `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Instructions []string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Countdown    int      `json:"countdown,omitempty" yaml:"countdown,omitempty"` // seconds
}

// ChallengeKind selects how a mixed challenge is presented.
type ChallengeKind string

const (
	ChallengeVisual   ChallengeKind = "visual"
	ChallengeSequence ChallengeKind = "sequence"
	ChallengeAudio    ChallengeKind = "audio"
)

// Challenge is one stage of a mixed challenge.
type Challenge struct {
	ID       string        `json:"id" yaml:"id"`
	Kind     ChallengeKind `json:"kind" yaml:"kind"`
	Prompt   string        `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Media    []string      `json:"media,omitempty" yaml:"media,omitempty"`
	Audio    string        `json:"audio,omitempty" yaml:"audio,omitempty"`
	Question string        `json:"question" yaml:"question"`
	Options  []string      `json:"options" yaml:"options"`
	Answer   int           `json:"answer" yaml:"answer"`
	Points   int           `json:"points,omitempty" yaml:"points,omitempty"`
}

// Certificate customises the certificate generator.
type Certificate struct {
	Heading   string `json:"heading,omitempty" yaml:"heading,omitempty"`
	Body      string `json:"body,omitempty" yaml:"body,omitempty"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
	Width     int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Settings holds free-form per-activity switches. Values come from YAML or
// JSON, so numbers may arrive as int or float64.
type Settings map[string]any

// Bool returns the boolean under key, or def.
func (s Settings) Bool(key string, def bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer under key, or def.
func (s Settings) Int(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case uint64:
		return int(v)
	}
	return def
}

// String returns the string under key, or def.
func (s Settings) String(key, def string) string {
	if v, ok := s[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Millis returns a duration given in milliseconds under key, or def.
func (s Settings) Millis(key string, def time.Duration) time.Duration {
	if _, ok := s[key]; !ok {
		return def
	}
	ms := s.Int(key, -1)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
