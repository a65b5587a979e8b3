// Package activity defines the lifecycle every interactive exercise follows
// and the Base that variants embed to get it.
package activity

import (
	"github.com/ziadkadry99/playdeck/internal/audio"
	"github.com/ziadkadry99/playdeck/internal/dom"
	"github.com/ziadkadry99/playdeck/internal/eventloop"
	"github.com/ziadkadry99/playdeck/internal/logger"
	"github.com/ziadkadry99/playdeck/internal/markup"
)

// Activity is a live, mounted exercise.
type Activity interface {
	ID() string
	Type() Type
	ContainerID() string
	// Render replaces the mount element's content from current state and
	// attaches listeners.
	Render()
	// Complete marks the activity done. Only the first call has effect.
	Complete()
	// Reset clears progress and renders from scratch.
	Reset()
	// Destroy detaches the activity and releases what it holds.
	Destroy()
	IsCompleted() bool
	IsActive() bool
}

// Completion is the signal emitted once per instance when its win
// condition is met.
type Completion struct {
	ActivityID   string `json:"activityId"`
	ActivityType Type   `json:"activityType"`
}

// CompletionFunc observes completions.
type CompletionFunc func(Completion)

// AudioFactory returns the audio backend for a mount element.
type AudioFactory func(el *dom.Element) audio.Backend

// Env carries everything an activity needs from its host.
type Env struct {
	Doc        *dom.Document
	Scheduler  eventloop.Scheduler
	Log        *logger.Logger
	Audio      AudioFactory
	Caps       dom.Capabilities
	Markdown   *markup.Renderer
	OnComplete CompletionFunc
}

// RemoteAudio plays clips in the browser that owns the mount element.
func RemoteAudio(el *dom.Element) audio.Backend {
	return audio.NewRemote(el)
}
