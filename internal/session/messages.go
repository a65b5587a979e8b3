package session

import (
	"github.com/ziadkadry99/playdeck/internal/activity"
	"github.com/ziadkadry99/playdeck/internal/dom"
)

// Client message types.
const (
	MsgHello  = "hello"  // device capabilities
	MsgOpen   = "open"   // switch section (or load a single activity)
	MsgEvent  = "event"  // delegated input event
	MsgLayout = "layout" // measured child boxes of a mount element
	MsgReset  = "reset"  // restart one activity
)

// Server message types.
const (
	MsgWelcome   = "welcome"
	MsgOpened    = "opened"
	MsgPatch     = "patch"
	MsgCompleted = "completed"
	MsgError     = "error"
)

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type     string              `json:"type"`
	Caps     *dom.Capabilities   `json:"caps,omitempty"`
	Section  string              `json:"section,omitempty"`
	Activity string              `json:"activity,omitempty"`
	Event    *dom.Event          `json:"event,omitempty"`
	Layout   map[string]dom.Rect `json:"layout,omitempty"`
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type       string               `json:"type"`
	Learner    string               `json:"learner,omitempty"`
	Section    string               `json:"section,omitempty"`
	Activities []string             `json:"activities,omitempty"`
	Patch      *dom.Patch           `json:"patch,omitempty"`
	Completion *activity.Completion `json:"completion,omitempty"`
	Badges     []string             `json:"badges,omitempty"`
	Error      string               `json:"error,omitempty"`
}
