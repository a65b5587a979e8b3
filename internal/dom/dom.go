// Package dom is the server-side stand-in for the browser document the
// activities render into. A Document holds mount elements addressed by id;
// each element carries its current markup, delegated event handlers,
// transient styles and the layout the client last reported for it.
//
// A Document is not safe for concurrent use. It belongs to the event loop
// of the session that owns it.
package dom

import (
	"sort"
)

// Event kinds understood by the activities.
const (
	Click      = "click"
	KeyDown    = "keydown"
	Input      = "input"
	Submit     = "submit"
	DragStart  = "dragstart"
	DragOver   = "dragover"
	Drop       = "drop"
	DragEnd    = "dragend"
	TouchStart = "touchstart"
	TouchMove  = "touchmove"
	TouchEnd   = "touchend"
	AudioError = "audioerror"
)

// Event is a user input event delegated to a mount element.
type Event struct {
	Kind   string  `json:"kind"`
	Action string  `json:"action,omitempty"` // data-action of the element hit
	Target string  `json:"target,omitempty"` // id (or data-id) of the element hit
	Value  string  `json:"value,omitempty"`
	Key    string  `json:"key,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// Handler reacts to a delegated event.
type Handler func(Event)

// Rect is an element's box in client coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Style is a transient visual override applied to a child element.
type Style struct {
	TranslateY float64 `json:"translateY"`
	Opacity    float64 `json:"opacity"`
}

// Notice is a transient feedback message shown over a mount element.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Patch operations.
const (
	OpReplace = "replace"
	OpClear   = "clear"
	OpStyle   = "style"
	OpUnstyle = "unstyle"
	OpNotice  = "notice"
	OpDismiss = "dismiss"
	OpAudio   = "audio"
)

// Patch describes one change the client has to apply.
type Patch struct {
	Op        string  `json:"op"`
	Container string  `json:"container"`
	Target    string  `json:"target,omitempty"`
	HTML      string  `json:"html,omitempty"`
	Style     *Style  `json:"style,omitempty"`
	Notice    *Notice `json:"notice,omitempty"`
	Data      any     `json:"data,omitempty"`
}

// Document is the set of mount elements of one page.
type Document struct {
	elements map[string]*Element
	subs     []func(Patch)
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Mount returns the element with the given id, creating it if needed.
func (d *Document) Mount(id string) *Element {
	if el, ok := d.elements[id]; ok {
		return el
	}
	el := &Element{
		id:       id,
		doc:      d,
		handlers: make(map[string][]Handler),
		styles:   make(map[string]Style),
	}
	d.elements[id] = el
	return el
}

// Element looks up a mount element.
func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// Remove detaches the element entirely.
func (d *Document) Remove(id string) {
	if el, ok := d.elements[id]; ok {
		el.Clear()
		delete(d.elements, id)
	}
}

// IDs returns the ids of all mount elements, sorted.
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.elements))
	for id := range d.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Subscribe registers fn to receive every patch.
func (d *Document) Subscribe(fn func(Patch)) {
	d.subs = append(d.subs, fn)
}

// Emit sends p to all subscribers.
func (d *Document) Emit(p Patch) {
	for _, fn := range d.subs {
		fn(p)
	}
}

// Dispatch delivers ev to the handlers of the element with the given id.
// It reports whether any handler ran.
func (d *Document) Dispatch(id string, ev Event) bool {
	el, ok := d.elements[id]
	if !ok {
		return false
	}
	return el.dispatch(ev)
}

// Capabilities describes the input modalities of the client device.
type Capabilities struct {
	Touch   bool `json:"touch"`
	Pointer bool `json:"pointer"`
}
