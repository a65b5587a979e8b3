// Package drag turns pointer drag-and-drop and touch gestures into a single
// drop callback. Activities that let the learner move things around wire a
// Controller onto their mount element after each render.
package drag

import (
	"github.com/ziadkadry99/playdeck/internal/dom"
)

// DragOpacity is applied to an item while a touch gesture moves it.
const DragOpacity = 0.5

// DropFunc receives the element an item was dropped on and the dragged item.
type DropFunc func(target, item string)

// Controller tracks the gesture in progress.
type Controller struct {
	caps     dom.Capabilities
	onDrop   DropFunc
	disabled bool

	dragged string

	touchItem string
	startY    float64
}

// New returns a controller for the given device capabilities. Pointer
// dragging is wired when the device has a pointer or when nothing was
// detected; touch gestures when it reports touch support.
func New(caps dom.Capabilities, onDrop DropFunc) *Controller {
	return &Controller{caps: caps, onDrop: onDrop}
}

// SetEnabled turns gesture handling on or off. A disabled controller
// ignores new gestures.
func (c *Controller) SetEnabled(on bool) {
	c.disabled = !on
	if !on {
		c.dragged = ""
		c.touchItem = ""
	}
}

// Dragged returns the item of the pointer drag in progress, or "".
func (c *Controller) Dragged() string { return c.dragged }

// Bind attaches the gesture listeners to el. It must be called again after
// every render since Replace drops listeners.
func (c *Controller) Bind(el *dom.Element) {
	if c.caps.Pointer || !c.caps.Touch {
		c.bindPointer(el)
	}
	if c.caps.Touch {
		c.bindTouch(el)
	}
}

func (c *Controller) bindPointer(el *dom.Element) {
	el.On(dom.DragStart, func(ev dom.Event) {
		if c.disabled || ev.Target == "" {
			return
		}
		c.dragged = ev.Target
	})
	el.On(dom.Drop, func(ev dom.Event) {
		item := c.dragged
		c.dragged = ""
		if c.disabled || item == "" || ev.Target == "" || ev.Target == item {
			return
		}
		c.onDrop(ev.Target, item)
	})
	el.On(dom.DragEnd, func(dom.Event) {
		c.dragged = ""
	})
}

func (c *Controller) bindTouch(el *dom.Element) {
	el.On(dom.TouchStart, func(ev dom.Event) {
		if c.disabled || ev.Target == "" {
			return
		}
		c.touchItem = ev.Target
		c.startY = ev.Y
	})
	el.On(dom.TouchMove, func(ev dom.Event) {
		if c.touchItem == "" {
			return
		}
		el.SetStyle(c.touchItem, dom.Style{TranslateY: ev.Y - c.startY, Opacity: DragOpacity})
	})
	el.On(dom.TouchEnd, func(ev dom.Event) {
		item := c.touchItem
		if item == "" {
			return
		}
		c.touchItem = ""
		el.ClearStyle(item)
		target, ok := el.ElementAt(ev.X, ev.Y)
		if !ok || target == item || c.disabled {
			return
		}
		c.onDrop(target, item)
	})
}
