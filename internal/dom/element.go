package dom

import "sort"

// Element is a mount point inside a Document.
type Element struct {
	id       string
	doc      *Document
	html     string
	handlers map[string][]Handler
	styles   map[string]Style
	layout   map[string]Rect
	notice   *Notice
}

func (e *Element) ID() string   { return e.id }
func (e *Element) HTML() string { return e.html }

// Replace swaps the element's content. Existing handlers and transient
// styles belong to the old content and are dropped.
func (e *Element) Replace(html string) {
	e.html = html
	e.handlers = make(map[string][]Handler)
	e.styles = make(map[string]Style)
	e.doc.Emit(Patch{Op: OpReplace, Container: e.id, HTML: html})
}

// Clear empties the element and detaches all handlers.
func (e *Element) Clear() {
	e.html = ""
	e.handlers = make(map[string][]Handler)
	e.styles = make(map[string]Style)
	e.layout = nil
	e.notice = nil
	e.doc.Emit(Patch{Op: OpClear, Container: e.id})
}

// On attaches a delegated handler for the given event kind.
func (e *Element) On(kind string, h Handler) {
	e.handlers[kind] = append(e.handlers[kind], h)
}

// HasHandlers reports whether any handler is attached for kind.
func (e *Element) HasHandlers(kind string) bool {
	return len(e.handlers[kind]) > 0
}

func (e *Element) dispatch(ev Event) bool {
	hs := e.handlers[ev.Kind]
	if len(hs) == 0 {
		return false
	}
	// Handlers may re-render and replace the handler set; run the snapshot.
	snapshot := append([]Handler(nil), hs...)
	for _, h := range snapshot {
		h(ev)
	}
	return true
}

// SetStyle applies a transient style to a child element.
func (e *Element) SetStyle(target string, s Style) {
	e.styles[target] = s
	st := s
	e.doc.Emit(Patch{Op: OpStyle, Container: e.id, Target: target, Style: &st})
}

// ClearStyle removes a transient style.
func (e *Element) ClearStyle(target string) {
	if _, ok := e.styles[target]; !ok {
		return
	}
	delete(e.styles, target)
	e.doc.Emit(Patch{Op: OpUnstyle, Container: e.id, Target: target})
}

// Style returns the transient style of a child, if any.
func (e *Element) Style(target string) (Style, bool) {
	s, ok := e.styles[target]
	return s, ok
}

// SetLayout records the boxes of the element's children as measured by
// the client.
func (e *Element) SetLayout(rects map[string]Rect) {
	e.layout = make(map[string]Rect, len(rects))
	for id, r := range rects {
		e.layout[id] = r
	}
}

// ElementAt returns the id of the child under the point. When boxes
// overlap the smallest one wins, which is the innermost element for
// nested layouts.
func (e *Element) ElementAt(x, y float64) (string, bool) {
	ids := make([]string, 0, len(e.layout))
	for id := range e.layout {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best, found := "", false
	bestArea := 0.0
	for _, id := range ids {
		r := e.layout[id]
		if !r.Contains(x, y) {
			continue
		}
		area := r.W * r.H
		if !found || area < bestArea {
			best, bestArea, found = id, area, true
		}
	}
	return best, found
}

// Notify shows a transient notice over the element.
func (e *Element) Notify(n Notice) {
	nn := n
	e.notice = &nn
	e.doc.Emit(Patch{Op: OpNotice, Container: e.id, Notice: &nn})
}

// Dismiss hides the current notice.
func (e *Element) Dismiss() {
	if e.notice == nil {
		return
	}
	e.notice = nil
	e.doc.Emit(Patch{Op: OpDismiss, Container: e.id})
}

// CurrentNotice returns the notice on display, if any.
func (e *Element) CurrentNotice() (Notice, bool) {
	if e.notice == nil {
		return Notice{}, false
	}
	return *e.notice, true
}

// Send emits a patch addressed to this element; used for side channels
// such as audio commands.
func (e *Element) Send(p Patch) {
	p.Container = e.id
	e.doc.Emit(p)
}
