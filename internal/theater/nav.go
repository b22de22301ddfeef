package theater

// Navigator tracks the focused plot and the browsing mode. When locked,
// movement is confined to the focused plot's category; in overview mode the
// view shows a grid of all plots sharing the focused plot's context.
type Navigator struct {
	reg      *Registry
	current  *Plot
	locked   bool
	overview bool
}

// NewNavigator returns a navigator over reg with nothing focused.
func NewNavigator(reg *Registry) *Navigator {
	return &Navigator{reg: reg}
}

// Current returns the focused plot, or nil.
func (n *Navigator) Current() *Plot {
	return n.current
}

// Select focuses the plot registered under href. An unknown href is a no-op.
func (n *Navigator) Select(href string) {
	if p := n.reg.Lookup(href); p != nil {
		n.current = p
	}
}

// Locked reports whether navigation is confined to the focused category.
func (n *Navigator) Locked() bool {
	return n.locked
}

// SetLocked switches category locking without moving the focus.
func (n *Navigator) SetLocked(locked bool) {
	n.locked = locked
}

// Overview reports whether the view shows the context grid.
func (n *Navigator) Overview() bool {
	return n.overview
}

// SetOverview switches between the context grid and the single-focus view.
func (n *Navigator) SetOverview(overview bool) {
	n.overview = overview
}

// ContextPlots returns the plots sharing the focused plot's context, the
// population of the overview grid.
func (n *Navigator) ContextPlots() []*Plot {
	if n.current == nil {
		return nil
	}
	return n.reg.Context(n.current.ContextID)
}

// activeList is the category list when locked on a categorized plot, the
// full registration order otherwise.
func (n *Navigator) activeList() []*Plot {
	if n.locked && n.current != nil && n.current.HasCategory {
		return n.reg.Category(n.current.Category)
	}
	return n.reg.All()
}

// Index returns the focused plot's position in the active list, -1 when
// nothing is focused.
func (n *Navigator) Index() int {
	if n.current == nil {
		return -1
	}
	if n.locked && n.current.HasCategory {
		return n.current.CategoryIndex
	}
	return n.current.GlobalIndex
}

// Len returns the length of the active list.
func (n *Navigator) Len() int {
	return len(n.activeList())
}

// Step moves the focus by delta entries in the active list, clamped to the
// list bounds. With no focus yet, any forward step focuses the first plot.
func (n *Navigator) Step(delta int) {
	list := n.activeList()
	if len(list) == 0 {
		return
	}
	if n.current == nil {
		if delta > 0 {
			n.current = list[0]
		}
		return
	}
	i := n.Index() + delta
	if i < 0 {
		i = 0
	} else if i > len(list)-1 {
		i = len(list) - 1
	}
	n.current = list[i]
}

// Next focuses the following entry of the active list; at the end it is a
// no-op.
func (n *Navigator) Next() {
	n.move(1)
}

// Previous focuses the preceding entry of the active list; at the start it
// is a no-op.
func (n *Navigator) Previous() {
	n.move(-1)
}

func (n *Navigator) move(delta int) {
	list := n.activeList()
	if n.current == nil {
		if len(list) > 0 && delta > 0 {
			n.current = list[0]
		}
		return
	}
	i := n.Index() + delta
	if i < 0 || i >= len(list) {
		return
	}
	n.current = list[i]
}

// First focuses the first entry of the active list.
func (n *Navigator) First() {
	if list := n.activeList(); len(list) > 0 {
		n.current = list[0]
	}
}

// Last focuses the last entry of the active list.
func (n *Navigator) Last() {
	if list := n.activeList(); len(list) > 0 {
		n.current = list[len(list)-1]
	}
}
