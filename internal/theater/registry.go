// Package theater indexes the plots referenced by a run log and drives the
// focused/overview browsing mode: sequential navigation, category locking,
// adaptive grid layout and gesture scrubbing.
package theater

import (
	"fmt"

	"github.com/evalf/runview/internal/stream"
)

// Plot is one registered artifact. Plots are created once, in emission
// order, and never mutated.
type Plot struct {
	Href      string
	Name      string
	Thumb     string
	ThumbSize *[2]int

	// AnchorID scrolls the log view back to the plot's origin.
	AnchorID string

	Category    string
	HasCategory bool

	ContextID    int
	ContextLabel string

	GlobalIndex int
	// CategoryIndex is the position within the category's emission order,
	// -1 when the plot has no category.
	CategoryIndex int
}

// Registry holds every registered plot under three append-only lookups: by
// global order, by category and by owning context.
type Registry struct {
	byHref     map[string]*Plot
	order      []*Plot
	byCategory map[string][]*Plot
	byContext  map[int][]*Plot
}

// NewRegistry returns an empty plot registry.
func NewRegistry() *Registry {
	return &Registry{
		byHref:     make(map[string]*Plot),
		byCategory: make(map[string][]*Plot),
		byContext:  make(map[int][]*Plot),
	}
}

// Register records a new plot and assigns its indexes. Registering an href
// that is already present is a no-op returning the original handle.
func (r *Registry) Register(reg stream.Registration) stream.Handle {
	if p, ok := r.byHref[reg.Href]; ok {
		return stream.Handle{AnchorID: p.AnchorID, GlobalIndex: p.GlobalIndex}
	}
	p := &Plot{
		Href:          reg.Href,
		Name:          reg.Name,
		Thumb:         reg.Thumb,
		ThumbSize:     reg.ThumbSize,
		Category:      reg.Category,
		HasCategory:   reg.HasCategory,
		ContextID:     reg.ContextID,
		ContextLabel:  reg.ContextLabel,
		GlobalIndex:   len(r.order),
		CategoryIndex: -1,
	}
	p.AnchorID = fmt.Sprintf("plot-%d", p.GlobalIndex)
	if p.HasCategory {
		p.CategoryIndex = len(r.byCategory[p.Category])
		r.byCategory[p.Category] = append(r.byCategory[p.Category], p)
	}
	r.byHref[p.Href] = p
	r.order = append(r.order, p)
	r.byContext[p.ContextID] = append(r.byContext[p.ContextID], p)
	return stream.Handle{AnchorID: p.AnchorID, GlobalIndex: p.GlobalIndex}
}

// Len returns the number of registered plots.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every plot in registration order. The slice is shared; callers
// must not modify it.
func (r *Registry) All() []*Plot {
	return r.order
}

// Lookup returns the plot registered under href, or nil.
func (r *Registry) Lookup(href string) *Plot {
	return r.byHref[href]
}

// Category returns the plots of one category in registration order.
func (r *Registry) Category(name string) []*Plot {
	return r.byCategory[name]
}

// Context returns the plots owned by one context in registration order.
func (r *Registry) Context(id int) []*Plot {
	return r.byContext[id]
}
