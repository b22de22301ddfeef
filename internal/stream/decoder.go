package stream

import (
	"bytes"
	"fmt"
)

// Registration describes a viewable artifact at the moment the decoder
// encounters it.
type Registration struct {
	Href         string
	Name         string
	Thumb        string
	ThumbSize    *[2]int
	Category     string
	HasCategory  bool
	ContextID    int
	ContextLabel string
}

// Handle identifies a registered artifact: a stable anchor for scrolling the
// log view back to the artifact's origin, plus its position in overall
// emission order.
type Handle struct {
	AnchorID    string
	GlobalIndex int
}

// Registrar indexes viewable artifacts as the decoder emits them.
// Registering the same href twice returns the original handle.
type Registrar interface {
	Register(Registration) Handle
}

// Decoder turns the partially-available, continuously appended log byte
// stream into a context tree. Bytes may arrive at arbitrary boundaries; only
// complete lines are committed, trailing bytes are buffered until the
// terminator arrives. Decoding the same byte stream yields the same tree no
// matter how it is chunked.
type Decoder struct {
	tree     *Tree
	stack    []*Node
	reg      Registrar
	suffixes Suffixes

	buf  []byte
	line int
	err  error
}

// NewDecoder returns a decoder that registers viewable artifacts with reg.
// A nil reg disables registration; all artifacts then render as plain links.
func NewDecoder(reg Registrar, suffixes Suffixes) *Decoder {
	t := NewTree()
	return &Decoder{
		tree:     t,
		stack:    []*Node{t.Root},
		reg:      reg,
		suffixes: suffixes,
	}
}

// Tree returns the tree decoded so far.
func (d *Decoder) Tree() *Tree {
	return d.tree
}

// Err returns the sticky decode error, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Write feeds raw stream bytes to the decoder, committing every complete
// line. A malformed line poisons the decoder: the error is returned now and
// on every subsequent call.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	d.buf = append(d.buf, p...)
	for {
		nl := bytes.IndexByte(d.buf, '\n')
		if nl < 0 {
			return len(p), nil
		}
		raw := d.buf[:nl]
		d.buf = d.buf[nl+1:]
		d.line++
		if err := d.commit(raw); err != nil {
			d.err = &DecodeError{Line: d.line, Msg: err.Error()}
			return len(p), d.err
		}
	}
}

func (d *Decoder) commit(raw []byte) error {
	depth, line, err := ParseLine(raw)
	if err != nil {
		return err
	}

	// The stack always holds the root below the open contexts, so depth k
	// maps to stack length k+1. A deeper depth than the open count cannot
	// be produced by a well-formed stream.
	if depth >= len(d.stack) {
		return fmt.Errorf("depth %d exceeds %d open contexts", depth, len(d.stack)-1)
	}
	d.stack = d.stack[:depth+1]
	top := d.stack[depth]

	switch v := line.(type) {
	case OpenContext:
		d.stack = append(d.stack, d.tree.open(top, v.Title))

	case TextItem:
		top.Children = append(top.Children, &TextLeaf{Level: v.Level, Text: v.Text})
		propagate(top, v.Level)

	case ArtifactItem:
		d.appendArtifact(top, v)
		propagate(top, v.Level)
	}
	return nil
}

func (d *Decoder) appendArtifact(top *Node, item ArtifactItem) {
	ref := ArtifactRef{Artifact: item.Artifact}
	if d.reg != nil && d.suffixes.Match(item.Artifact.Text) != "" {
		category, hasCategory := d.suffixes.Categorize(item.Artifact.Text)
		ref.Viewable = true
		ref.Handle = d.reg.Register(Registration{
			Href:         item.Artifact.Href,
			Name:         item.Artifact.Text,
			Thumb:        item.Artifact.Thumb,
			ThumbSize:    item.Artifact.ThumbSize,
			Category:     category,
			HasCategory:  hasCategory,
			ContextID:    top.ID,
			ContextLabel: top.Label,
		})
	}

	// Merge into the previous leaf iff it is an artifact leaf of identical
	// level; otherwise start a new visual group.
	if len(top.Children) > 0 {
		if prev, ok := top.Children[len(top.Children)-1].(*ArtifactLeaf); ok && prev.Level == item.Level {
			prev.Refs = append(prev.Refs, ref)
			return
		}
	}
	top.Children = append(top.Children, &ArtifactLeaf{Level: item.Level, Refs: []ArtifactRef{ref}})
}
