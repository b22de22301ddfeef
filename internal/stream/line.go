package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Level is a log severity. Smaller values are more severe.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelUser
	LevelInfo
	LevelDebug

	numLevels = 5
)

var levelNames = [numLevels]string{"error", "warning", "user", "info", "debug"}

func (l Level) String() string {
	if l < 0 || l >= numLevels {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return l >= 0 && l < numLevels
}

// MoreSevere reports whether l outranks other (numerically smaller).
func (l Level) MoreSevere(other Level) bool {
	return l < other
}

// Artifact is the structured payload of an artifact line: a reference to a
// file written by the producing job.
type Artifact struct {
	Text      string  `json:"text"`
	Href      string  `json:"href"`
	Thumb     string  `json:"thumb,omitempty"`
	ThumbSize *[2]int `json:"thumb_size,omitempty"`
}

// Line is one decoded log stream line. Exactly one of the three variants
// implements it: OpenContext, TextItem or ArtifactItem.
type Line interface {
	isLine()
}

// OpenContext opens a nested logging scope.
type OpenContext struct {
	Title string
}

// TextItem is a plain leveled message.
type TextItem struct {
	Level Level
	Text  string
}

// ArtifactItem is a leveled reference to a produced file.
type ArtifactItem struct {
	Level    Level
	Artifact Artifact
}

func (OpenContext) isLine()  {}
func (TextItem) isLine()     {}
func (ArtifactItem) isLine() {}

// DecodeError reports a malformed log stream line. It is fatal to the
// decode: resuming past a corrupt line would desynchronize the tree.
type DecodeError struct {
	Line int
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("log stream line %d: %s", e.Line, e.Msg)
}

// ParseLine decodes one complete line (terminator already stripped) into its
// depth and tagged variant. The wire form is <depth><kind><payload>: kind 'c'
// carries a JSON string title, kinds 't' and 'a' carry a level digit followed
// by a JSON string or object.
func ParseLine(raw []byte) (depth int, line Line, err error) {
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		depth = depth*10 + int(raw[i]-'0')
		i++
	}
	if i == 0 {
		return 0, nil, fmt.Errorf("missing depth prefix in %q", truncate(raw))
	}
	if i == len(raw) {
		return 0, nil, fmt.Errorf("missing line type in %q", truncate(raw))
	}
	kind := raw[i]
	rest := raw[i+1:]

	switch kind {
	case 'c':
		var title string
		if err := json.Unmarshal(rest, &title); err != nil {
			return 0, nil, fmt.Errorf("bad context title: %v", err)
		}
		return depth, OpenContext{Title: title}, nil

	case 't', 'a':
		if len(rest) == 0 || rest[0] < '0' || rest[0] > '0'+numLevels-1 {
			return 0, nil, fmt.Errorf("missing or invalid level digit in %q", truncate(raw))
		}
		level := Level(rest[0] - '0')
		payload := rest[1:]
		if kind == 't' {
			var text string
			if err := json.Unmarshal(payload, &text); err != nil {
				return 0, nil, fmt.Errorf("bad text payload: %v", err)
			}
			return depth, TextItem{Level: level, Text: text}, nil
		}
		var art Artifact
		if err := json.Unmarshal(payload, &art); err != nil {
			return 0, nil, fmt.Errorf("bad artifact payload: %v", err)
		}
		if art.Href == "" {
			return 0, nil, fmt.Errorf("artifact payload without href in %q", truncate(raw))
		}
		return depth, ArtifactItem{Level: level, Artifact: art}, nil

	default:
		return 0, nil, fmt.Errorf("unknown line type %q in %q", kind, truncate(raw))
	}
}

func truncate(raw []byte) string {
	const max = 40
	if len(raw) <= max {
		return string(raw)
	}
	return string(bytes.TrimRight(raw[:max], " ")) + "..."
}
