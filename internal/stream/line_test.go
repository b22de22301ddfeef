package stream

import "testing"

func TestParseLineVariants(t *testing.T) {
	depth, line, err := ParseLine([]byte(`12c"newton iter 3"`))
	if err != nil {
		t.Fatalf("context line: %v", err)
	}
	if depth != 12 {
		t.Errorf("expected depth 12, got %d", depth)
	}
	if open, ok := line.(OpenContext); !ok || open.Title != "newton iter 3" {
		t.Errorf("unexpected variant: %#v", line)
	}

	_, line, err = ParseLine([]byte(`1t1"watch out"`))
	if err != nil {
		t.Fatalf("text line: %v", err)
	}
	if text, ok := line.(TextItem); !ok || text.Level != LevelWarning || text.Text != "watch out" {
		t.Errorf("unexpected variant: %#v", line)
	}

	_, line, err = ParseLine([]byte(`2a2{"text":"u.png","href":"/u.png","thumb":"/u.thumb.png","thumb_size":[320,240]}`))
	if err != nil {
		t.Fatalf("artifact line: %v", err)
	}
	art, ok := line.(ArtifactItem)
	if !ok || art.Level != LevelUser {
		t.Fatalf("unexpected variant: %#v", line)
	}
	if art.Artifact.Href != "/u.png" || art.Artifact.Thumb != "/u.thumb.png" {
		t.Errorf("unexpected artifact: %+v", art.Artifact)
	}
	if art.Artifact.ThumbSize == nil || *art.Artifact.ThumbSize != [2]int{320, 240} {
		t.Errorf("unexpected thumb size: %v", art.Artifact.ThumbSize)
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, raw := range []string{
		``,
		`c"no depth"`,
		`0`,
		`0x"unknown kind"`,
		`0t"missing level"`,
		`0t5"level out of range"`,
		`0tnot-json`,
		`0a2{"text":"no href"}`,
		`0cunquoted`,
	} {
		if _, _, err := ParseLine([]byte(raw)); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	if !LevelError.MoreSevere(LevelDebug) {
		t.Error("error must outrank debug")
	}
	if LevelDebug.MoreSevere(LevelError) {
		t.Error("debug must not outrank error")
	}
	if got := LevelUser.String(); got != "user" {
		t.Errorf("expected user, got %q", got)
	}
}
