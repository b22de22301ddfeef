package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/evalf/runview/internal/stream"
	"github.com/evalf/runview/internal/theater"
	"github.com/evalf/runview/internal/transport"
)

func decodeFixture(t *testing.T, input string) (*stream.Tree, *theater.Registry) {
	t.Helper()
	reg := theater.NewRegistry()
	dec := stream.NewDecoder(reg, stream.NewSuffixes([]string{".png"}))
	if _, err := dec.Write([]byte(input)); err != nil {
		t.Fatal(err)
	}
	return dec.Tree(), reg
}

const renderInput = "0c\"solve\"\n" +
	"1t0\"diverged\"\n" +
	"1a3{\"text\":\"mesh0.png\",\"href\":\"/mesh0.png\"}\n" +
	"1a3{\"text\":\"notes.txt\",\"href\":\"/notes.txt\"}\n" +
	"0t4\"exit hooks\"\n"

func rowTexts(rows []Row) []string {
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text
	}
	return texts
}

func TestTreeRowsFull(t *testing.T) {
	tree, _ := decodeFixture(t, renderInput)
	st := LogState{Collapsed: map[int]bool{}, LogLevel: 4}
	rows := TreeRows(tree, st, DefaultStyles())
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d: %q", len(rows), rowTexts(rows))
	}
	if !strings.Contains(rows[0].Text, "▾ solve") || rows[0].Node == nil {
		t.Errorf("expected an expanded title row, got %+v", rows[0])
	}
	if !strings.Contains(rows[1].Text, "diverged") || !strings.HasPrefix(rows[1].Text, "  ") {
		t.Errorf("expected an indented text row, got %q", rows[1].Text)
	}
	if !strings.Contains(rows[2].Text, "mesh0.png") || !strings.Contains(rows[2].Text, "notes.txt") {
		t.Errorf("coalesced artifacts must share a row, got %q", rows[2].Text)
	}
	if rows[2].Anchor != "plot-0" || rows[2].Href != "/mesh0.png" {
		t.Errorf("artifact row must carry the first viewable ref, got %+v", rows[2])
	}
	if !strings.Contains(rows[3].Text, "exit hooks") {
		t.Errorf("expected the root-level debug row last, got %q", rows[3].Text)
	}
}

func TestTreeRowsCollapsed(t *testing.T) {
	tree, _ := decodeFixture(t, renderInput)
	st := LogState{Collapsed: map[int]bool{1: true}, LogLevel: 4}
	rows := TreeRows(tree, st, DefaultStyles())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows with the context folded, got %d: %q", len(rows), rowTexts(rows))
	}
	if !strings.Contains(rows[0].Text, "▸ solve") {
		t.Errorf("expected a folded title row, got %q", rows[0].Text)
	}
}

func TestTreeRowsVerbosityFilter(t *testing.T) {
	tree, _ := decodeFixture(t, renderInput)
	st := LogState{Collapsed: map[int]bool{}, LogLevel: 0}
	rows := TreeRows(tree, st, DefaultStyles())
	if len(rows) != 2 {
		t.Fatalf("expected only the error path at verbosity 0, got %d: %q", len(rows), rowTexts(rows))
	}
	if !strings.Contains(rows[1].Text, "diverged") {
		t.Errorf("expected the error leaf to survive, got %q", rows[1].Text)
	}
}

func TestTreeRowsHidesQuietContexts(t *testing.T) {
	tree, _ := decodeFixture(t, "0c\"noisy\"\n1t4\"chatter\"\n0t2\"done\"\n")
	st := LogState{Collapsed: map[int]bool{}, LogLevel: 2}
	rows := TreeRows(tree, st, DefaultStyles())
	if len(rows) != 1 || !strings.Contains(rows[0].Text, "done") {
		t.Fatalf("a context with only filtered leaves must hide, got %q", rowTexts(rows))
	}
}

func TestTreeRowsSplitsMultilineText(t *testing.T) {
	tree, _ := decodeFixture(t, "0t2\"first\\nsecond\"\n")
	st := LogState{Collapsed: map[int]bool{}, LogLevel: 4}
	rows := TreeRows(tree, st, DefaultStyles())
	if len(rows) != 2 {
		t.Fatalf("expected one row per line, got %d: %q", len(rows), rowTexts(rows))
	}
}

func TestRenderStatus(t *testing.T) {
	p := transport.Progress{
		Context: []string{"solve", "iter 3"},
		Text:    "residual 1e-3",
		State:   transport.StateFinished,
	}
	got := RenderStatus(p, nil, DefaultStyles())
	want := "solve > iter 3 > residual 1e-3 · finished"
	if !strings.Contains(got, want) {
		t.Errorf("got %q, want it to contain %q", got, want)
	}

	got = RenderStatus(transport.Progress{State: transport.StateRunning}, errors.New("boom"), DefaultStyles())
	if !strings.Contains(got, "[boom]") {
		t.Errorf("expected the tail error in the status line, got %q", got)
	}
}
