package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/f3rmion/livevote/internal/vote"
)

var opts = []vote.Option{
	{ID: vote.OptionYes, Label: "Sim"},
	{ID: vote.OptionNo, Label: "Não"},
}

func TestRenderLine(t *testing.T) {
	r := NewRenderer(opts, "", "")
	if err := r.SetTemplate(LineTemplate); err != nil {
		t.Fatal(err)
	}
	got, err := r.Render(vote.Tally{vote.OptionYes: 3, vote.OptionNo: 1}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if want := "Sim: 3 (75%) | Não: 1 (25%)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderBlock(t *testing.T) {
	r := NewRenderer(opts, "Vai chover?", "")
	got, err := r.Render(vote.Tally{vote.OptionYes: 1, vote.OptionNo: 2}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "Vai chover?\n") {
		t.Errorf("missing title: %q", got)
	}
	if !strings.Contains(got, "* Não") {
		t.Errorf("leader not marked: %q", got)
	}
	if !strings.HasSuffix(got, "total 3, leading: Não") {
		t.Errorf("unexpected footer: %q", got)
	}
}

func TestRenderNoVotes(t *testing.T) {
	r := NewRenderer(opts, "", "")
	got, err := r.Render(vote.Tally{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "leading") || strings.Contains(got, "*") {
		t.Errorf("no leader expected: %q", got)
	}
}

func TestSetTemplateError(t *testing.T) {
	r := NewRenderer(opts, "", "")
	if err := r.SetTemplate("{{.Rows"); err == nil {
		t.Error("expected parse error")
	}
}
