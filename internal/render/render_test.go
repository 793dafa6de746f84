package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() (time.Time, error) { return c.t, nil }

func wednesdayView(t *testing.T) app.WidgetView {
	t.Helper()
	wed := time.Date(2026, time.October, 21, 14, 3, 5, 0, time.Local)
	return app.SnapshotView(fixedClock{wed}, "Cronograma de Estudos", app.ResolveLocale("pt-BR"))
}

func TestWidget_HighlightsActiveCard(t *testing.T) {
	var buf bytes.Buffer
	if err := Widget(&buf, wednesdayView(t)); err != nil {
		t.Fatalf("Widget: %v", err)
	}
	out := buf.String()

	if n := strings.Count(out, `class="card active"`); n != 1 {
		t.Fatalf("want exactly one active card, got %d", n)
	}
	if !strings.Contains(out, `class="card active" data-card="3"`) {
		t.Fatalf("wednesday card should be active:\n%s", out)
	}
	if strings.Contains(out, "ZgotmplZ") {
		t.Fatalf("unsafe style escaped by html/template:\n%s", out)
	}
	if !strings.Contains(out, "21/10/2026 14:03:05") {
		t.Fatalf("missing timestamp")
	}
	if strings.Count(out, `class="sw"`) != 6 {
		t.Fatalf("legend should list 6 categories")
	}
}

func TestWidget_SkeletonWhileLoading(t *testing.T) {
	v := wednesdayView(t)
	v.State.Ready = false
	v.Cards = nil
	v.Skeleton = 7

	var buf bytes.Buffer
	if err := Widget(&buf, v); err != nil {
		t.Fatalf("Widget: %v", err)
	}
	out := buf.String()
	if strings.Count(out, `class="skeleton"`) != 7 {
		t.Fatalf("want 7 skeleton cells:\n%s", out)
	}
	if strings.Contains(out, `class="card`) {
		t.Fatalf("no data-bound card while loading")
	}
}

func TestPage_ScriptOnlyWithSession(t *testing.T) {
	v := wednesdayView(t)

	var static bytes.Buffer
	if err := Page(&static, v); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if strings.Contains(static.String(), "<script>") {
		t.Fatalf("static page should not embed the live script")
	}

	v.SessionID = "abc"
	var live bytes.Buffer
	if err := Page(&live, v); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(live.String(), `"abc"`) || !strings.Contains(live.String(), "EventSource") {
		t.Fatalf("live page should wire the session script")
	}
}

func TestExport_HTMLAndJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := wednesdayView(t)
	v.SessionID = "should-be-dropped"

	if err := Export(fs, "out/week.html", FormatFromPath("out/week.html"), v); err != nil {
		t.Fatalf("Export html: %v", err)
	}
	b, err := afero.ReadFile(fs, "out/week.html")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `data-card="3"`) || strings.Contains(string(b), "should-be-dropped") {
		t.Fatalf("unexpected html export")
	}

	if err := Export(fs, "week.json", FormatFromPath("week.JSON"), v); err != nil {
		t.Fatalf("Export json: %v", err)
	}
	b, _ = afero.ReadFile(fs, "week.json")
	var got app.WidgetView
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(got.Cards) != 7 || !got.Cards[3].Highlighted {
		t.Fatalf("unexpected json export %+v", got.Cards)
	}

	if err := Export(fs, "x.pdf", "pdf", v); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
