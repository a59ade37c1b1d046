package report

import (
	"strings"
	"testing"
	"time"

	"lottolab/domain/analysis"
	apperrors "lottolab/internal/errors"
)

func sampleSnapshot() *analysis.Snapshot {
	df := 44
	return &analysis.Snapshot{
		ID:               "snap-1",
		ScopeName:        "cheap",
		MaxDrawNoCovered: 1154,
		ComputedAt:       time.Date(2026, 8, 22, 21, 0, 0, 0, time.UTC),
		Results: map[string]analysis.TestResult{
			"frequency_uniformity": {
				TestName:         "frequency_uniformity",
				Statistic:        41.7,
				DegreesOfFreedom: &df,
				PValue:           0.57,
				SampleSize:       6924,
			},
			"sum_runs": analysis.Degraded("sum_runs", 1, apperrors.InsufficientSamples("too short")),
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := string(RenderMarkdown(sampleSnapshot()))

	for _, want := range []string{
		"# Draw analysis (cheap)",
		"up to **#1154**",
		"| Test | Statistic | df | p-value | n |",
		"| frequency_uniformity | 41.7000 | 44 | 0.57 | 6924 |",
		"## Degraded tests",
		"**sum_runs**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownNoDegradedSectionWhenClean(t *testing.T) {
	snapshot := sampleSnapshot()
	delete(snapshot.Results, "sum_runs")

	md := string(RenderMarkdown(snapshot))
	if strings.Contains(md, "Degraded tests") {
		t.Error("clean snapshot must not render a degraded section")
	}
}

func TestRenderHTMLProducesTable(t *testing.T) {
	html := string(RenderHTML(sampleSnapshot()))
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected an HTML table, got:\n%s", html)
	}
	if !strings.Contains(html, "frequency_uniformity") {
		t.Error("expected test name in HTML output")
	}
}
