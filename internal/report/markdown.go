package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lottolab/domain/analysis"
)

// RenderMarkdown produces a human-readable markdown report for a snapshot:
// one table row per test, degraded tests called out below it.
func RenderMarkdown(snapshot *analysis.Snapshot) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Draw analysis (%s)\n\n", snapshot.ScopeName)
	fmt.Fprintf(&b, "Covers draws up to **#%d**, computed %s.\n\n", snapshot.MaxDrawNoCovered, snapshot.ComputedAt.Format("2006-01-02 15:04:05 MST"))

	names := make([]string, 0, len(snapshot.Results))
	for name := range snapshot.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("| Test | Statistic | df | p-value | n |\n")
	b.WriteString("|---|---|---|---|---|\n")
	var failed []string
	for _, name := range names {
		r := snapshot.Results[name]
		if r.Failed() {
			failed = append(failed, name)
			fmt.Fprintf(&b, "| %s | — | — | — | %d |\n", name, r.SampleSize)
			continue
		}
		df := "—"
		if r.DegreesOfFreedom != nil {
			df = fmt.Sprintf("%d", *r.DegreesOfFreedom)
		}
		fmt.Fprintf(&b, "| %s | %.4f | %s | %.4g | %d |\n", name, r.Statistic, df, r.PValue, r.SampleSize)
	}

	if len(failed) > 0 {
		b.WriteString("\n## Degraded tests\n\n")
		for _, name := range failed {
			detail := snapshot.Results[name].Detail
			fmt.Fprintf(&b, "- **%s**: %v\n", name, detail["error"])
		}
	}

	return []byte(b.String())
}

// RenderHTML converts the markdown report to an HTML fragment.
func RenderHTML(snapshot *analysis.Snapshot) []byte {
	md := RenderMarkdown(snapshot)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
