package report

import (
	"fmt"
	"math"
	"strings"

	"resframe/domain/network"
	"resframe/domain/run"
	"resframe/domain/timeseries"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders an aggregation run as a markdown document: run
// metadata, optional network counts, and the entity table.
func Markdown(r *run.Run, net *network.Network) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Aggregation run %s\n\n", r.ID)
	fmt.Fprintf(&b, "- **Source**: %s\n", r.Source)
	fmt.Fprintf(&b, "- **Strategy**: %s\n", r.Strategy)
	fmt.Fprintf(&b, "- **Created**: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Entities**: %d\n\n", len(r.Entities))

	if net != nil {
		b.WriteString("## Network\n\n")
		counts := net.Counts()
		for _, group := range timeseries.AllGroups {
			if group == timeseries.GroupGlobal {
				continue
			}
			fmt.Fprintf(&b, "- %d %ss\n", counts[group], strings.ToLower(group.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Results\n\n")
	b.WriteString("| entity |")
	for _, c := range r.Columns {
		fmt.Fprintf(&b, " %s |", c)
	}
	b.WriteString("\n|---|")
	for range r.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, entity := range r.Entities {
		fmt.Fprintf(&b, "| %s |", entity)
		for j := range r.Columns {
			v := math.NaN()
			if i < len(r.Values) && j < len(r.Values[i]) {
				v = r.Values[i][j]
			}
			if math.IsNaN(v) {
				b.WriteString(" - |")
			} else {
				fmt.Fprintf(&b, " %.4f |", v)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the markdown report as an HTML fragment.
func HTML(r *run.Run, net *network.Network) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(r, net)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
