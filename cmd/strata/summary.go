package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-strata/pkg/fusion"
	"github.com/dd0wney/cluso-strata/pkg/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginRight(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(18)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))
)

func line(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func renderSummary(res *pipeline.Result) string {
	nodes, edges := fusion.Counts(res.Graph)

	resolved := strings.Join([]string{
		line("units", len(res.Sorts)),
		line("groups", len(res.Groups.Order)),
		line("supergroups", len(res.Supergroups.Supergroups)),
		line("faults", len(res.Faults)),
		line("unit cycles", res.Strat.Cycles),
		line("group cycles", res.Groups.Cycles),
		line("fault cycles", res.Network.Cycles),
	}, "\n")

	var graph []string
	for _, t := range []string{fusion.NodeFormation, fusion.NodeGroup, fusion.NodeSupergroup, fusion.NodeFault} {
		graph = append(graph, line(t+" nodes", nodes[t]))
	}
	total := 0
	for _, n := range edges {
		total += n
	}
	graph = append(graph, line("edges", total))

	var s strings.Builder
	s.WriteString(titleStyle.Render("strata run " + res.RunID))
	s.WriteString("\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(resolved),
		boxStyle.Render(strings.Join(graph, "\n")),
	))
	s.WriteString("\n")
	if n := len(res.Warnings); n > 0 {
		s.WriteString(warnStyle.Render(fmt.Sprintf("%d warnings, see warnings.csv", n)))
		s.WriteString("\n")
	}
	s.WriteString(fmt.Sprintf("%d artifacts written in %s", len(res.Artifacts), res.Duration.Round(time.Millisecond)))
	return s.String()
}
