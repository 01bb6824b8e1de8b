package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var (
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#29894E", Dark: "#04B575"})
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
	poemStyle    = lipgloss.NewStyle().Italic(true)
)

// keyword renders a span of help text in the accent color.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

func subtle(s string) string {
	return subtleStyle.Render(s)
}

// paragraph wraps and indents long-form help text.
func paragraph(s string) string {
	return indent.String(wordwrap.String(s, 76), 2)
}
