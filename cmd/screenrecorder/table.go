package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"screenrecorder/internal/recorderctl"
)

var severityColors = map[string]text.Colors{
	"ok":    {text.FgGreen},
	"warn":  {text.FgYellow},
	"error": {text.FgRed},
	"info":  {text.FgHiBlack},
}

// renderStatusTable renders status lines as a Check/State/Detail table.
// State cells are coloured by severity when colorize is set.
func renderStatusTable(lines []recorderctl.StatusLine, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Check", "State", "Detail"})

	for _, line := range lines {
		state := strings.ToUpper(line.Severity)
		if colors, ok := severityColors[line.Severity]; ok && colorize {
			state = colors.Sprint(state)
		}
		tw.AppendRow(table.Row{line.Label, state, line.Detail})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignCenter, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
