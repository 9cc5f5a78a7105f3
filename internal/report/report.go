// Package report prints a one-shot diagnostic of a registry to a console.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorwatch/internal/chart"
	"github.com/luki/sensorwatch/internal/registry"
)

var (
	titleS = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	dimS   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nameS  = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)
)

// Write prints the summary, each sensor's offline flag and its number of
// readings within window.
func Write(w io.Writer, reg *registry.Registry, window time.Duration) error {
	sum := reg.Summary()
	statuses := reg.Statuses()

	var sb strings.Builder
	sb.WriteString(titleS.Render("=== SENSOR MONITOR ===") + "\n")
	fmt.Fprintf(&sb, "Summary: total=%d online=%d offline=%d\n", sum.Total, sum.Online, sum.Offline)

	idW := 8
	for _, st := range statuses {
		if len(st.Sensor.ID) > idW {
			idW = len(st.Sensor.ID)
		}
	}

	for _, st := range statuses {
		id := st.Sensor.ID
		recent := len(reg.RecentReadings(id, window))
		fmt.Fprintf(&sb, "%s %s offline? %-5t %s %s %s %s\n",
			nameS.Render(fmt.Sprintf("%-*s", idW, id)),
			dimS.Render(fmt.Sprintf("%-20s", st.Sensor.Name)),
			st.Offline,
			chart.RenderStatus(st.Offline),
			dimS.Render("silent "+chart.FormatAge(st.Elapsed)+" / "+chart.FormatAge(st.Threshold)),
			dimS.Render(fmt.Sprintf("recent(%s):", chart.FormatAge(window))),
			fmt.Sprint(recent),
		)
	}

	if n := reg.Orphans(); n > 0 {
		fmt.Fprintf(&sb, "%s\n", dimS.Render(fmt.Sprintf("orphan readings: %d", n)))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
