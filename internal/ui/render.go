package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Dicklesworthstone/system_observer/internal/model"
)

// MaxInterfaces caps the number of interface panels on the Network screen.
const MaxInterfaces = 4

const (
	tabBandHeight    = 3
	footerBandHeight = 3
	appTitle         = "system-observer"
)

// Notice is the one-line status shown in the footer after an action.
type Notice struct {
	Text  string
	Error bool
}

// Frame is everything a single render reads. Compose never writes to it.
type Frame struct {
	Width     int
	Height    int
	Screen    Screen
	Snapshot  model.Snapshot
	Selection Selection
	Notice    Notice
	Keys      KeyMap
}

// Compose renders f as a Width×Height block: a tab band, the active screen's
// body and a footer band.
func Compose(f Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	rows := Split(f.Height, Length(tabBandHeight), Fill(), Length(footerBandHeight))

	var body string
	switch f.Screen {
	case ScreenProcesses:
		body = renderProcesses(f.Snapshot, f.Selection, f.Width, rows[1])
	case ScreenCPU:
		body = renderCPU(f.Snapshot, f.Width, rows[1])
	case ScreenNetwork:
		body = renderNetwork(f.Snapshot, f.Width, rows[1])
	default:
		body = blank(f.Width, rows[1])
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{
		renderTabs(f.Screen, f.Width, rows[0]),
		body,
		renderFooter(f, f.Width, rows[2]),
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

func renderTabs(active Screen, w, h int) string {
	labels := make([]string, 0, screenCount)
	for _, s := range Screens() {
		if s == active {
			labels = append(labels, activeTab.Render(s.String()))
		} else {
			labels = append(labels, inactiveTab.Render(s.String()))
		}
	}
	line := "  " + strings.Join(labels, subtleStyle.Render("  │  "))
	return renderPanel(appTitle, []string{line}, w, h)
}

func renderFooter(f Frame, w, h int) string {
	hm := help.New()
	line := " " + hm.ShortHelpView(f.Keys.Bindings(f.Screen))
	if f.Notice.Text != "" {
		style := noticeInfo
		if f.Notice.Error {
			style = noticeError
		}
		line += subtleStyle.Render("  ·  ") + style.Render(f.Notice.Text)
	}
	return renderPanel("", []string{line}, w, h)
}

// processColumns sizes the five process columns to fill width cells,
// including the one-cell padding each side of every cell.
func processColumns(width int) []table.Column {
	avail := max(0, width-2*5)
	ws := Split(avail, Percent(30), Percent(10), Percent(10), Percent(20), Fill())
	return []table.Column{
		{Title: "Name", Width: ws[0]},
		{Title: "PID", Width: ws[1]},
		{Title: "Status", Width: ws[2]},
		{Title: "Memory", Width: ws[3]},
		{Title: "CPU", Width: ws[4]},
	}
}

func processRow(p model.ProcessRecord) table.Row {
	return table.Row{
		p.Name,
		fmt.Sprintf("%d", p.PID),
		p.Status,
		fmt.Sprintf("%d MB", p.MemoryMB()),
		fmt.Sprintf("%.2f%%", p.CPU),
	}
}

// visibleWindow returns the [start, end) slice of n rows that fits in vis
// lines while keeping the selected row on screen.
func visibleWindow(sel Selection, n, vis int) (int, int) {
	if vis <= 0 || n == 0 {
		return 0, 0
	}
	start := 0
	if idx, ok := sel.Index(); ok && idx >= vis {
		start = idx - vis + 1
	}
	start = min(start, max(0, n-vis))
	return start, min(n, start+vis)
}

func renderProcesses(snap model.Snapshot, sel Selection, w, h int) string {
	if w < 2 || h < 2 {
		return blank(w, h)
	}
	inner, innerH := w-2, h-2
	title := fmt.Sprintf("Processes (%d)", snap.Len())
	if innerH < 1 {
		return renderPanel(title, nil, w, h)
	}

	// The table model scrolls from its cursor without keeping an offset, so
	// the window is cut here and the cursor made relative to it.
	start, end := visibleWindow(sel, snap.Len(), innerH-1)
	rows := make([]table.Row, 0, end-start)
	for _, p := range snap.Processes[start:end] {
		rows = append(rows, processRow(p))
	}

	styles := table.Styles{Header: tableHeader, Cell: tableCell, Selected: lipgloss.NewStyle()}
	idx, selected := sel.Index()
	highlight := selected && idx >= start && idx < end
	if highlight {
		styles.Selected = selectedRow
	}
	t := table.New(
		table.WithColumns(processColumns(inner)),
		table.WithRows(rows),
		table.WithHeight(innerH),
		table.WithWidth(inner),
		table.WithStyles(styles),
	)
	if highlight {
		t.SetCursor(idx - start)
	}

	lines := strings.Split(t.View(), "\n")
	if snap.Len() == 0 && innerH > 1 {
		lines = append(lines[:1], placeholder.Render(" no processes reported"))
	}
	return renderPanel(title, lines, w, h)
}

// gaugePercent is the integer percentage a gauge displays: v clamped to
// [0, 100] and truncated.
func gaugePercent(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(v)
}

func gauge(fill string, pct, width int) string {
	bar := progress.New(
		progress.WithSolidFill(fill),
		progress.WithWidth(width),
		progress.WithColorProfile(lipgloss.ColorProfile()),
	)
	return bar.ViewAs(float64(pct) / 100)
}

func renderCPU(snap model.Snapshot, w, h int) string {
	rows := Split(h, Percent(40), Percent(30), Fill())
	inner := max(0, w-2)

	c := snap.CPU
	cpuTitle := fmt.Sprintf("CPU Utilization · %d cores · %d MHz avg", c.Cores, c.FrequencyMHz)
	cpuPanel := renderPanel(cpuTitle, []string{
		labelStyle.Render(c.Brand),
		gauge(gaugeCPUFill, gaugePercent(c.Utilization), inner),
	}, w, rows[0])

	r := snap.RAM
	ramPanel := renderPanel("RAM Utilization", []string{
		fmt.Sprintf("%s %d MB   %s %d MB   %s %d MB",
			labelStyle.Render("Used"), r.UsedMB,
			labelStyle.Render("Total"), r.TotalMB,
			labelStyle.Render("Available"), r.AvailableMB()),
		gauge(gaugeRAMFill, gaugePercent(r.UsedPercent()), inner),
	}, w, rows[1])

	infoPanel := renderPanel("System Info", sysInfoLines(snap.Sys, inner), w, rows[2])

	parts := make([]string, 0, 3)
	for _, p := range []string{cpuPanel, ramPanel, infoPanel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

// sysInfoLines lays the host fields out as two rows of three equal cells.
func sysInfoLines(s model.SysInfo, width int) []string {
	cells := [][]string{
		{field("OS Name", s.OSName), field("OS Version", s.OSVersion), field("Kernel Version", s.KernelVersion)},
		{field("Host Name", s.HostName), field("Uptime", formatUptime(s.UptimeSeconds)), field("Architecture", s.Arch)},
	}
	ws := EvenSplit(width, 3)
	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		var b strings.Builder
		for i, cell := range row {
			b.WriteString(fit(" "+cell, ws[i], " "))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

// formatUptime renders seconds as e.g. "3d 4h 12m (273,120s)".
func formatUptime(secs int64) string {
	if secs < 0 {
		return model.Unknown
	}
	d := time.Duration(secs) * time.Second
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	mins := int64(d / time.Minute)
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm (%ss)", days, hours, mins, humanize.Comma(secs))
	}
	return fmt.Sprintf("%dh %dm (%ss)", hours, mins, humanize.Comma(secs))
}

func renderNetwork(snap model.Snapshot, w, h int) string {
	ifaces := snap.SortedInterfaces()
	shown := min(len(ifaces), MaxInterfaces)
	title := fmt.Sprintf("Network Interfaces · showing %d of %d", shown, len(ifaces))
	if w < 2 || h < 2 {
		return blank(w, h)
	}
	inner, innerH := w-2, h-2
	if shown == 0 || innerH < 1 {
		return renderPanel(title, []string{placeholder.Render(" no interfaces reported")}, w, h)
	}

	ws := EvenSplit(inner, MaxInterfaces)
	cols := make([]string, 0, MaxInterfaces)
	for i := 0; i < MaxInterfaces; i++ {
		if i < shown {
			cols = append(cols, renderInterface(ifaces[i], ws[i], innerH))
		} else {
			cols = append(cols, blank(ws[i], innerH))
		}
	}
	block := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	return renderPanel(title, strings.Split(block, "\n"), w, h)
}

func renderInterface(n model.NetworkInterface, w, h int) string {
	lines := []string{
		field("MAC", n.MAC),
		field("Egress", humanize.Comma(int64(n.BytesSent))+" B"),
		field("Ingress", humanize.Comma(int64(n.BytesRecv))+" B"),
		field("Packets out", humanize.Comma(int64(n.PacketsSent))),
		field("Packets in", humanize.Comma(int64(n.PacketsRecv))),
	}
	for i := range lines {
		lines[i] = " " + lines[i]
	}
	return fitBlock(renderPanel(n.Name, lines, w, h), w, h)
}

// Placeholder is shown until the first snapshot arrives.
func Placeholder(w, h int, window time.Duration) string {
	msg := placeholder.Render(fmt.Sprintf("sampling (%s window)…", window))
	if w <= 0 || h <= 0 {
		return msg
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
}
