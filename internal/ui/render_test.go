package ui

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/system_observer/internal/model"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testSnapshot() model.Snapshot {
	snap := model.Zero()
	snap.Processes = []model.ProcessRecord{
		{Name: "chrome", PID: 4242, Status: "running", MemoryBytes: 512_000_000, CPU: 25},
		{Name: "postgres", PID: 77, Status: "sleep", MemoryBytes: 12_500_000, CPU: 3.125},
		{Name: "bash", PID: 1, Status: "sleep", MemoryBytes: 999_999, CPU: 0},
	}
	snap.CPU = model.CpuInfo{Utilization: 37.9, Cores: 8, FrequencyMHz: 3200, Brand: "Fake CPU 9000"}
	snap.RAM = model.RamInfo{TotalMB: 16000, UsedMB: 10000}
	snap.Sys = model.SysInfo{OSName: "FakeOS", OSVersion: "1.2", KernelVersion: "6.9.0", HostName: "box", UptimeSeconds: 93784, Arch: "x86_64"}
	snap.Interfaces = map[string]model.NetworkInterface{
		"eth0": {Name: "eth0", MAC: "aa:bb:cc:dd:ee:00", BytesSent: 1234567, BytesRecv: 89, PacketsSent: 10, PacketsRecv: 20},
	}
	return snap
}

func frameFor(screen Screen, w, h int, snap model.Snapshot) Frame {
	return Frame{Width: w, Height: h, Screen: screen, Snapshot: snap, Keys: DefaultKeyMap()}
}

func assertDimensions(t *testing.T, out string, w, h int) {
	t.Helper()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, h)
	for i, line := range lines {
		assert.Equal(t, w, lipgloss.Width(line), "line %d: %q", i, line)
	}
}

func TestCompose_FillsRectangle(t *testing.T) {
	snap := testSnapshot()
	for _, s := range Screens() {
		t.Run(s.String(), func(t *testing.T) {
			assertDimensions(t, Compose(frameFor(s, 120, 40, snap)), 120, 40)
		})
	}
}

func TestCompose_TinyAreasDoNotPanic(t *testing.T) {
	snap := testSnapshot()
	for _, s := range Screens() {
		for w := 1; w <= 14; w++ {
			for h := 1; h <= 9; h++ {
				out := Compose(frameFor(s, w, h, snap))
				assertDimensions(t, out, w, h)
			}
		}
	}
	assert.Empty(t, Compose(frameFor(ScreenProcesses, 0, 10, snap)))
}

func TestCompose_TabBand(t *testing.T) {
	out := Compose(frameFor(ScreenCPU, 100, 30, testSnapshot()))
	first3 := strings.Join(strings.Split(out, "\n")[:3], "\n")

	assert.Contains(t, first3, "system-observer")
	assert.Contains(t, first3, "Processes")
	assert.Contains(t, first3, "Cpu")
	assert.Contains(t, first3, "Network")
}

func TestCompose_ProcessesTable(t *testing.T) {
	out := Compose(frameFor(ScreenProcesses, 120, 30, testSnapshot()))

	for _, col := range []string{"Name", "PID", "Status", "Memory", "CPU"} {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "Processes (3)")
	assert.Contains(t, out, "chrome")
	assert.Contains(t, out, "4242")
	assert.Contains(t, out, "512 MB")
	assert.Contains(t, out, "25.00%")
	assert.Contains(t, out, "3.12%")
	assert.Contains(t, out, "0 MB")

	// Snapshot order is preserved.
	assert.Less(t, strings.Index(out, "chrome"), strings.Index(out, "postgres"))
	assert.Less(t, strings.Index(out, "postgres"), strings.Index(out, "bash"))
}

func TestCompose_ProcessesScrollsToSelection(t *testing.T) {
	snap := model.Zero()
	for i := 0; i < 50; i++ {
		snap.Processes = append(snap.Processes, model.ProcessRecord{Name: fmt.Sprintf("proc-%02d", i), PID: int32(1000 + i)})
	}
	f := frameFor(ScreenProcesses, 100, 20, snap)

	f.Selection = SelectAt(45)
	out := Compose(f)
	assert.Contains(t, out, "proc-45")
	assert.NotContains(t, out, "proc-00")

	f.Selection = NoSelection()
	out = Compose(f)
	assert.Contains(t, out, "proc-00")
	assert.NotContains(t, out, "proc-45")
}

func TestCompose_EmptyProcessList(t *testing.T) {
	out := Compose(frameFor(ScreenProcesses, 80, 20, model.Zero()))
	assert.Contains(t, out, "Processes (0)")
	assert.Contains(t, out, "no processes reported")
}

func TestCompose_CPUScreen(t *testing.T) {
	out := Compose(frameFor(ScreenCPU, 120, 40, testSnapshot()))

	assert.Contains(t, out, "8 cores")
	assert.Contains(t, out, "3200 MHz")
	assert.Contains(t, out, "Fake CPU 9000")
	assert.Contains(t, out, " 37%")

	assert.Contains(t, out, "Used 10000 MB")
	assert.Contains(t, out, "Total 16000 MB")
	assert.Contains(t, out, "Available 6000 MB")
	assert.Contains(t, out, " 62%")

	assert.Contains(t, out, "OS Name: FakeOS")
	assert.Contains(t, out, "Kernel Version: 6.9.0")
	assert.Contains(t, out, "Host Name: box")
	assert.Contains(t, out, "1d 2h 3m")
	assert.Contains(t, out, "Architecture: x86_64")
}

func TestCompose_CPUScreenUnknownFields(t *testing.T) {
	snap := model.Zero()
	snap.CPU.Brand = model.Unknown
	out := Compose(frameFor(ScreenCPU, 120, 40, snap))

	assert.Contains(t, out, "OS Name: unknown")
	assert.Contains(t, out, "Uptime: unknown")
	assert.Contains(t, out, "  0%")
}

func TestCompose_NetworkCapsInterfaces(t *testing.T) {
	snap := model.Zero()
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("eth%d", i)
		snap.Interfaces[name] = model.NetworkInterface{Name: name, MAC: fmt.Sprintf("00:00:00:00:00:0%d", i)}
	}

	out := Compose(frameFor(ScreenNetwork, 200, 40, snap))

	for _, shown := range []string{"eth0", "eth1", "eth2", "eth3"} {
		assert.Contains(t, out, shown)
	}
	assert.NotContains(t, out, "eth4")
	assert.NotContains(t, out, "eth5")
	assert.Contains(t, out, "showing 4 of 6")
	assertDimensions(t, out, 200, 40)
}

func TestCompose_NetworkCounters(t *testing.T) {
	out := Compose(frameFor(ScreenNetwork, 160, 30, testSnapshot()))

	assert.Contains(t, out, "MAC: aa:bb:cc:dd:ee:00")
	assert.Contains(t, out, "Egress: 1,234,567 B")
	assert.Contains(t, out, "Ingress: 89 B")
	assert.Contains(t, out, "Packets out: 10")
	assert.Contains(t, out, "Packets in: 20")
	assert.Contains(t, out, "showing 1 of 1")
}

func TestCompose_NetworkEmpty(t *testing.T) {
	out := Compose(frameFor(ScreenNetwork, 80, 20, model.Zero()))
	assert.Contains(t, out, "no interfaces reported")
}

func TestCompose_FooterHelpPerScreen(t *testing.T) {
	procs := Compose(frameFor(ScreenProcesses, 120, 20, testSnapshot()))
	assert.Contains(t, procs, "kill")
	assert.Contains(t, procs, "quit")

	cpu := Compose(frameFor(ScreenCPU, 120, 20, testSnapshot()))
	assert.NotContains(t, cpu, "kill")
	assert.Contains(t, cpu, "next screen")
}

func TestCompose_FooterNotice(t *testing.T) {
	f := frameFor(ScreenProcesses, 140, 20, testSnapshot())
	f.Notice = Notice{Text: "permission denied killing init (1)", Error: true}

	lines := strings.Split(Compose(f), "\n")
	footer := strings.Join(lines[len(lines)-3:], "\n")
	assert.Contains(t, footer, "permission denied killing init (1)")
}

func TestGaugePercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-3, 0}, {0, 0}, {37.9, 37}, {62.5, 62}, {99.99, 99}, {100, 100}, {250, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gaugePercent(tt.in), "%v", tt.in)
	}

	ram := model.RamInfo{TotalMB: 16000, UsedMB: 10000}
	assert.Equal(t, 62, gaugePercent(ram.UsedPercent()))
	assert.Equal(t, ram.TotalMB-ram.UsedMB, ram.AvailableMB())
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "unknown", formatUptime(-1))
	assert.Equal(t, "0h 1m (60s)", formatUptime(60))
	assert.Equal(t, "1d 2h 3m (93,784s)", formatUptime(93784))
}

func TestRenderPanel(t *testing.T) {
	out := renderPanel("title", []string{"a line far too long for this little box"}, 12, 4)
	assertDimensions(t, out, 12, 4)
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "a line far")

	assert.Equal(t, " \n ", renderPanel("x", nil, 1, 2))
	assert.Empty(t, renderPanel("x", nil, 5, 0))
}
