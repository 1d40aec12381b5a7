package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/system_observer/internal/logger"
	"github.com/Dicklesworthstone/system_observer/internal/model"
	teltesting "github.com/Dicklesworthstone/system_observer/internal/telemetry/testing"
)

func newTestSampler(src *teltesting.FakeSource, opts ...Option) (*Sampler, *[]time.Duration) {
	var slept []time.Duration
	base := []Option{
		WithLogger(logger.Noop()),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
	}
	return New(src, append(base, opts...)...), &slept
}

func TestSample_TwoPhaseProtocol(t *testing.T) {
	src := teltesting.NewFakeSource()
	s, slept := newTestSampler(src, WithWindow(300*time.Millisecond))

	s.Sample()

	require.Equal(t, []time.Duration{300 * time.Millisecond}, *slept)
	// Prime reads come first, then the authoritative ones.
	require.GreaterOrEqual(t, len(src.Calls), 4)
	assert.Equal(t, []string{"SampleCPU", "ListProcesses", "SampleCPU", "ListProcesses"}, src.Calls[:4])
	assert.Equal(t, 2, src.CPUCalls)
	assert.Equal(t, 2, src.ProcessCalls)
}

func TestSample_UsesSecondCPUReading(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.PrimeCPU = &model.CpuInfo{Utilization: 0, Cores: 4}
	src.CPU = model.CpuInfo{Utilization: 37.5, Cores: 4, Brand: "Fake CPU"}
	s, _ := newTestSampler(src)

	snap := s.Sample()

	assert.InDelta(t, 37.5, snap.CPU.Utilization, 1e-9)
	assert.Equal(t, 4, snap.CPU.Cores)
}

func TestSample_DefaultWindow(t *testing.T) {
	s, slept := newTestSampler(teltesting.NewFakeSource())
	s.Sample()
	assert.Equal(t, []time.Duration{DefaultWindow}, *slept)
	assert.Equal(t, DefaultWindow, s.Window())
}

func TestSample_SortedByCPUDescending(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.CPU.Cores = 1
	src.SetProcesses(
		model.ProcessRecord{Name: "a", PID: 3, CPU: 10},
		model.ProcessRecord{Name: "b", PID: 1, CPU: 50},
		model.ProcessRecord{Name: "c", PID: 2, CPU: 10},
		model.ProcessRecord{Name: "d", PID: 4, CPU: 90},
	)
	s, _ := newTestSampler(src)

	snap := s.Sample()

	require.Len(t, snap.Processes, 4)
	for i := 1; i < len(snap.Processes); i++ {
		assert.GreaterOrEqual(t, snap.Processes[i-1].CPU, snap.Processes[i].CPU)
	}
	pids := []int32{snap.Processes[0].PID, snap.Processes[1].PID, snap.Processes[2].PID, snap.Processes[3].PID}
	assert.Equal(t, []int32{4, 1, 2, 3}, pids)
}

func TestSample_ExcludesReservedNames(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.SetProcesses(
		model.ProcessRecord{Name: "system-observer", PID: 10, CPU: 99},
		model.ProcessRecord{Name: "system_observer", PID: 11, CPU: 98},
		model.ProcessRecord{Name: "bash", PID: 12, CPU: 1},
	)
	s, _ := newTestSampler(src)

	snap := s.Sample()

	require.Len(t, snap.Processes, 1)
	for _, p := range snap.Processes {
		for _, reserved := range ReservedNames {
			assert.NotEqual(t, reserved, p.Name)
		}
	}
}

func TestSample_CustomReservedNames(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.SetProcesses(
		model.ProcessRecord{Name: "system-observer", PID: 10},
		model.ProcessRecord{Name: "top", PID: 11},
	)
	s, _ := newTestSampler(src, WithReservedNames("top"))

	snap := s.Sample()

	require.Len(t, snap.Processes, 1)
	assert.Equal(t, "system-observer", snap.Processes[0].Name)
}

func TestSample_NormalizesPerProcessCPU(t *testing.T) {
	tests := []struct {
		name   string
		cores  int
		raw    float64
		expect float64
	}{
		{name: "one busy core of four", cores: 4, raw: 100, expect: 25},
		{name: "half core of eight", cores: 8, raw: 50, expect: 6.25},
		{name: "over one core is capped", cores: 4, raw: 380, expect: 25},
		{name: "negative jitter floors at zero", cores: 2, raw: -3, expect: 0},
		{name: "unknown core count treated as one", cores: 0, raw: 40, expect: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := teltesting.NewFakeSource()
			src.CPU.Cores = tt.cores
			src.SetProcesses(model.ProcessRecord{Name: "worker", PID: 1, CPU: tt.raw})
			s, _ := newTestSampler(src)

			snap := s.Sample()

			require.Len(t, snap.Processes, 1)
			assert.InDelta(t, tt.expect, snap.Processes[0].CPU, 1e-9)
			assert.LessOrEqual(t, snap.Processes[0].CPU, 100/float64(snap.CPU.Cores)+1e-9)
		})
	}
}

func TestSample_ClampsUtilization(t *testing.T) {
	for _, raw := range []float64{-5, 0, 42, 100, 180} {
		src := teltesting.NewFakeSource()
		src.CPU.Utilization = raw
		s, _ := newTestSampler(src)

		got := s.Sample().CPU.Utilization
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestSample_UnknownSysFields(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.Sys = model.SysInfo{OSName: "Linux", UptimeSeconds: 0}
	src.SysErr = errors.New("kernel version unavailable")
	buf := logger.NewBufferLogger()
	s, _ := newTestSampler(src, WithLogger(buf))

	snap := s.Sample()

	assert.Equal(t, "Linux", snap.Sys.OSName)
	assert.Equal(t, model.Unknown, snap.Sys.OSVersion)
	assert.Equal(t, model.Unknown, snap.Sys.KernelVersion)
	assert.Equal(t, model.Unknown, snap.Sys.HostName)
	assert.Equal(t, model.Unknown, snap.Sys.Arch)
	assert.Equal(t, int64(-1), snap.Sys.UptimeSeconds)
	assert.True(t, buf.HasLevel("warn"))
}

func TestSample_DegradesOnSourceErrors(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.SetProcesses(model.ProcessRecord{Name: "x", PID: 1})
	src.CPUErr = errors.New("no cpu")
	src.ProcessErr = errors.New("no procfs")
	src.RAMErr = errors.New("no meminfo")
	src.InterfaceErr = errors.New("no netlink")
	s, _ := newTestSampler(src)

	snap := s.Sample()

	assert.Empty(t, snap.Processes)
	assert.NotNil(t, snap.Processes)
	assert.Equal(t, 1, snap.CPU.Cores)
	assert.Equal(t, model.Unknown, snap.CPU.Brand)
	assert.Equal(t, model.RamInfo{}, snap.RAM)
	assert.NotNil(t, snap.Interfaces)
	assert.Empty(t, snap.Interfaces)
}

func TestSample_FillsEmptyStatus(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.SetProcesses(model.ProcessRecord{Name: "x", PID: 1, Status: ""})
	s, _ := newTestSampler(src)

	assert.Equal(t, model.Unknown, s.Sample().Processes[0].Status)
}

func TestSample_CapsUsedMemory(t *testing.T) {
	src := teltesting.NewFakeSource()
	src.RAM = model.RamInfo{TotalMB: 100, UsedMB: 120}
	s, _ := newTestSampler(src)

	ram := s.Sample().RAM
	assert.Equal(t, uint64(100), ram.UsedMB)
	assert.Equal(t, uint64(0), ram.AvailableMB())
}

func TestSample_Timestamp(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, _ := newTestSampler(teltesting.NewFakeSource(), WithClock(func() time.Time { return fixed }))
	assert.Equal(t, fixed, s.Sample().Timestamp)
}

func TestStream_StopsOnCancel(t *testing.T) {
	src := teltesting.NewFakeSource()
	s, _ := newTestSampler(src)
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Stream(ctx, 5*time.Millisecond)
	select {
	case _, ok := <-ch:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot streamed")
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after cancel")
		}
	}
}
