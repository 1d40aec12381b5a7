package sampler

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Dicklesworthstone/system_observer/internal/logger"
	"github.com/Dicklesworthstone/system_observer/internal/model"
	"github.com/Dicklesworthstone/system_observer/internal/telemetry"
)

// DefaultWindow is the gap between the priming read and the authoritative
// read. Every Sample blocks for this long.
const DefaultWindow = 200 * time.Millisecond

// ReservedNames identify the dashboard itself; those processes are hidden.
var ReservedNames = []string{"system-observer", "system_observer"}

// Sampler turns a stateful telemetry.Source into immutable Snapshots.
type Sampler struct {
	src      telemetry.Source
	window   time.Duration
	reserved map[string]struct{}
	log      logger.Logger
	sleep    func(time.Duration)
	now      func() time.Time
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithWindow sets the CPU sampling window.
func WithWindow(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithReservedNames replaces the process names excluded from listings.
func WithReservedNames(names ...string) Option {
	return func(s *Sampler) {
		s.reserved = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.reserved[n] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for degraded readings.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) { s.log = l }
}

// WithSleep replaces time.Sleep, for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Sampler) { s.sleep = fn }
}

// WithClock replaces time.Now, for tests.
func WithClock(fn func() time.Time) Option {
	return func(s *Sampler) { s.now = fn }
}

func New(src telemetry.Source, opts ...Option) *Sampler {
	s := &Sampler{
		src:    src,
		window: DefaultWindow,
		log:    logger.NewEnvLogger("[sampler]"),
		sleep:  time.Sleep,
		now:    time.Now,
	}
	WithReservedNames(ReservedNames...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Window returns the configured sampling window.
func (s *Sampler) Window() time.Duration { return s.window }

// Sample reads, waits one window, reads again, and assembles a Snapshot from
// the second reading. It never fails: unavailable readings degrade to zero
// values or model.Unknown.
func (s *Sampler) Sample() model.Snapshot {
	start := s.now()

	// Priming pass. Results are discarded; only the baselines matter.
	if _, err := s.src.SampleCPU(); err != nil {
		s.log.Debug("prime cpu: %v", err)
	}
	if _, err := s.src.ListProcesses(); err != nil {
		s.log.Debug("prime processes: %v", err)
	}

	s.sleep(s.window)

	cpuInfo := s.cpu()
	snap := model.Snapshot{
		Timestamp:  s.now(),
		Window:     s.window,
		CPU:        cpuInfo,
		Processes:  s.processes(cpuInfo.Cores),
		RAM:        s.ram(),
		Sys:        s.sys(),
		Interfaces: s.interfaces(),
	}
	s.log.Debug("sample: %d processes, %d interfaces in %s",
		len(snap.Processes), len(snap.Interfaces), s.now().Sub(start))
	return snap
}

func (s *Sampler) cpu() model.CpuInfo {
	info, err := s.src.SampleCPU()
	if err != nil {
		s.log.Warn("cpu unavailable: %v", err)
		info = model.CpuInfo{}
	}
	info.Utilization = clamp(info.Utilization, 0, 100)
	if info.Cores < 1 {
		info.Cores = 1
	}
	if info.Brand == "" {
		info.Brand = model.Unknown
	}
	return info
}

// processes filters the reserved identity, normalizes per-process CPU by core
// count, and sorts by CPU descending (pid ascending on ties).
func (s *Sampler) processes(cores int) []model.ProcessRecord {
	raw, err := s.src.ListProcesses()
	if err != nil {
		s.log.Warn("processes unavailable: %v", err)
		return []model.ProcessRecord{}
	}
	if cores < 1 {
		cores = 1
	}

	out := make([]model.ProcessRecord, 0, len(raw))
	for _, p := range raw {
		if _, skip := s.reserved[p.Name]; skip {
			continue
		}
		p.CPU = clamp(p.CPU, 0, 100) / float64(cores)
		if strings.TrimSpace(p.Status) == "" {
			p.Status = model.Unknown
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CPU != out[j].CPU {
			return out[i].CPU > out[j].CPU
		}
		return out[i].PID < out[j].PID
	})
	return out
}

func (s *Sampler) ram() model.RamInfo {
	ram, err := s.src.MemoryInfo()
	if err != nil {
		s.log.Warn("memory unavailable: %v", err)
		return model.RamInfo{}
	}
	if ram.UsedMB > ram.TotalMB {
		ram.UsedMB = ram.TotalMB
	}
	return ram
}

// sys substitutes model.Unknown for every field the source left empty.
func (s *Sampler) sys() model.SysInfo {
	info, err := s.src.HostInfo()
	if err != nil {
		s.log.Warn("host info incomplete: %v", err)
	}
	fill := func(v *string) {
		if strings.TrimSpace(*v) == "" {
			*v = model.Unknown
		}
	}
	fill(&info.OSName)
	fill(&info.OSVersion)
	fill(&info.KernelVersion)
	fill(&info.HostName)
	fill(&info.Arch)
	if info.UptimeSeconds <= 0 {
		info.UptimeSeconds = -1
	}
	return info
}

func (s *Sampler) interfaces() map[string]model.NetworkInterface {
	ifaces, err := s.src.ListInterfaces()
	if err != nil {
		s.log.Warn("network interfaces unavailable: %v", err)
		return map[string]model.NetworkInterface{}
	}
	if ifaces == nil {
		ifaces = map[string]model.NetworkInterface{}
	}
	return ifaces
}

// Stream emits a Snapshot every interval until ctx is done. Each Sample still
// blocks for the window, so interval should exceed it.
func (s *Sampler) Stream(ctx context.Context, interval time.Duration) <-chan model.Snapshot {
	ch := make(chan model.Snapshot)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				snap := s.Sample()
				select {
				case ch <- snap:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
