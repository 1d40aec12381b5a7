package telemetry

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Dicklesworthstone/system_observer/internal/model"
)

// HostSource reads the local machine through gopsutil. It keeps the previous
// per-core CPU times and the previous per-process CPU times between calls, so
// one HostSource must be reused across samples.
type HostSource struct {
	mu sync.Mutex

	prevCore []cpu.TimesStat
	procs    map[int32]*process.Process

	// static CPU identification, read once
	brand    string
	mhz      uint64
	infoRead bool
}

// NewHostSource returns a source with empty baselines; the first SampleCPU
// and ListProcesses calls report zero utilization.
func NewHostSource() *HostSource {
	return &HostSource{procs: make(map[int32]*process.Process)}
}

// SampleCPU returns the average busy percent across cores since the previous call.
func (h *HostSource) SampleCPU() (model.CpuInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	coreTimes, err := cpu.Times(true)
	if err != nil {
		return model.CpuInfo{}, fmt.Errorf("cpu times: %w", err)
	}

	var sum float64
	for i, c := range coreTimes {
		if i >= len(h.prevCore) {
			continue
		}
		prev := h.prevCore[i]
		dt := c.Total() - prev.Total()
		di := (c.Idle + c.Iowait) - (prev.Idle + prev.Iowait)
		if dt > 0 {
			sum += 100 * (1 - di/dt)
		}
	}
	h.prevCore = coreTimes

	cores := len(coreTimes)
	if cores == 0 {
		if n, err := cpu.Counts(true); err == nil {
			cores = n
		}
	}

	info := model.CpuInfo{Cores: cores}
	if len(coreTimes) > 0 {
		info.Utilization = sum / float64(len(coreTimes))
	}

	h.readCPUInfo()
	info.Brand = h.brand
	info.FrequencyMHz = h.mhz
	return info, nil
}

func (h *HostSource) readCPUInfo() {
	if h.infoRead {
		return
	}
	h.infoRead = true
	stats, err := cpu.Info()
	if err != nil || len(stats) == 0 {
		return
	}
	var total float64
	for _, s := range stats {
		total += s.Mhz
		if h.brand == "" {
			h.brand = strings.TrimSpace(s.ModelName)
		}
	}
	h.mhz = uint64(total / float64(len(stats)))
}

// ListProcesses enumerates processes. CPU is percent of one core since the
// previous call for the same pid, so it can exceed 100 for multi-threaded work.
func (h *HostSource) ListProcesses() ([]model.ProcessRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	seen := make(map[int32]*process.Process, len(procs))
	records := make([]model.ProcessRecord, 0, len(procs))
	for _, p := range procs {
		// Reuse the cached handle so Percent(0) diffs against the last call.
		if cached, ok := h.procs[p.Pid]; ok && sameProcess(cached, p) {
			p = cached
		}
		name, err := p.Name()
		if err != nil {
			continue // exited mid-enumeration
		}
		seen[p.Pid] = p

		cpuPct, _ := p.Percent(0)
		status, _ := p.Status()
		var rss uint64
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			rss = mi.RSS
		}
		records = append(records, model.ProcessRecord{
			Name:        name,
			PID:         p.Pid,
			Status:      strings.Join(status, ","),
			MemoryBytes: rss,
			CPU:         cpuPct,
		})
	}
	h.procs = seen
	return records, nil
}

// sameProcess guards against pid reuse between samples.
func sameProcess(a, b *process.Process) bool {
	ta, errA := a.CreateTime()
	tb, errB := b.CreateTime()
	return errA == nil && errB == nil && ta == tb
}

// MemoryInfo reports total and used RAM in MB.
func (h *HostSource) MemoryInfo() (model.RamInfo, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return model.RamInfo{}, fmt.Errorf("virtual memory: %w", err)
	}
	return model.RamInfo{
		TotalMB: vm.Total / model.BytesPerMB,
		UsedMB:  vm.Used / model.BytesPerMB,
	}, nil
}

// HostInfo returns whatever host identification is available. Missing fields
// are left empty; a partial result is returned alongside any error.
func (h *HostSource) HostInfo() (model.SysInfo, error) {
	info, err := host.Info()
	if info == nil {
		return model.SysInfo{UptimeSeconds: -1}, fmt.Errorf("host info: %w", err)
	}
	sys := model.SysInfo{
		OSName:        info.Platform,
		OSVersion:     info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		HostName:      info.Hostname,
		UptimeSeconds: int64(info.Uptime),
		Arch:          info.KernelArch,
	}
	if sys.OSName == "" {
		sys.OSName = info.OS
	}
	if info.Uptime == 0 {
		sys.UptimeSeconds = -1
	}
	if err != nil {
		return sys, fmt.Errorf("host info: %w", err)
	}
	return sys, nil
}

// ListInterfaces joins per-NIC counters with hardware addresses.
func (h *HostSource) ListInterfaces() (map[string]model.NetworkInterface, error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("net counters: %w", err)
	}

	macs := make(map[string]string)
	if ifaces, err := net.Interfaces(); err == nil {
		for _, ifc := range ifaces {
			macs[ifc.Name] = ifc.HardwareAddr
		}
	}

	out := make(map[string]model.NetworkInterface, len(counters))
	for _, c := range counters {
		mac := macs[c.Name]
		if mac == "" {
			mac = "00:00:00:00:00:00"
		}
		out[c.Name] = model.NetworkInterface{
			Name:        c.Name,
			MAC:         mac,
			BytesSent:   c.BytesSent,
			BytesRecv:   c.BytesRecv,
			PacketsSent: c.PacketsSent,
			PacketsRecv: c.PacketsRecv,
		}
	}
	return out, nil
}

// Terminate sends SIGKILL to pid.
func (h *HostSource) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return classifyKill(pid, err)
	}
	if err := p.Kill(); err != nil {
		return classifyKill(pid, err)
	}
	return nil
}

func classifyKill(pid int32, err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, syscall.ESRCH):
		return NotFound(pid, err)
	case errors.Is(err, os.ErrPermission),
		errors.Is(err, process.ErrorNotPermitted):
		return Denied(pid, err)
	default:
		return &KillError{PID: pid, Kind: ErrFailed, Err: err}
	}
}
