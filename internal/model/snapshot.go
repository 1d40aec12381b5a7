package model

import (
	"sort"
	"time"
)

// Unknown stands in for any host field the telemetry source could not supply.
const Unknown = "unknown"

// BytesPerMB is the divisor used for every MB figure on screen.
const BytesPerMB = 1_000_000

// ProcessRecord is one row of the process table.
type ProcessRecord struct {
	Name        string  `json:"name" yaml:"name"`
	PID         int32   `json:"pid" yaml:"pid"`
	Status      string  `json:"status" yaml:"status"`
	MemoryBytes uint64  `json:"memory_bytes" yaml:"memory_bytes"`
	CPU         float64 `json:"cpu" yaml:"cpu"` // percent 0-100, already divided by core count
}

// MemoryMB returns the resident memory in MB.
func (p ProcessRecord) MemoryMB() uint64 { return p.MemoryBytes / BytesPerMB }

// CpuInfo aggregates CPU utilization across all cores.
type CpuInfo struct {
	Utilization  float64 `json:"utilization" yaml:"utilization"` // percent 0-100
	Cores        int     `json:"cores" yaml:"cores"`
	FrequencyMHz uint64  `json:"frequency_mhz" yaml:"frequency_mhz"`
	Brand        string  `json:"brand" yaml:"brand"`
}

// RamInfo holds memory totals in MB. Available is always derived.
type RamInfo struct {
	TotalMB uint64 `json:"total_mb" yaml:"total_mb"`
	UsedMB  uint64 `json:"used_mb" yaml:"used_mb"`
}

// AvailableMB is total minus used, floored at zero.
func (r RamInfo) AvailableMB() uint64 {
	if r.UsedMB >= r.TotalMB {
		return 0
	}
	return r.TotalMB - r.UsedMB
}

// UsedPercent is used/total*100, or 0 when the total is unknown.
func (r RamInfo) UsedPercent() float64 {
	if r.TotalMB == 0 {
		return 0
	}
	pct := float64(r.UsedMB) * 100 / float64(r.TotalMB)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// SysInfo is mostly static host identification.
type SysInfo struct {
	OSName        string `json:"os_name" yaml:"os_name"`
	OSVersion     string `json:"os_version" yaml:"os_version"`
	KernelVersion string `json:"kernel_version" yaml:"kernel_version"`
	HostName      string `json:"host_name" yaml:"host_name"`
	UptimeSeconds int64  `json:"uptime_seconds" yaml:"uptime_seconds"` // -1 when unknown
	Arch          string `json:"arch" yaml:"arch"`
}

// NetworkInterface carries cumulative counters since source startup.
type NetworkInterface struct {
	Name        string `json:"name" yaml:"name"`
	MAC         string `json:"mac" yaml:"mac"`
	BytesSent   uint64 `json:"bytes_sent" yaml:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv" yaml:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent" yaml:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv" yaml:"packets_recv"`
}

// Snapshot is one atomic telemetry capture. It is never mutated after the
// sampler hands it out.
type Snapshot struct {
	Timestamp  time.Time                   `json:"timestamp" yaml:"timestamp"`
	Window     time.Duration               `json:"window" yaml:"window"`
	Processes  []ProcessRecord             `json:"processes" yaml:"processes"`
	CPU        CpuInfo                     `json:"cpu" yaml:"cpu"`
	RAM        RamInfo                     `json:"ram" yaml:"ram"`
	Sys        SysInfo                     `json:"sys" yaml:"sys"`
	Interfaces map[string]NetworkInterface `json:"interfaces" yaml:"interfaces"`
}

// Zero returns an empty snapshot for initialization.
func Zero() Snapshot {
	return Snapshot{
		Timestamp:  time.Now(),
		Sys:        SysInfo{OSName: Unknown, OSVersion: Unknown, KernelVersion: Unknown, HostName: Unknown, UptimeSeconds: -1, Arch: Unknown},
		Interfaces: map[string]NetworkInterface{},
	}
}

// Len is the number of processes in the snapshot.
func (s Snapshot) Len() int { return len(s.Processes) }

// SortedInterfaces returns the interfaces ordered by name.
func (s Snapshot) SortedInterfaces() []NetworkInterface {
	out := make([]NetworkInterface, 0, len(s.Interfaces))
	for name, iface := range s.Interfaces {
		if iface.Name == "" {
			iface.Name = name
		}
		out = append(out, iface)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
