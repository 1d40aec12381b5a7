// Package telemetry defines the boundary to the operating system: reading
// processes, CPU, memory, host identity and network counters, and
// terminating a process.
package telemetry

import (
	"errors"
	"fmt"

	"github.com/Dicklesworthstone/system_observer/internal/model"
)

// Source supplies point-in-time readings. SampleCPU and ListProcesses are
// stateful: each call reports utilization relative to the previous call, so a
// meaningful value needs two calls separated by a sampling window.
type Source interface {
	ListProcesses() ([]model.ProcessRecord, error)
	SampleCPU() (model.CpuInfo, error)
	MemoryInfo() (model.RamInfo, error)
	HostInfo() (model.SysInfo, error)
	ListInterfaces() (map[string]model.NetworkInterface, error)
	Terminator
}

// Terminator is the destructive half of Source.
type Terminator interface {
	Terminate(pid int32) error
}

// Kill failure kinds, matchable with errors.Is.
var (
	ErrNotFound = errors.New("process not found")
	ErrDenied   = errors.New("permission denied")
	ErrFailed   = errors.New("signal failed")
)

// KillError reports why a termination request failed.
type KillError struct {
	PID  int32
	Kind error // ErrNotFound, ErrDenied or ErrFailed
	Err  error
}

func (e *KillError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kill pid %d: %v: %v", e.PID, e.Kind, e.Err)
	}
	return fmt.Sprintf("kill pid %d: %v", e.PID, e.Kind)
}

func (e *KillError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds a KillError for a pid that no longer exists.
func NotFound(pid int32, err error) *KillError {
	return &KillError{PID: pid, Kind: ErrNotFound, Err: err}
}

// Denied builds a KillError for a pid the caller may not signal.
func Denied(pid int32, err error) *KillError {
	return &KillError{PID: pid, Kind: ErrDenied, Err: err}
}
