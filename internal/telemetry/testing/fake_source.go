// Package testing provides test doubles for the telemetry package.
package testing

import (
	"sync"

	"github.com/Dicklesworthstone/system_observer/internal/model"
	"github.com/Dicklesworthstone/system_observer/internal/telemetry"
)

// FakeSource serves canned telemetry and records calls.
type FakeSource struct {
	mu sync.Mutex

	// Canned readings
	Processes  []model.ProcessRecord
	CPU        model.CpuInfo
	RAM        model.RamInfo
	Sys        model.SysInfo
	Interfaces map[string]model.NetworkInterface

	// PrimeCPU is returned by every odd SampleCPU call, CPU by every even
	// one, mimicking a source whose first reading of a pair is degenerate.
	PrimeCPU *model.CpuInfo

	// Failure injection
	ProcessErr   error
	CPUErr       error
	RAMErr       error
	SysErr       error
	InterfaceErr error
	// KillErrs maps pid to the error Terminate returns. Pids absent from both
	// KillErrs and Processes yield telemetry.ErrNotFound.
	KillErrs map[int32]error

	// Call tracking
	CPUCalls       int
	ProcessCalls   int
	TerminateCalls []int32
	Calls          []string
}

// NewFakeSource returns a source with a single 4-core CPU and no processes.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		CPU:        model.CpuInfo{Cores: 4, Brand: "Fake CPU", FrequencyMHz: 2400},
		RAM:        model.RamInfo{TotalMB: 16000, UsedMB: 4000},
		Sys:        model.SysInfo{OSName: "FakeOS", OSVersion: "1.0", KernelVersion: "6.0", HostName: "fakehost", UptimeSeconds: 3600, Arch: "x86_64"},
		Interfaces: map[string]model.NetworkInterface{},
		KillErrs:   map[int32]error{},
	}
}

func (f *FakeSource) ListProcesses() ([]model.ProcessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProcessCalls++
	f.Calls = append(f.Calls, "ListProcesses")
	if f.ProcessErr != nil {
		return nil, f.ProcessErr
	}
	out := make([]model.ProcessRecord, len(f.Processes))
	copy(out, f.Processes)
	return out, nil
}

func (f *FakeSource) SampleCPU() (model.CpuInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CPUCalls++
	f.Calls = append(f.Calls, "SampleCPU")
	if f.CPUErr != nil {
		return model.CpuInfo{}, f.CPUErr
	}
	if f.PrimeCPU != nil && f.CPUCalls%2 == 1 {
		return *f.PrimeCPU, nil
	}
	return f.CPU, nil
}

func (f *FakeSource) MemoryInfo() (model.RamInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "MemoryInfo")
	return f.RAM, f.RAMErr
}

func (f *FakeSource) HostInfo() (model.SysInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "HostInfo")
	return f.Sys, f.SysErr
}

func (f *FakeSource) ListInterfaces() (map[string]model.NetworkInterface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ListInterfaces")
	if f.InterfaceErr != nil {
		return nil, f.InterfaceErr
	}
	out := make(map[string]model.NetworkInterface, len(f.Interfaces))
	for k, v := range f.Interfaces {
		out[k] = v
	}
	return out, nil
}

// Terminate removes pid from Processes on success.
func (f *FakeSource) Terminate(pid int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TerminateCalls = append(f.TerminateCalls, pid)
	f.Calls = append(f.Calls, "Terminate")
	if err, ok := f.KillErrs[pid]; ok {
		return err
	}
	for i, p := range f.Processes {
		if p.PID == pid {
			f.Processes = append(f.Processes[:i], f.Processes[i+1:]...)
			return nil
		}
	}
	return telemetry.NotFound(pid, nil)
}

// SetProcesses replaces the canned process list.
func (f *FakeSource) SetProcesses(procs ...model.ProcessRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Processes = procs
}

// Terminated returns a copy of the pids passed to Terminate.
func (f *FakeSource) Terminated() []int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int32, len(f.TerminateCalls))
	copy(out, f.TerminateCalls)
	return out
}

var _ telemetry.Source = (*FakeSource)(nil)
