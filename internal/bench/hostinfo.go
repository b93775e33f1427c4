package bench

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host describes the machine a benchmark ran on, for report headers
type Host struct {
	CPUModel   string `json:"cpu_model" yaml:"cpu_model"`
	CPUThreads int    `json:"cpu_threads" yaml:"cpu_threads"`
	RAMBytes   uint64 `json:"ram_bytes" yaml:"ram_bytes"`
	OS         string `json:"os" yaml:"os"`
	Arch       string `json:"arch" yaml:"arch"`
}

// HostInfo probes the current machine. Probing failures leave the
// corresponding fields at their zero values rather than erroring;
// timing results are still meaningful without them.
func HostInfo() Host {
	h := Host{
		CPUThreads: runtime.NumCPU(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		h.CPUModel = info[0].ModelName
	}
	if vmem, err := mem.VirtualMemory(); err == nil {
		h.RAMBytes = vmem.Total
	}
	return h
}
