// Package profiling captures CPU and heap profiles around index
// builds. The index command wires it behind the --cpu-profile and
// --heap-profile flags.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Session holds profiles opened for one build run. Zero paths disable
// the corresponding profile.
type Session struct {
	CPUPath  string
	HeapPath string

	cpuFile *os.File
}

// Start begins CPU profiling if a CPU path was configured. It must be
// paired with Stop.
func (s *Session) Start() error {
	if s.CPUPath == "" {
		return nil
	}
	f, err := os.Create(s.CPUPath)
	if err != nil {
		return fmt.Errorf("failed to create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to start cpu profile: %w", err)
	}
	s.cpuFile = f
	return nil
}

// Stop ends the CPU profile and writes the heap snapshot if a heap
// path was configured. The heap write runs a GC first so the snapshot
// reflects live objects.
func (s *Session) Stop() error {
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}

	if s.HeapPath == "" {
		return nil
	}
	f, err := os.Create(s.HeapPath)
	if err != nil {
		return fmt.Errorf("failed to create heap profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	return nil
}
