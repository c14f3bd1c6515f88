package runner

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"

	"hyserve/internal/domain"
)

// Stats samples CPU and memory usage of a running server process.
func (s *Supervisor) Stats(profileID string) (*domain.ServerStats, error) {
	inst := s.get(profileID)
	if inst == nil || !inst.Alive() {
		return nil, fmt.Errorf("server %s is not running", profileID)
	}
	pid := inst.pid()
	if pid == 0 {
		return nil, fmt.Errorf("server %s has no process", profileID)
	}

	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("inspecting pid %d: %w", pid, err)
	}

	stats := &domain.ServerStats{PID: pid}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPU = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		stats.RSS = mem.RSS
	}
	return stats, nil
}
