// Package observability aggregates local runtime counters for the debug
// dashboard. It is not a metrics pipeline: nothing leaves the process.
package observability

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Snapshot aggregates all counters for the dashboard.
type Snapshot struct {
	Connections uint64  `json:"connections"`
	Disconnects uint64  `json:"disconnects"`
	Joins       uint64  `json:"joins"`
	Leaves      uint64  `json:"leaves"`
	Broadcasts  uint64  `json:"broadcasts"`
	Deliveries  uint64  `json:"deliveries"`
	Dropped     uint64  `json:"dropped"`
	Malformed   uint64  `json:"malformed"`
	RSSMb       uint64  `json:"rss_mb"`
	CPUPercent  float64 `json:"cpu_percent"`
	SampledAt   string  `json:"sampled_at"`
}

// Stats collects coordinator counters plus process-level RSS and CPU.
// Counter increments are atomic; the process sample is refreshed by the
// stats worker and guarded separately.
type Stats struct {
	log *slog.Logger

	connections uint64
	disconnects uint64
	joins       uint64
	leaves      uint64
	broadcasts  uint64
	deliveries  uint64
	dropped     uint64
	malformed   uint64

	mu        sync.RWMutex
	rssMb     uint64
	cpu       float64
	sampledAt time.Time
}

func NewStats(log *slog.Logger) *Stats {
	return &Stats{log: log}
}

func (s *Stats) IncrConnections() { atomic.AddUint64(&s.connections, 1) }
func (s *Stats) IncrDisconnects() { atomic.AddUint64(&s.disconnects, 1) }
func (s *Stats) IncrJoins()       { atomic.AddUint64(&s.joins, 1) }
func (s *Stats) IncrLeaves()      { atomic.AddUint64(&s.leaves, 1) }
func (s *Stats) IncrBroadcasts()  { atomic.AddUint64(&s.broadcasts, 1) }
func (s *Stats) IncrDeliveries()  { atomic.AddUint64(&s.deliveries, 1) }
func (s *Stats) IncrDropped()     { atomic.AddUint64(&s.dropped, 1) }
func (s *Stats) IncrMalformed()   { atomic.AddUint64(&s.malformed, 1) }

// Sample refreshes the process-level part of the snapshot.
func (s *Stats) Sample() {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.log.Warn("Self process lookup failed", "error", err)
		return
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		s.log.Warn("Memory sample failed", "error", err)
		return
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		s.log.Warn("CPU sample failed", "error", err)
		return
	}

	s.mu.Lock()
	s.rssMb = memInfo.RSS / 1024 / 1024
	s.cpu = cpuPercent
	s.sampledAt = time.Now()
	s.mu.Unlock()
}

func (s *Stats) GetLatest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sampledAt := ""
	if !s.sampledAt.IsZero() {
		sampledAt = s.sampledAt.Format(time.RFC3339)
	}
	return Snapshot{
		Connections: atomic.LoadUint64(&s.connections),
		Disconnects: atomic.LoadUint64(&s.disconnects),
		Joins:       atomic.LoadUint64(&s.joins),
		Leaves:      atomic.LoadUint64(&s.leaves),
		Broadcasts:  atomic.LoadUint64(&s.broadcasts),
		Deliveries:  atomic.LoadUint64(&s.deliveries),
		Dropped:     atomic.LoadUint64(&s.dropped),
		Malformed:   atomic.LoadUint64(&s.malformed),
		RSSMb:       s.rssMb,
		CPUPercent:  s.cpu,
		SampledAt:   sampledAt,
	}
}
