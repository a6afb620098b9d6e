package monitoring

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	ws "github.com/stonescan/stonescan-be/internal/websocket"
)

// HostStats is a point-in-time snapshot of host resource usage.
type HostStats struct {
	CPUPercent     float64   `json:"cpuPercent"`
	MemUsedPercent float64   `json:"memUsedPercent"`
	MemTotalBytes  uint64    `json:"memTotalBytes"`
	MemUsedBytes   uint64    `json:"memUsedBytes"`
	UptimeSeconds  uint64    `json:"uptimeSeconds"`
	CollectedAt    time.Time `json:"collectedAt"`
}

// StatUpdater periodically samples host stats, keeps the latest snapshot and
// broadcasts it to websocket clients.
type StatUpdater struct {
	hub      *ws.Hub
	interval time.Duration
	done     chan bool

	mu   sync.RWMutex
	last *HostStats
}

// NewStatUpdater creates a new StatUpdater. The hub may be nil, in which
// case snapshots are only kept for the /system endpoint.
func NewStatUpdater(hub *ws.Hub, interval time.Duration) *StatUpdater {
	return &StatUpdater{
		hub:      hub,
		interval: interval,
		done:     make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	ticker := time.NewTicker(su.interval)
	defer ticker.Stop()

	// Run once immediately on start
	su.update()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-ticker.C:
			su.update()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.done <- true
}

// Snapshot returns the most recent stats, if any have been collected.
func (su *StatUpdater) Snapshot() (HostStats, bool) {
	su.mu.RLock()
	defer su.mu.RUnlock()
	if su.last == nil {
		return HostStats{}, false
	}
	return *su.last, true
}

func (su *StatUpdater) update() {
	stats := HostStats{CollectedAt: time.Now().UTC()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = vm.UsedPercent
		stats.MemTotalBytes = vm.Total
		stats.MemUsedBytes = vm.Used
	} else {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample memory usage")
	}

	if uptime, err := host.Uptime(); err == nil {
		stats.UptimeSeconds = uptime
	}

	su.mu.Lock()
	su.last = &stats
	su.mu.Unlock()

	if su.hub != nil {
		if payload, err := json.Marshal(ws.Message{Action: "system.stats", Payload: stats}); err == nil {
			su.hub.Broadcast <- payload
		}
	}
}
