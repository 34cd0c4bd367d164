package alert

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

type entry struct {
	at       time.Time
	state    trit.State
	category string
}

// #region monitor
// Monitor watches recorded states and raises an Alert whenever the number of
// Uncertain states inside the sliding window reaches the threshold.
type Monitor struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	history []entry
	alerts  []Alert
	raised  int
	handler func(Alert)
}

// NewMonitor creates a monitor. Zero fields in config take DefaultConfig values.
func NewMonitor(config Config, logger *zap.Logger) *Monitor {
	def := DefaultConfig()
	if config.Threshold <= 0 {
		config.Threshold = def.Threshold
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.HistorySize <= 0 {
		config.HistorySize = def.HistorySize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{config: config, logger: logger, now: time.Now}
}

// SetClock replaces time.Now. Intended for tests.
func (m *Monitor) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// OnAlert registers fn to be called for every alert raised after this call.
// fn runs on the recording goroutine after the monitor's lock is released.
func (m *Monitor) OnAlert(fn func(Alert)) {
	m.mu.Lock()
	m.handler = fn
	m.mu.Unlock()
}

// Config returns the effective configuration.
func (m *Monitor) Config() Config {
	return m.config
}

// Record appends s to the history and checks for a spike when s is Uncertain.
// It returns the alert raised, if any.
func (m *Monitor) Record(s trit.State, category string) (Alert, bool) {
	m.mu.Lock()
	now := m.now()
	m.history = append(m.history, entry{at: now, state: s, category: category})
	if over := len(m.history) - m.config.HistorySize; over > 0 {
		m.history = slices.Delete(m.history, 0, over)
	}

	if s != trit.Uncertain {
		m.mu.Unlock()
		return Alert{}, false
	}

	count := m.uncertainSince(now.Add(-m.config.Window))
	if count < m.config.Threshold {
		m.mu.Unlock()
		return Alert{}, false
	}

	a := Alert{
		ID:        uuid.New().String(),
		Timestamp: now,
		Severity:  SeverityFor(count, m.config.Threshold),
		Message:   fmt.Sprintf("System uncertainty detected: %d Ψ states in %.0fs", count, m.config.Window.Seconds()),
		Category:  category,
		Count:     count,
		Pattern:   Pattern,
	}
	m.raised++
	m.alerts = append(m.alerts, a)
	if over := len(m.alerts) - m.config.HistorySize; over > 0 {
		m.alerts = slices.Delete(m.alerts, 0, over)
	}
	handler := m.handler
	m.mu.Unlock()

	m.logger.Warn("uncertainty spike",
		zap.String("alert_id", a.ID),
		zap.String("severity", string(a.Severity)),
		zap.String("category", category),
		zap.Int("count", count),
		zap.Duration("window", m.config.Window),
	)
	if handler != nil {
		handler(a)
	}
	return a, true
}

// Recent returns up to n of the latest alerts, oldest first.
func (m *Monitor) Recent(n int) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 || n > len(m.alerts) {
		n = len(m.alerts)
	}
	return slices.Clone(m.alerts[len(m.alerts)-n:])
}

// Statistics summarizes alert activity.
func (m *Monitor) Statistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Statistics{
		TotalAlerts:  m.raised,
		Threshold:    m.config.Threshold,
		Window:       m.config.Window,
		RecentAlerts: len(m.alerts),
	}
}

// #endregion monitor

// #region helpers
func (m *Monitor) uncertainSince(start time.Time) int {
	var n int
	for _, e := range m.history {
		if e.state == trit.Uncertain && !e.at.Before(start) {
			n++
		}
	}
	return n
}

// #endregion helpers
