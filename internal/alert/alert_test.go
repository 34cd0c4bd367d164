package alert

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newMonitor(config Config) (*Monitor, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMonitor(config, nil)
	m.SetClock(clock.Now)
	return m, clock
}

// #region severity-tests
func TestSeverityFor(t *testing.T) {
	cases := []struct {
		count int
		want  Severity
	}{
		{5, SeverityLow},
		{7, SeverityLow},
		{8, SeverityMedium},
		{10, SeverityHigh},
		{14, SeverityHigh},
		{15, SeverityCritical},
	}
	for _, tc := range cases {
		if got := SeverityFor(tc.count, 5); got != tc.want {
			t.Errorf("SeverityFor(%d, 5) = %s, want %s", tc.count, got, tc.want)
		}
	}
}

// #endregion severity-tests

// #region monitor-tests
func TestMonitor_DefaultsApplied(t *testing.T) {
	m := NewMonitor(Config{}, nil)
	if m.Config() != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", m.Config())
	}
}

func TestMonitor_AlertAtThreshold(t *testing.T) {
	m, clock := newMonitor(Config{Threshold: 3, Window: time.Minute})

	for i := 0; i < 2; i++ {
		if _, ok := m.Record(trit.Uncertain, "sensors"); ok {
			t.Fatalf("alert raised below threshold at record %d", i)
		}
		clock.t = clock.t.Add(time.Second)
	}
	a, ok := m.Record(trit.Uncertain, "sensors")
	if !ok {
		t.Fatal("expected alert at threshold")
	}
	if a.Count != 3 || a.Severity != SeverityLow || a.Category != "sensors" || a.Pattern != Pattern {
		t.Fatalf("unexpected alert: %+v", a)
	}
	if a.ID == "" {
		t.Fatal("expected alert ID")
	}
	if want := "System uncertainty detected: 3 Ψ states in 60s"; a.Message != want {
		t.Fatalf("message = %q, want %q", a.Message, want)
	}
}

func TestMonitor_DefiniteStatesNeverAlert(t *testing.T) {
	m, _ := newMonitor(Config{Threshold: 1})
	for i := 0; i < 10; i++ {
		if _, ok := m.Record(trit.States[i%2*2], "x"); ok {
			t.Fatal("definite state raised an alert")
		}
	}
	if m.Statistics().TotalAlerts != 0 {
		t.Fatal("expected no alerts")
	}
}

func TestMonitor_WindowExpires(t *testing.T) {
	m, clock := newMonitor(Config{Threshold: 2, Window: 10 * time.Second})

	m.Record(trit.Uncertain, "a")
	clock.t = clock.t.Add(11 * time.Second)
	if _, ok := m.Record(trit.Uncertain, "a"); ok {
		t.Fatal("expired uncertain state should not count")
	}
	clock.t = clock.t.Add(5 * time.Second)
	if _, ok := m.Record(trit.Uncertain, "a"); !ok {
		t.Fatal("two uncertain states inside the window should alert")
	}
}

func TestMonitor_HistoryBounded(t *testing.T) {
	m, _ := newMonitor(Config{Threshold: 3, HistorySize: 2})
	m.Record(trit.Uncertain, "a")
	m.Record(trit.Uncertain, "a")
	if _, ok := m.Record(trit.Uncertain, "a"); ok {
		t.Fatal("history of 2 cannot hold 3 uncertain states")
	}
	if len(m.history) != 2 {
		t.Fatalf("expected history of 2, got %d", len(m.history))
	}
}

func TestMonitor_HandlerStatisticsAndRecent(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewMonitor(Config{Threshold: 1, Window: time.Minute}, zap.New(core))

	var got []Alert
	m.OnAlert(func(a Alert) { got = append(got, a) })

	for i := 0; i < 4; i++ {
		m.Record(trit.Uncertain, "rpc")
	}

	if len(got) != 4 {
		t.Fatalf("expected 4 handler calls, got %d", len(got))
	}
	if got[3].Severity != SeverityCritical {
		t.Fatalf("4 uncertain at threshold 1 should be critical, got %s", got[3].Severity)
	}
	if logs.FilterMessage("uncertainty spike").Len() != 4 {
		t.Fatalf("expected 4 warnings, got %d", logs.Len())
	}

	stats := m.Statistics()
	if stats.TotalAlerts != 4 || stats.RecentAlerts != 4 || stats.Threshold != 1 || stats.Window != time.Minute {
		t.Fatalf("unexpected statistics: %+v", stats)
	}

	recent := m.Recent(2)
	if len(recent) != 2 || recent[1].ID != got[3].ID {
		t.Fatalf("Recent(2) should end with the latest alert: %+v", recent)
	}
	if len(m.Recent(0)) != 4 {
		t.Fatal("Recent(0) should return all alerts")
	}
}

// #endregion monitor-tests
