package alert

import "time"

// Pattern is the visual signature attached to uncertainty alerts.
const Pattern = "▔▁▔▁▔▁▔▁"

// #region severity
// Severity grades an alert by how far the uncertain count exceeds the threshold.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// SeverityFor grades count against threshold: CRITICAL at 3x, HIGH at 2x,
// MEDIUM at 1.5x, LOW otherwise.
func SeverityFor(count, threshold int) Severity {
	c, t := float64(count), float64(threshold)
	switch {
	case c >= t*3:
		return SeverityCritical
	case c >= t*2:
		return SeverityHigh
	case c >= t*1.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// #endregion severity

// #region config
// Config holds spike detection thresholds.
type Config struct {
	Threshold   int           // uncertain states within Window that trigger an alert
	Window      time.Duration // sliding window length
	HistorySize int           // recorded states kept for window counting
}

// DefaultConfig returns the dashboard defaults: 5 uncertain states in 60s.
func DefaultConfig() Config {
	return Config{
		Threshold:   5,
		Window:      60 * time.Second,
		HistorySize: 1000,
	}
}

// #endregion config

// #region alert
// Alert reports an uncertainty spike.
type Alert struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Count     int       `json:"psi_count"`
	Pattern   string    `json:"pattern"`
}

// Statistics summarizes a Monitor.
type Statistics struct {
	TotalAlerts  int           `json:"total_alerts"`
	Threshold    int           `json:"threshold"`
	Window       time.Duration `json:"window"`
	RecentAlerts int           `json:"recent_alerts"`
}

// #endregion alert
