package tally

import "time"

// #region counts
// Counts holds per-state occurrence counts.
type Counts struct {
	Off       int `json:"off"`
	Uncertain int `json:"uncertain"`
	On        int `json:"on"`
}

// Total returns the number of recorded states.
func (c Counts) Total() int {
	return c.Off + c.Uncertain + c.On
}

// #endregion counts

// #region statistics
// Statistics is a snapshot of a Recorder. Rates are percentages of Total and
// are zero when nothing has been recorded.
type Statistics struct {
	Total         int               `json:"total"`
	SuccessRate   float64           `json:"success_rate"`
	FailureRate   float64           `json:"failure_rate"`
	UncertainRate float64           `json:"uncertain_rate"`
	States        Counts            `json:"states"`
	Uptime        time.Duration     `json:"uptime"`
	Categories    map[string]Counts `json:"categories"`
}

// #endregion statistics
