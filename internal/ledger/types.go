package ledger

import "time"

// #region evaluation
// Evaluation is one kernel call as recorded in the evaluations table.
type Evaluation struct {
	ID         string
	Operation  string // "classify" | "decide" | "resolve" | "and" | "or" | "xor" | "not"
	Category   string
	InputsJSON string
	Result     uint8 // wire code of the resulting state
	CreatedAt  time.Time
}

// #endregion evaluation

// #region alert-row
// AlertRow is a persisted uncertainty alert.
type AlertRow struct {
	ID        string
	Severity  string
	Message   string
	Category  string
	Count     int
	CreatedAt time.Time
}

// #endregion alert-row
