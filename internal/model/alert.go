package model

import "time"

// Symbol pairs a data-source ticker with the display name written to the dataset.
type Symbol struct {
	Ticker string `yaml:"ticker" validate:"required"`
	Name   string `yaml:"name" validate:"required"`
}

// AlertRow is one output record: the bar, both EMAs and the derived alert.
// Signal is non-empty iff Action is not ActionNone.
type AlertRow struct {
	Date    time.Time
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  int64
	FastEMA float64
	SlowEMA float64
	Action  Action
	Signal  string
	Ticker  string
}

// Action is the alert state of a row.
type Action int

const (
	ActionNone Action = iota
	ActionLong
	ActionShort
)

func (a Action) String() string {
	switch a {
	case ActionLong:
		return "LONG ALERT"
	case ActionShort:
		return "SHORT ALERT"
	default:
		return "NA"
	}
}
