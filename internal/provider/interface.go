package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"index-signals/internal/model"
)

// DataSource is the abstraction used by the application when accessing a data source.
// Implementations return daily bars ascending by date and own their retry policy.
type DataSource interface {
	FetchDaily(ctx context.Context, ticker string, start time.Time) ([]model.Bar, error)
	GetName() string
	Close() error
}

// ErrNoData is returned when a fetch succeeds but yields no bars.
var ErrNoData = errors.New("no data")

// FetchError wraps a failed fetch for one ticker.
type FetchError struct {
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
