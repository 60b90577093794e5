package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// NewHealthChecker creates an empty checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]CheckFunc)}
}

// RegisterCheck registers a check. Registering a name again replaces
// the earlier check but keeps its position.
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if _, exists := hc.checks[name]; !exists {
		hc.names = append(hc.names, name)
	}
	hc.checks[name] = check
}

// Check performs all checks
func (hc *HealthChecker) Check(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	start := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Timestamp: start,
		Checks:    make(map[string]Check, len(hc.names)),
		Order:     append([]string(nil), hc.names...),
	}

	for _, name := range hc.names {
		began := time.Now()
		var check Check
		if err := ctx.Err(); err != nil {
			check = Check{Status: StatusUnhealthy, Message: err.Error()}
		} else {
			check = hc.checks[name](ctx)
		}
		check.Name = name
		check.Duration = time.Since(began)
		check.LastChecked = began
		response.Checks[name] = check

		// Worst status wins
		if check.Status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if check.Status == StatusDegraded && response.Status != StatusUnhealthy {
			response.Status = StatusDegraded
		}
	}
	response.Duration = time.Since(start)
	return response
}

// Err lists the unhealthy checks, or returns nil. Degraded checks do
// not fail a run.
func (r Response) Err() error {
	if r.Status != StatusUnhealthy {
		return nil
	}
	var failed []string
	for _, name := range r.Order {
		if c := r.Checks[name]; c.Status == StatusUnhealthy {
			failed = append(failed, fmt.Sprintf("%s: %s", name, c.Message))
		}
	}
	return fmt.Errorf("preflight failed: %v", failed)
}

// WriteJSON writes the response as indented JSON.
func (r Response) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
