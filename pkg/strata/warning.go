package strata

import (
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/logging"
)

// WarningCode classifies a non-fatal condition.
type WarningCode string

const (
	// CodeEdgeRemoved: a cycle edge was dropped because the authority
	// table did not confirm it.
	CodeEdgeRemoved WarningCode = "edge_removed"
	// CodeConfirmedEdgeRemoved: every edge in a cycle was confirmed and
	// one had to go anyway.
	CodeConfirmedEdgeRemoved WarningCode = "confirmed_edge_removed"
	// CodeFallbackEdgeRemoved: no authority was available and the first
	// edge of the cycle was dropped.
	CodeFallbackEdgeRemoved WarningCode = "fallback_edge_removed"
	// CodeAuthorityUnavailable: the reference table could not be loaded.
	CodeAuthorityUnavailable WarningCode = "authority_unavailable"
	// CodeMissingAge: a group referenced by an edge has no age record.
	CodeMissingAge WarningCode = "missing_age"
	// CodeUntrackedFault: a report names a fault absent from the dimension table.
	CodeUntrackedFault WarningCode = "untracked_fault"
	// CodeMissingEndpoint: an incidence entry referenced a node that does
	// not exist in the fused graph.
	CodeMissingEndpoint WarningCode = "missing_endpoint"
	// CodeOrderTruncated: order enumeration hit its cap.
	CodeOrderTruncated WarningCode = "order_truncated"
)

// Warning is a non-fatal condition attached to the entity it affects.
type Warning struct {
	Stage   string
	Code    WarningCode
	Entity  string
	Message string
}

func (w Warning) String() string {
	if w.Entity == "" {
		return fmt.Sprintf("[%s] %s: %s", w.Stage, w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s %s: %s", w.Stage, w.Code, w.Entity, w.Message)
}

// EdgeRemovedMessage describes a dropped "overlies" relationship.
func EdgeRemovedMessage(over, under string) string {
	return fmt.Sprintf("%s overlies %s removed to prevent cycle", over, under)
}

// Warnings accumulates warnings in the order they were raised.
type Warnings []Warning

// Add records a warning.
func (ws *Warnings) Add(stage string, code WarningCode, entity, format string, args ...any) {
	*ws = append(*ws, Warning{
		Stage:   stage,
		Code:    code,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns how many warnings carry code.
func (ws Warnings) Count(code WarningCode) int {
	n := 0
	for _, w := range ws {
		if w.Code == code {
			n++
		}
	}
	return n
}

// Log writes every warning at WARN level.
func (ws Warnings) Log(logger logging.Logger) {
	for _, w := range ws {
		logger.Warn(w.Message,
			logging.Stage(w.Stage),
			logging.String("code", string(w.Code)),
			logging.String("entity", w.Entity),
		)
	}
}
