package strata

import "strings"

var labelCleaner = strings.NewReplacer(" ", "_", "-", "_", "?", "_")

// CleanLabel normalises a unit or group label the way the topology
// extractor writes them.
func CleanLabel(label string) string {
	return labelCleaner.Replace(label)
}

// FaultPrefix prefixes numeric fault ids reported by the extractor.
const FaultPrefix = "Fault_"

// FaultKey returns the tracked fault identifier for an extractor id.
func FaultKey(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, FaultPrefix) {
		return id
	}
	return FaultPrefix + id
}
