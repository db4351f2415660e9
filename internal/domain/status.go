package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// POStatus is the lifecycle state of a purchase-order line.
type POStatus int

const (
	StatusUnknown POStatus = iota
	StatusOpen
	StatusCompleted
	StatusConfirmed
	StatusCancelled
	StatusExpired
)

var poStatusLabels = map[POStatus]string{
	StatusOpen:      "open",
	StatusCompleted: "completed",
	StatusConfirmed: "confirmed",
	StatusCancelled: "cancelled",
	StatusExpired:   "expired",
}

var poStatusCodes = map[string]POStatus{
	"open":      StatusOpen,
	"completed": StatusCompleted,
	"confirmed": StatusConfirmed,
	"cancelled": StatusCancelled,
	"expired":   StatusExpired,
}

// String returns the lowercase label used by uploads and the API.
func (s POStatus) String() string {
	if label, ok := poStatusLabels[s]; ok {
		return label
	}

	return "unknown"
}

// ParsePOStatus returns the status for a given label (case-insensitive).
func ParsePOStatus(label string) (POStatus, bool) {
	status, ok := poStatusCodes[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// IsCompleted reports whether the line is closed with goods received.
func (s POStatus) IsCompleted() bool {
	return s == StatusCompleted
}

// CountsTowardPOTotals reports whether the line is part of the consolidated
// "PO" billing and case totals. Open and cancelled lines are excluded.
func (s POStatus) CountsTowardPOTotals() bool {
	switch s {
	case StatusCompleted, StatusConfirmed, StatusExpired:
		return true
	case StatusOpen, StatusCancelled, StatusUnknown:
		return false
	default:
		return false
	}
}

func (s POStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *POStatus) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("decode po status: %w", err)
	}

	parsed, ok := ParsePOStatus(label)
	if !ok && label != "" && !strings.EqualFold(label, "unknown") {
		return fmt.Errorf("unknown po status %q", label)
	}
	*s = parsed

	return nil
}
