package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the closed set of task priority levels. The integer values are
// the persisted encoding and define the ordering: Low < Medium < High <
// Critical.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

var priorityNames = map[Priority]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

// Valid reports whether p is one of the four defined levels.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// String returns the lowercase level name, or "unknown" for an invalid value.
func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePriority maps a level name (case-insensitive) to its Priority.
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("models: unknown priority %q", s)
}

// MarshalJSON encodes the priority as its level name.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("models: invalid priority %d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a level name or the integer encoding.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParsePriority(s)
		if perr != nil {
			return perr
		}
		*p = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("models: priority must be a name or integer: %w", err)
	}
	if !Priority(n).Valid() {
		return fmt.Errorf("models: invalid priority %d", n)
	}
	*p = Priority(n)
	return nil
}
