package loan

import "strings"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusPaid     Status = "Paid"
)

// allowed lists the legal next states. Rejected and Paid are terminal.
var allowed = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid},
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected, StatusPaid}
}

// ParseStatus accepts any casing of a known status name.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range Statuses() {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the canonical status names.
func (s Status) Valid() bool {
	for _, k := range Statuses() {
		if s == k {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
// A state is never its own successor.
func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range allowed[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are accepted.
func (s Status) Terminal() bool { return len(allowed[s]) == 0 }
