// Package domain holds pure lead pipeline rules shared by the leads
// module and its collaborators (task generation, offers).
package domain

import "strings"

// Status is the canonical lead pipeline status.
//
// Historical UIs shipped two diverging status sets (a list-view enum with
// PROPOSAL_SENT and a detail-view enum with UNDER_CONTRACT/CLOSED/LOST).
// This enum is their union with legacy values mapped via Parse; see
// DESIGN.md for the reconciliation table.
type Status string

const (
	StatusNew           Status = "NEW"
	StatusContacted     Status = "CONTACTED"
	StatusQualified     Status = "QUALIFIED"
	StatusNegotiating   Status = "NEGOTIATING"
	StatusUnderContract Status = "UNDER_CONTRACT"
	StatusClosedWon     Status = "CLOSED_WON"
	StatusClosedLost    Status = "CLOSED_LOST"
)

// legacyAliases maps status values from the old inconsistent enums onto
// the canonical set.
var legacyAliases = map[string]Status{
	"PROPOSAL_SENT": StatusNegotiating,
	"CLOSED":        StatusClosedWon,
	"LOST":          StatusClosedLost,
}

// All returns every canonical status in pipeline order.
func All() []Status {
	return []Status{
		StatusNew,
		StatusContacted,
		StatusQualified,
		StatusNegotiating,
		StatusUnderContract,
		StatusClosedWon,
		StatusClosedLost,
	}
}

// Parse normalizes a raw status string to a canonical Status.
// Legacy enum values are accepted and mapped.
func Parse(raw string) (Status, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if alias, ok := legacyAliases[normalized]; ok {
		return alias, true
	}
	for _, status := range All() {
		if string(status) == normalized {
			return status, true
		}
	}
	return "", false
}

// IsClosed reports whether the status is a terminal pipeline state.
func (s Status) IsClosed() bool {
	return s == StatusClosedWon || s == StatusClosedLost
}

// CanTransition reports whether a lead may move from one status to another.
// The pipeline is deliberately permissive: agents reorder and reopen deals
// constantly, so the only hard rules are that a won deal is immutable and
// a lost deal can only be recycled back to NEW.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusClosedWon:
		return false
	case StatusClosedLost:
		return to == StatusNew
	default:
		return true
	}
}
