// Package classify holds the risk policies. Every policy is a pure
// function over one record's attributes: no I/O, deterministic, and
// total (the rule chain always ends in a default tier).
package classify

import (
	"fmt"

	"github.com/Vesslan01/secsweep/internal/record"
)

// InactivityPolicy classifies roster rows by how long an account has
// been idle. Rules are evaluated in order, first match wins.
//
// The two shipped variants differ in one guard: Strict only flags a
// disabled account as "disabled but recently active" when it really
// was recently active (last login under 30 days), Broad flags every
// disabled account that fell through the inactivity rules. They are
// genuinely different rule sets, so both are exposed by name rather
// than merged.
type InactivityPolicy struct {
	Name string

	// RecentOnlyWarning guards the disabled-account rule with
	// lastLoginDays < 30.
	RecentOnlyWarning bool
}

var (
	InactivityStrict = InactivityPolicy{Name: "strict", RecentOnlyWarning: true}
	InactivityBroad  = InactivityPolicy{Name: "broad", RecentOnlyWarning: false}
)

// InactivityVariant resolves a configured variant name.
func InactivityVariant(name string) (InactivityPolicy, error) {
	switch name {
	case InactivityStrict.Name:
		return InactivityStrict, nil
	case InactivityBroad.Name:
		return InactivityBroad, nil
	default:
		return InactivityPolicy{}, fmt.Errorf("unknown inactivity policy %q (want strict or broad)", name)
	}
}

// Classify returns exactly one verdict for u. Boundary semantics:
// 180 days is already HIGH (inclusive), 90 days is still OK (the
// MEDIUM rule is strict greater-than).
func (p InactivityPolicy) Classify(u record.User) record.Verdict {
	disabled := u.Status == record.StatusDisabled
	switch {
	case u.LastLoginDays >= 180 && disabled:
		return record.Verdict{Subject: u.Username, Tier: record.TierCritical, Reason: "inactive > 180 days & disabled"}
	case u.LastLoginDays >= 180:
		return record.Verdict{Subject: u.Username, Tier: record.TierHigh, Reason: "inactive > 180 days"}
	case u.LastLoginDays > 90:
		return record.Verdict{Subject: u.Username, Tier: record.TierMedium, Reason: "inactive > 90 days"}
	case disabled && (!p.RecentOnlyWarning || u.LastLoginDays < 30):
		return record.Verdict{Subject: u.Username, Tier: record.TierWarning, Reason: "disabled but recently active"}
	default:
		return record.Verdict{Subject: u.Username, Tier: record.TierOK, Reason: "within activity thresholds"}
	}
}
