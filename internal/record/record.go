package record

import "fmt"

// Status is the account state carried in the user roster.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// ParseStatus validates a raw roster status field.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusDisabled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q (want active or disabled)", s)
	}
}

// User is one roster row. Rows are immutable once read and are
// discarded after classification; duplicates are not collapsed.
type User struct {
	Username      string
	LastLoginDays int
	Status        Status
}

// Event is one entry from the login-event feed. Timestamp is kept
// opaque: it is carried through but never interpreted.
type Event struct {
	User      string `json:"user"`
	Type      string `json:"event"`
	Timestamp string `json:"timestamp,omitempty"`
}

// EventFailedLogin is the event type the failed-login policy counts.
const EventFailedLogin = "failed_login"

// Process is a single running-process name from an OS listing.
type Process struct {
	Name string `json:"name"`
}

// Service is one Windows service row (Export-Csv shape: Name,Status).
type Service struct {
	Name   string
	Status string
}

// Tier is the risk level assigned to a record. Higher values are
// more severe; the zero value is OK.
type Tier int

const (
	TierOK Tier = iota
	TierLow
	TierWarning
	TierMedium
	TierHigh
	TierCritical
)

var tierNames = map[Tier]string{
	TierOK:       "OK",
	TierLow:      "LOW",
	TierWarning:  "WARNING",
	TierMedium:   "MEDIUM",
	TierHigh:     "HIGH",
	TierCritical: "CRITICAL",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// AtLeast reports whether t is as severe as min.
func (t Tier) AtLeast(min Tier) bool { return t >= min }

// Verdict is the outcome of classifying one record. It is consumed
// immediately by the reporter and only persists as a rendered log line.
type Verdict struct {
	Subject string
	Tier    Tier
	Reason  string
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Subject, v.Tier, v.Reason)
}
