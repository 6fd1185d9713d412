package order

import (
	"fmt"

	"shopfloor/internal/pkg/errs"
)

// Status is the lifecycle state shared by orders and tracked items.
//
//	Pending ──> Completed
//
// The transition is derived from completed quantities, never set directly.
type Status int

const (
	// Unknown (0) catches uninitialized values.
	Unknown Status = iota
	Pending
	Completed
)

var statusNames = map[Status]string{
	Pending:   "Pending",
	Completed: "Completed",
}

// ParseStatus converts the stored/wire representation into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

func statusFor(done bool) Status {
	if done {
		return Completed
	}
	return Pending
}
