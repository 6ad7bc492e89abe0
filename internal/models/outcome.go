package models

// Outcome is the classified result of one validation round trip.
type Outcome string

const (
	OutcomeAccepted         Outcome = "ACCEPTED"
	OutcomeRejected         Outcome = "REJECTED"
	OutcomeUnauthorized     Outcome = "UNAUTHORIZED"
	OutcomeTransportFailure Outcome = "TRANSPORT_FAILURE"
)

// Outcomes lists every outcome in display order.
var Outcomes = []Outcome{
	OutcomeAccepted,
	OutcomeRejected,
	OutcomeUnauthorized,
	OutcomeTransportFailure,
}

func (o Outcome) String() string { return string(o) }

// Valid reports whether o is one of the four known outcomes.
func (o Outcome) Valid() bool {
	for _, known := range Outcomes {
		if o == known {
			return true
		}
	}
	return false
}
