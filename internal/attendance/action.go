package attendance

// Action is the pending attendance event type for the current review cycle.
type Action int

const (
	ActionCheckIn Action = iota
	ActionCheckOut
)

// String returns the wire spelling of the action.
func (a Action) String() string {
	if a == ActionCheckOut {
		return "checkOut"
	}
	return "checkIn"
}

// Label returns the user-facing spelling of the action.
func (a Action) Label() string {
	if a == ActionCheckOut {
		return "Check Out"
	}
	return "Check In"
}

// Status is the backend's record for the current day. Times are opaque
// strings; only set/unset matters here.
type Status struct {
	CheckInTime  string `json:"checkInTime,omitempty"`
	CheckOutTime string `json:"checkOutTime,omitempty"`
}

// PendingAction derives the next event from the day's record: check-out only
// when a check-in is recorded without a matching check-out, check-in in every
// other case.
func (s Status) PendingAction() Action {
	if s.CheckInTime != "" && s.CheckOutTime == "" {
		return ActionCheckOut
	}
	return ActionCheckIn
}

// Submission is the action-shaped payload sent to the backend. Exactly one
// location/photo pair is populated; the omitempty tags keep the other pair
// off the wire.
type Submission struct {
	CheckInLocation  string `json:"checkInLocation,omitempty"`
	CheckInPhoto     string `json:"checkInPhoto,omitempty"`
	CheckOutLocation string `json:"checkOutLocation,omitempty"`
	CheckOutPhoto    string `json:"checkOutPhoto,omitempty"`
}

// NewSubmission builds the payload for the given action.
func NewSubmission(action Action, location, photo string) Submission {
	if action == ActionCheckOut {
		return Submission{CheckOutLocation: location, CheckOutPhoto: photo}
	}
	return Submission{CheckInLocation: location, CheckInPhoto: photo}
}
