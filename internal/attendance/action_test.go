package attendance

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPendingAction(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		want   Action
	}{
		{"no record", Status{}, ActionCheckIn},
		{"checked in only", Status{CheckInTime: "09:00"}, ActionCheckOut},
		{"full day", Status{CheckInTime: "09:00", CheckOutTime: "17:30"}, ActionCheckIn},
		{"checkout without checkin", Status{CheckOutTime: "17:30"}, ActionCheckIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.status.PendingAction(); got != tc.want {
				t.Fatalf("PendingAction() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewSubmissionShape(t *testing.T) {
	in := NewSubmission(ActionCheckIn, "12.971599, 77.594566", "data:image/jpeg;base64,xxx")
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if !strings.Contains(body, "checkInLocation") || !strings.Contains(body, "checkInPhoto") {
		t.Fatalf("check-in payload missing check-in fields: %s", body)
	}
	if strings.Contains(body, "checkOut") {
		t.Fatalf("check-in payload leaked check-out fields: %s", body)
	}

	out := NewSubmission(ActionCheckOut, "1.000000, 2.000000", "data:image/png;base64,yyy")
	data, err = json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	body = string(data)
	if !strings.Contains(body, "checkOutLocation") || !strings.Contains(body, "checkOutPhoto") {
		t.Fatalf("check-out payload missing check-out fields: %s", body)
	}
	if strings.Contains(body, "checkIn") {
		t.Fatalf("check-out payload leaked check-in fields: %s", body)
	}
}

func TestActionStrings(t *testing.T) {
	if ActionCheckIn.String() != "checkIn" || ActionCheckOut.String() != "checkOut" {
		t.Fatalf("wire spellings wrong: %q %q", ActionCheckIn, ActionCheckOut)
	}
	if ActionCheckIn.Label() != "Check In" || ActionCheckOut.Label() != "Check Out" {
		t.Fatalf("labels wrong: %q %q", ActionCheckIn.Label(), ActionCheckOut.Label())
	}
}
