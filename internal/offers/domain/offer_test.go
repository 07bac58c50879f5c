package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusWithdrawn, true},
		{StatusDraft, StatusAccepted, false},
		{StatusSent, StatusAccepted, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusWithdrawn, true},
		{StatusSent, StatusDraft, false},
		{StatusAccepted, StatusRejected, false},
		{StatusRejected, StatusSent, false},
		{StatusWithdrawn, StatusSent, false},
		{StatusSent, StatusSent, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("SENT"); !ok {
		t.Error("SENT must parse")
	}
	if _, ok := ParseStatus("EXPIRED"); ok {
		t.Error("EXPIRED must not parse")
	}
}
