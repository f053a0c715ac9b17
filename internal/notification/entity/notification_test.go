package entity

import (
	"testing"
	"time"
)

func TestNotificationDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name        string
		scheduledAt *time.Time
		want        bool
	}{
		{"NoSchedule", nil, true},
		{"PastSchedule", &past, true},
		{"ExactSchedule", &now, true},
		{"FutureSchedule", &future, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := &Notification{ScheduledAt: tc.scheduledAt}
			if got := n.Due(now); got != tc.want {
				t.Fatalf("Due() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNotificationCanRetry(t *testing.T) {
	cases := []struct {
		name       string
		status     Status
		retryCount int16
		maxRetries int16
		want       bool
	}{
		{"FailedBelowCeiling", StatusFailed, 1, 3, true},
		{"FailedAtCeiling", StatusFailed, 3, 3, false},
		{"FailedAboveCeiling", StatusFailed, 4, 3, false},
		{"PendingNeverRetries", StatusPending, 0, 3, false},
		{"SentNeverRetries", StatusSent, 0, 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := &Notification{Status: tc.status, RetryCount: tc.retryCount, MaxRetries: tc.maxRetries}
			if got := n.CanRetry(); got != tc.want {
				t.Fatalf("CanRetry() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusUnknown:    false,
		StatusPending:    false,
		StatusProcessing: false,
		StatusSent:       true,
		StatusFailed:     false,
		StatusCancelled:  true,
	}

	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Fatalf("Terminal(%s) = %v, want %v", status.String(), got, want)
		}
	}
}

func TestChannelFromString(t *testing.T) {
	for _, ch := range []Channel{ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush} {
		if got := ChannelFromString(ch.String()); got != ch {
			t.Fatalf("ChannelFromString(%q) = %v, want %v", ch.String(), got, ch)
		}
	}

	if got := ChannelFromString("fax"); got != ChannelUnknown {
		t.Fatalf("expected unknown channel, got %v", got)
	}
	if got := ChannelFromString(" email "); got != ChannelEmail {
		t.Fatalf("expected surrounding whitespace tolerated, got %v", got)
	}
}

func TestTypeFromString(t *testing.T) {
	for _, typ := range []Type{TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeOrder, TypePayment, TypeShipping, TypePromotion} {
		if got := TypeFromString(typ.String()); got != typ {
			t.Fatalf("TypeFromString(%q) = %v, want %v", typ.String(), got, typ)
		}
	}

	if got := TypeFromString("carrier_pigeon"); got != TypeUnknown {
		t.Fatalf("expected unknown type, got %v", got)
	}
}
