package booking

import "testing"

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusPending, StatusConfirmed) {
		t.Fatal("expected pending -> confirmed to be allowed")
	}
	if !CanTransition(StatusConfirmed, StatusActive) {
		t.Fatal("expected confirmed -> active to be allowed")
	}
	if !CanTransition(StatusActive, StatusCompleted) {
		t.Fatal("expected active -> completed to be allowed")
	}
	if CanTransition(StatusPending, StatusActive) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransition(StatusPending, StatusCompleted) {
		t.Fatal("unexpected transition allowed")
	}
	for _, from := range []string{StatusPending, StatusConfirmed, StatusActive} {
		if !CanTransition(from, StatusCancelled) {
			t.Fatalf("expected %s -> cancelled to be allowed", from)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		if !IsTerminal(terminal) {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		for _, to := range []string{StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled} {
			if CanTransition(terminal, to) {
				t.Fatalf("unexpected transition %s -> %s allowed", terminal, to)
			}
		}
	}
}

func TestTargetStatus(t *testing.T) {
	cases := map[string]string{
		ActionConfirm:  StatusConfirmed,
		ActionStart:    StatusActive,
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	}
	for action, want := range cases {
		got, ok := TargetStatus(action)
		if !ok || got != want {
			t.Fatalf("TargetStatus(%s) = %s, %v; want %s", action, got, ok, want)
		}
	}
	if _, ok := TargetStatus("reschedule"); ok {
		t.Fatal("unknown action should not resolve")
	}
}
