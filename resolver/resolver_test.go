package resolver

import (
	"testing"

	"github.com/ausocean/tsfilter/psi"
)

func TestResolveMissingNoEvents(t *testing.T) {
	got := Resolve(psi.EIT{}, 100)
	if got.Outcome != Missing {
		t.Fatalf("Outcome = %v, want Missing", got.Outcome)
	}
	if got.NoFollowing {
		t.Errorf("NoFollowing set for a section with zero events")
	}
}

func TestResolvePresent(t *testing.T) {
	present := psi.EITEvent{EventID: 100}
	following := psi.EITEvent{EventID: 200}
	eit := psi.EIT{Events: []psi.EITEvent{present, following}}

	got := Resolve(eit, 100)
	if got.Outcome != Present {
		t.Fatalf("Outcome = %v, want Present", got.Outcome)
	}
	if got.Event != present {
		t.Errorf("Event = %+v, want %+v", got.Event, present)
	}
}

func TestResolveMissingNoFollowingSlot(t *testing.T) {
	eit := psi.EIT{Events: []psi.EITEvent{{EventID: 999}}}

	got := Resolve(eit, 100)
	if got.Outcome != Missing {
		t.Fatalf("Outcome = %v, want Missing", got.Outcome)
	}
	if !got.NoFollowing {
		t.Errorf("NoFollowing not set when fewer than two events were present")
	}
}

func TestResolveFollowing(t *testing.T) {
	present := psi.EITEvent{EventID: 0x0999}
	following := psi.EITEvent{EventID: 0x1000}
	eit := psi.EIT{Events: []psi.EITEvent{present, following}}

	got := Resolve(eit, 0x1000)
	if got.Outcome != Following {
		t.Fatalf("Outcome = %v, want Following", got.Outcome)
	}
	if got.Event != following {
		t.Errorf("Event = %+v, want %+v", got.Event, following)
	}
}

func TestResolveMissingNeitherMatches(t *testing.T) {
	eit := psi.EIT{Events: []psi.EITEvent{{EventID: 1}, {EventID: 2}}}

	got := Resolve(eit, 999)
	if got.Outcome != Missing {
		t.Fatalf("Outcome = %v, want Missing", got.Outcome)
	}
	if got.NoFollowing {
		t.Errorf("NoFollowing set even though a following slot was present and checked")
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{Present: "present", Following: "following", Missing: "missing"}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}
