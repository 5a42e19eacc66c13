/*
NAME
  resolver.go

DESCRIPTION
  resolver.go classifies an EIT present/following section against a target
  event ID, per the ordered rule set both the Program Filter and the
  Airtime Tracker apply to every matching EIT.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package resolver classifies an EIT present/following section's events
// against a target event ID.
package resolver

import "github.com/ausocean/tsfilter/psi"

// Outcome is the classification an EIT yields for a target event ID.
type Outcome int

const (
	// Missing means the target event could not be located: either the
	// section carried no events at all, or it carried events and the
	// target matched neither the present nor the following slot.
	Missing Outcome = iota
	// Present means events[0] matched the target.
	Present
	// Following means events[1] matched the target (and events[0] did
	// not).
	Following
)

func (o Outcome) String() string {
	switch o {
	case Present:
		return "present"
	case Following:
		return "following"
	default:
		return "missing"
	}
}

// Result is the outcome of resolving an EIT against a target event ID,
// plus the matched event when the outcome is Present or Following.
type Result struct {
	Outcome Outcome
	Event   psi.EITEvent // zero value when Outcome == Missing.
	// NoFollowing is set alongside a Missing outcome when the section
	// carried a present event (which did not match) but had fewer than
	// two events, so no following slot could be checked. Callers use this
	// to distinguish "event likely cancelled" from "event not in p/f at
	// all", per the ordered rules.
	NoFollowing bool
}

// Resolve applies the ordered Present/Following/Missing rules to eit's
// events against targetEID:
//
//  1. No events at all -> Missing.
//  2. events[0] matches -> Present.
//  3. Fewer than two events -> Missing, NoFollowing set.
//  4. events[1] matches -> Following.
//  5. Otherwise -> Missing.
func Resolve(eit psi.EIT, targetEID uint16) Result {
	if len(eit.Events) == 0 {
		return Result{Outcome: Missing}
	}
	if eit.Events[0].EventID == targetEID {
		return Result{Outcome: Present, Event: eit.Events[0]}
	}
	if len(eit.Events) < 2 {
		return Result{Outcome: Missing, NoFollowing: true}
	}
	if eit.Events[1].EventID == targetEID {
		return Result{Outcome: Following, Event: eit.Events[1]}
	}
	return Result{Outcome: Missing}
}
