/*
NAME
  options.go

DESCRIPTION
  options.go defines AirtimeTrackerOptions, the immutable configuration an
  AirtimeTracker is constructed with.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package airtime implements the Airtime Tracker: an EIT-only watcher that
// publishes structured event metadata for a target (SID, EID) the moment
// that event becomes present or upcoming.
package airtime

import "github.com/pkg/errors"

// AirtimeTrackerOptions configures an AirtimeTracker.
type AirtimeTrackerOptions struct {
	SID uint16
	EID uint16
}

// Validate reports an error if o is not usable to construct an
// AirtimeTracker.
func (o AirtimeTrackerOptions) Validate() error {
	if o.SID == 0 {
		return errors.New("airtime: SID must be non-zero")
	}
	return nil
}
