/*
NAME
  options.go

DESCRIPTION
  options.go defines ProgramFilterOptions, the immutable configuration a
  ProgramFilter is constructed with.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package programfilter implements the Program Filter: a stateful packet
// gate that carves one program's time window out of a continuous MPEG-2 TS
// stream, using PCR values recovered from the stream itself.
package programfilter

import (
	"time"

	"github.com/pkg/errors"
)

// ProgramFilterOptions configures a ProgramFilter. It is immutable once the
// filter is constructed.
type ProgramFilterOptions struct {
	// SID is the target service ID; packets not belonging to this service
	// are expected to already have been removed upstream.
	SID uint16
	// EID is the target event ID within the EIT present/following table.
	EID uint16
	// ClockPCR and ClockTime together anchor the conversion between
	// wall-clock time and stream PCR: ClockPCR is the PCR value observed
	// at wall-clock time ClockTime.
	ClockPCR  int64
	ClockTime time.Time
	// StartMargin is subtracted from the event's start time before it is
	// converted to a PCR boundary, widening the forwarded window to start
	// earlier than the EIT reports.
	StartMargin time.Duration
	// EndMargin is added after the event's nominal end time, widening the
	// forwarded window to end later than the EIT reports.
	EndMargin time.Duration
	// PreStreaming, if true, forwards PAT packets to the sink as they
	// arrive rather than buffering only the most recent one for delivery
	// at the start boundary.
	PreStreaming bool
}

// Validate reports an error if o is not usable to construct a
// ProgramFilter.
func (o ProgramFilterOptions) Validate() error {
	if o.SID == 0 {
		return errors.New("programfilter: SID must be non-zero")
	}
	if o.ClockTime.IsZero() {
		return errors.New("programfilter: ClockTime must be set")
	}
	return nil
}
