/*
NAME
  pcr.go

DESCRIPTION
  pcr.go provides arithmetic over MPEG-2 Program Clock Reference values in
  their 33-bit-base/9-bit-extension wire form, represented here as a single
  PCR-ticks integer modulo Wrap. This includes wraparound-aware signed
  comparison and wall-clock/PCR conversion anchored to a caller-supplied
  clock pair.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcr provides arithmetic over MPEG-2 Program Clock Reference
// values in the 33-bit-base/9-bit-extension PCR-ticks space.
package pcr

import "time"

// Wrap is the modulus of PCR-ticks space: a 33-bit base at 90kHz scaled by
// 300 to a 27MHz tick count, plus room for the 9-bit extension already
// folded in by callers that extract PCR as base*300+ext.
const Wrap = int64(1) << 33 * 300

// TicksPerMs is the number of 27MHz PCR ticks in one millisecond.
const TicksPerMs = 27_000

// Compare returns a signed "a - b" in PCR-ticks space, taking the wraparound
// at Wrap into account. Only the sign of the result is meaningful to
// callers; its magnitude is not a true distance once the wrap is involved.
//
// This assumes the real elapsed interval between a and b is less than
// Wrap/2; violating that assumption (PCR values more than half the wrap
// apart) produces a sign flip that is the caller's problem, not this
// function's.
func Compare(a, b int64) int64 {
	best := a - b
	for _, cand := range [2]int64{a - b - Wrap, a - b + Wrap} {
		if abs(cand) < abs(best) {
			best = cand
		}
	}
	return best
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// TimeToPCR converts wall-clock time t into PCR-ticks space, anchored by the
// (clockTime, clockPCR) pair supplied at construction. The result is
// normalized into [0, Wrap).
func TimeToPCR(t, clockTime time.Time, clockPCR int64) int64 {
	ms := t.Sub(clockTime).Milliseconds()
	p := clockPCR + ms*TicksPerMs
	for p < 0 {
		p += Wrap
	}
	return p % Wrap
}
