/*
NAME
  tracker.go

DESCRIPTION
  tracker.go implements AirtimeTracker, an EIT-only watcher that resolves a
  target (SID, EID) against each EIT present/following update and publishes
  an EventRecord the moment the event is present or upcoming.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package airtime

import (
	"github.com/pkg/errors"

	"github.com/ausocean/tsfilter/psi"
	"github.com/ausocean/tsfilter/resolver"
	"github.com/ausocean/tsfilter/tspacket"
	"github.com/ausocean/utils/logging"
)

// ErrEventCanceled is returned by HandlePacket when the EIT's present event
// does not match the target and the section carries no following event,
// which usually means the broadcaster canceled or rescheduled it away from
// its originally signaled start time. An EIT whose present and following
// events both fail to match ends the tracker with a nil error instead.
var ErrEventCanceled = errors.New("airtime: event might have been canceled")

// AirtimeTracker watches an EIT present/following (actual) table for a
// target (SID, EID) and emits an EventRecord via emitter whenever the
// resolved event is present or upcoming.
type AirtimeTracker struct {
	opt     AirtimeTrackerOptions
	emitter EventRecordEmitter
	log     logging.Logger

	demux         *psi.SectionDemux
	tableHandlers map[uint8]func(sourcePID uint16, section []byte)

	done bool
	err  error
}

// New constructs an AirtimeTracker that publishes to emitter.
func New(opt AirtimeTrackerOptions, emitter EventRecordEmitter, log logging.Logger) (*AirtimeTracker, error) {
	if err := opt.Validate(); err != nil {
		return nil, errors.Wrap(err, "airtime: invalid options")
	}
	if emitter == nil {
		return nil, errors.New("airtime: emitter must not be nil")
	}

	t := &AirtimeTracker{opt: opt, emitter: emitter, log: log}
	t.tableHandlers = map[uint8]func(uint16, []byte){
		psi.TableIDEITPresentFollowingActual: t.handleEIT,
	}
	t.demux = psi.NewSectionDemux(t.onTable)
	t.demux.AddPID(tspacket.PIDEIT)
	t.log.Log(logging.Debug, "demux EIT")
	return t, nil
}

func (t *AirtimeTracker) onTable(tableID uint8, sourcePID uint16, section []byte) {
	h, ok := t.tableHandlers[tableID]
	if !ok {
		return
	}
	h(sourcePID, section)
}

// HandlePacket feeds p to the section demux and reports whether the caller
// should continue. Once the tracker has signaled done, it always returns
// (false, err) where err is nil for a graceful end and non-nil when the
// target event was determined to be canceled.
func (t *AirtimeTracker) HandlePacket(p tspacket.Packet) (bool, error) {
	t.demux.Feed(p)
	if t.done {
		return false, t.err
	}
	return true, nil
}

func (t *AirtimeTracker) handleEIT(sourcePID uint16, section []byte) {
	eit, err := psi.DecodeEIT(section)
	if err != nil {
		t.log.Log(logging.Warning, "broken EIT, skip", "error", err)
		return
	}
	if eit.ServiceID != t.opt.SID {
		t.log.Log(logging.Warning, "EIT service_id unmatched, skip", "sid", eit.ServiceID)
		return
	}

	res := resolver.Resolve(eit, t.opt.EID)
	switch res.Outcome {
	case resolver.Present:
		t.log.Log(logging.Debug, "event has started", "eid", t.opt.EID)
		t.writeEventInfo(eit, res.Event)
	case resolver.Following:
		t.log.Log(logging.Debug, "event will start soon", "eid", t.opt.EID)
		t.writeEventInfo(eit, res.Event)
	default: // resolver.Missing
		if len(eit.Events) == 0 {
			t.log.Log(logging.Error, "no event in EIT")
			t.done = true
			return
		}
		if res.NoFollowing {
			t.log.Log(logging.Error, "event might have been canceled", "eid", t.opt.EID)
			t.done = true
			t.err = ErrEventCanceled
			return
		}
		// Target event is present in the p/f section as neither present
		// nor following.
		t.log.Log(logging.Error, "event not found in present/following", "eid", t.opt.EID)
		t.done = true
	}
}

func (t *AirtimeTracker) writeEventInfo(eit psi.EIT, event psi.EITEvent) {
	rec := EventRecord{
		NID:         eit.OriginalNetworkID,
		TSID:        eit.TransportStreamID,
		SID:         eit.ServiceID,
		EID:         event.EventID,
		StartTimeMs: event.StartTime.UnixMilli(),
		DurationMs:  event.Duration.Milliseconds(),
	}
	if err := t.emitter.Emit(rec); err != nil {
		t.log.Log(logging.Error, "could not emit event record", "error", err)
	}
}
