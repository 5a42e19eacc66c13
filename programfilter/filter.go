/*
NAME
  filter.go

DESCRIPTION
  filter.go implements ProgramFilter, a two-state packet gate that forwards
  only the packets belonging to one program's time window: bracketed by the
  service's current PAT/PMT and bounded by a PCR range derived from an EIT
  present/following event.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package programfilter

import (
	"github.com/pkg/errors"

	"github.com/ausocean/tsfilter/pcr"
	"github.com/ausocean/tsfilter/psi"
	"github.com/ausocean/tsfilter/resolver"
	"github.com/ausocean/tsfilter/tspacket"
	"github.com/ausocean/utils/logging"
)

// filterState is the ProgramFilter's place in its two-state machine.
type filterState int

const (
	stateWaitReady filterState = iota
	stateStreaming
)

func (s filterState) String() string {
	if s == stateStreaming {
		return "streaming"
	}
	return "wait-ready"
}

// ProgramFilter gates a TS packet stream down to one program's time window.
// It is not safe for concurrent use; packets must be handed to HandlePacket
// from a single goroutine, matching spec.md's "fed serially" concurrency
// model.
type ProgramFilter struct {
	opt  ProgramFilterOptions
	sink PacketSink
	log  logging.Logger

	demux         *psi.SectionDemux
	tableHandlers map[uint8]func(sourcePID uint16, section []byte)

	state filterState

	lastPatBuffer []tspacket.Packet
	lastPmtBuffer []tspacket.Packet

	pmtPID uint16
	pcrPID uint16

	pcrPIDReady   bool
	pcrRangeReady bool
	startPCR      int64
	endPCR        int64

	stop bool
}

// New constructs a ProgramFilter bound to sink, using log for diagnostics.
func New(opt ProgramFilterOptions, sink PacketSink, log logging.Logger) (*ProgramFilter, error) {
	if err := opt.Validate(); err != nil {
		return nil, errors.Wrap(err, "programfilter: invalid options")
	}
	if sink == nil {
		return nil, errors.New("programfilter: sink must not be nil")
	}

	f := &ProgramFilter{
		opt:    opt,
		sink:   sink,
		log:    log,
		pmtPID: tspacket.NullPID,
		pcrPID: tspacket.NullPID,
	}
	f.tableHandlers = map[uint8]func(uint16, []byte){
		psi.TableIDPAT:                      f.handlePAT,
		psi.TableIDPMT:                      f.handlePMT,
		psi.TableIDEITPresentFollowingActual: f.handleEIT,
	}
	f.demux = psi.NewSectionDemux(f.onTable)
	f.demux.AddPID(tspacket.PIDPAT)
	f.demux.AddPID(tspacket.PIDEIT)
	f.log.Log(logging.Debug, "demux += PAT EIT")
	return f, nil
}

func (f *ProgramFilter) onTable(tableID uint8, sourcePID uint16, section []byte) {
	h, ok := f.tableHandlers[tableID]
	if !ok {
		return
	}
	h(sourcePID, section)
}

// Start starts the downstream sink.
func (f *ProgramFilter) Start() error {
	return f.sink.Start()
}

// End signals end-of-stream to the downstream sink.
func (f *ProgramFilter) End() error {
	return f.sink.End()
}

// HandlePacket advances the filter's state machine by one packet and
// reports whether the caller should continue feeding packets.
func (f *ProgramFilter) HandlePacket(p tspacket.Packet) (bool, error) {
	if f.stop {
		return false, nil
	}

	f.demux.Feed(p)

	switch f.state {
	case stateWaitReady:
		return f.waitReady(p)
	case stateStreaming:
		return f.streaming(p)
	default:
		return false, errors.Errorf("programfilter: unknown state %v", f.state)
	}
}

func (f *ProgramFilter) waitReady(p tspacket.Packet) (bool, error) {
	pid := p.PID()

	switch {
	case pid == tspacket.PIDPAT:
		if f.opt.PreStreaming {
			return f.sink.HandlePacket(p)
		}
		if p.PUSI() {
			f.lastPatBuffer = f.lastPatBuffer[:0]
		}
		f.lastPatBuffer = append(f.lastPatBuffer, p)
	case f.pmtPID != tspacket.NullPID && pid == f.pmtPID:
		if p.PUSI() {
			f.lastPmtBuffer = f.lastPmtBuffer[:0]
		}
		f.lastPmtBuffer = append(f.lastPmtBuffer, p)
	default:
		// Drop: not a packet this filter buffers or forwards yet.
	}

	if !f.pcrPIDReady || !f.pcrRangeReady {
		return true, nil
	}
	if pid != f.pcrPID {
		return true, nil
	}

	pcrVal, ok := p.PCR()
	if !ok {
		f.log.Log(logging.Debug, "no PCR value on PCR PID, tolerated", "pid", pid)
		return true, nil
	}

	if pcr.Compare(pcrVal, f.endPCR) >= 0 {
		f.log.Log(logging.Info, "reached end PCR before streaming started")
		return false, nil
	}
	if pcr.Compare(pcrVal, f.startPCR) < 0 {
		return true, nil
	}

	f.log.Log(logging.Info, "reached start PCR")

	if !f.opt.PreStreaming {
		if len(f.lastPatBuffer) == 0 {
			f.log.Log(logging.Fatal, "start boundary crossed with no buffered PAT")
		}
		for _, pkt := range f.lastPatBuffer {
			ok, err := f.sink.HandlePacket(pkt)
			if err != nil || !ok {
				return ok, err
			}
		}
		f.lastPatBuffer = nil
	}

	for _, pkt := range f.lastPmtBuffer {
		ok, err := f.sink.HandlePacket(pkt)
		if err != nil || !ok {
			return ok, err
		}
	}
	f.lastPmtBuffer = nil

	f.state = stateStreaming
	return f.sink.HandlePacket(p)
}

func (f *ProgramFilter) streaming(p tspacket.Packet) (bool, error) {
	if p.PID() == f.pcrPID {
		if pcrVal, ok := p.PCR(); ok && pcr.Compare(pcrVal, f.endPCR) >= 0 {
			f.log.Log(logging.Info, "reached end PCR")
			return false, nil
		}
	}
	return f.sink.HandlePacket(p)
}

func (f *ProgramFilter) handlePAT(sourcePID uint16, section []byte) {
	pat, err := psi.DecodePAT(section)
	if err != nil {
		f.log.Log(logging.Warning, "broken PAT, skip", "error", err)
		return
	}
	if sourcePID != tspacket.PIDPAT {
		f.log.Log(logging.Warning, "PAT on unexpected source PID, skip", "pid", sourcePID)
		return
	}
	if pat.TransportStreamID == 0 {
		// Defensive filtering against a known garbage PAT observed on
		// certain channels near midnight.
		f.log.Log(logging.Warning, "PAT with ts_id 0, skip")
		return
	}

	newPmtPID, ok := pat.ProgramMap[f.opt.SID]
	if !ok {
		// Guaranteed by the upstream service filter; a violation here is
		// an invariant failure, not a recoverable stream condition.
		f.log.Log(logging.Fatal, "target SID not present in PAT", "sid", f.opt.SID)
		return
	}

	if f.pmtPID != tspacket.NullPID {
		f.demux.RemovePID(f.pmtPID)
		f.log.Log(logging.Debug, "demux -= PMT", "pid", f.pmtPID)
	}
	f.pmtPID = newPmtPID
	f.demux.AddPID(f.pmtPID)
	f.log.Log(logging.Debug, "demux += PMT", "pid", f.pmtPID)
}

func (f *ProgramFilter) handlePMT(sourcePID uint16, section []byte) {
	pmt, err := psi.DecodePMT(section)
	if err != nil {
		f.log.Log(logging.Warning, "broken PMT, skip", "error", err)
		return
	}
	if pmt.ServiceID != f.opt.SID {
		return
	}

	f.pcrPID = pmt.PCRPID
	f.pcrPIDReady = true
	f.log.Log(logging.Debug, "PCR PID", "pid", f.pcrPID)
}

func (f *ProgramFilter) handleEIT(sourcePID uint16, section []byte) {
	eit, err := psi.DecodeEIT(section)
	if err != nil {
		f.log.Log(logging.Warning, "broken EIT, skip", "error", err)
		return
	}
	if eit.ServiceID != f.opt.SID {
		return
	}

	res := resolver.Resolve(eit, f.opt.EID)
	switch res.Outcome {
	case resolver.Present:
		f.log.Log(logging.Debug, "event has started", "eid", f.opt.EID)
		f.updatePCRRange(res.Event)
	case resolver.Following:
		f.log.Log(logging.Debug, "event will start soon", "eid", f.opt.EID)
		f.updatePCRRange(res.Event)
	default: // resolver.Missing
		if len(eit.Events) == 0 {
			f.log.Log(logging.Error, "no event in EIT, stop")
			f.stop = true
			return
		}
		if res.NoFollowing {
			f.log.Log(logging.Warning, "no following event in EIT")
			if f.state == stateStreaming {
				return // Continue streaming until PCR reaches end_pcr.
			}
			f.log.Log(logging.Error, "event might have been canceled", "eid", f.opt.EID)
			f.stop = true
			return
		}
		// Target event is present in the p/f section as neither present
		// nor following.
		if f.state == stateStreaming {
			return // Continue streaming until PCR reaches end_pcr.
		}
		f.log.Log(logging.Error, "event might have been canceled", "eid", f.opt.EID)
		f.stop = true
	}
}

func (f *ProgramFilter) updatePCRRange(e psi.EITEvent) {
	startTime := e.StartTime.Add(-f.opt.StartMargin)
	duration := e.Duration + f.opt.EndMargin
	endTime := e.StartTime.Add(duration)

	f.startPCR = pcr.TimeToPCR(startTime, f.opt.ClockTime, f.opt.ClockPCR)
	f.endPCR = pcr.TimeToPCR(endTime, f.opt.ClockTime, f.opt.ClockPCR)
	f.pcrRangeReady = true

	f.log.Log(logging.Info, "updated PCR range",
		"startPCR", f.startPCR, "startTime", startTime,
		"endPCR", f.endPCR, "endTime", endTime)
}
