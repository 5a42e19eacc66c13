/*
NAME
  emitter.go

DESCRIPTION
  emitter.go defines EventRecord and EventRecordEmitter, and provides
  JSONLEmitter, a newline-delimited-JSON implementation over an io.Writer.

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
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// EventRecord is the structured metadata an AirtimeTracker publishes for a
// present or upcoming event.
type EventRecord struct {
	NID         uint16 `json:"nid"`
	TSID        uint16 `json:"tsid"`
	SID         uint16 `json:"sid"`
	EID         uint16 `json:"eid"`
	StartTimeMs int64  `json:"startTime"`
	DurationMs  int64  `json:"duration"`
}

// EventRecordEmitter publishes EventRecord values to an external collaborator.
type EventRecordEmitter interface {
	Emit(EventRecord) error
}

// JSONLEmitter writes each EventRecord as one line of JSON to an underlying
// io.Writer, the newline-delimited-JSON transport spec.md's Airtime Tracker
// output describes.
type JSONLEmitter struct {
	w   io.Writer
	enc *json.Encoder
}

// NewJSONLEmitter returns a JSONLEmitter writing to w.
func NewJSONLEmitter(w io.Writer) *JSONLEmitter {
	return &JSONLEmitter{w: w, enc: json.NewEncoder(w)}
}

// Emit writes rec as one line of JSON, including the trailing newline
// json.Encoder already appends.
func (e *JSONLEmitter) Emit(rec EventRecord) error {
	if err := e.enc.Encode(rec); err != nil {
		return errors.Wrap(err, "airtime: could not encode event record")
	}
	return nil
}
