/*
NAME
  sink.go

DESCRIPTION
  sink.go defines PacketSink, the downstream consumer a ProgramFilter
  forwards its selected packets to.

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

import "github.com/ausocean/tsfilter/tspacket"

// PacketSink receives the packets a ProgramFilter selects for forwarding.
// HandlePacket returns (false, nil) to request that the filter stop
// feeding it further packets without that being an error; a non-nil error
// always halts the filter.
type PacketSink interface {
	Start() error
	HandlePacket(p tspacket.Packet) (bool, error)
	End() error
}
