/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package rdr

import (
	"github.com/ssec-jpss/go-rdr/pkg/layers"
	"github.com/ssec-jpss/go-rdr/pkg/log"
)

// PacketGroup is an ordered sequence of packets of one apid forming a
// single observation: one standalone packet, or first..cont..last. The
// group carries the IET of its first packet.
type PacketGroup struct {
	Apid      uint16
	IET       int64
	Packets   []*layers.SpacePacket
	Truncated bool
}

func (g *PacketGroup) append(pkt *layers.SpacePacket) {
	g.Packets = append(g.Packets, pkt)
}

// Size returns the total raw byte size of the group.
func (g *PacketGroup) Size() int {
	n := 0
	for _, pkt := range g.Packets {
		n += len(pkt.Data)
	}
	return n
}

// Grouper folds an interleaved packet stream into packet groups using the
// CCSDS sequence flag rules. Apids are tracked independently; completed
// groups are released in the order their first packets arrived.
type Grouper struct {
	// OnDrop is called for every packet discarded by the grouper.
	OnDrop func(pkt *layers.SpacePacket, reason string)

	open  map[uint16]*pending
	queue []*pending
}

type pending struct {
	group    *PacketGroup
	complete bool
}

func NewGrouper() *Grouper {
	return &Grouper{open: make(map[uint16]*pending)}
}

func (gr *Grouper) drop(pkt *layers.SpacePacket, reason string) {
	log.Warning("dropping packet apid=%d seq=%s count=%d: %s", pkt.Apid, pkt.SeqFlags, pkt.SeqCount, reason)
	if gr.OnDrop != nil {
		gr.OnDrop(pkt, reason)
	}
}

func (gr *Grouper) start(pkt *layers.SpacePacket, complete bool) {
	p := &pending{
		group:    &PacketGroup{Apid: pkt.Apid, IET: pkt.IET, Packets: []*layers.SpacePacket{pkt}},
		complete: complete,
	}
	gr.open[pkt.Apid] = p
	gr.queue = append(gr.queue, p)
}

func (gr *Grouper) truncate(apid uint16) {
	p := gr.open[apid]
	p.group.Truncated = true
	p.complete = true
	log.Warning("truncated group apid=%d packets=%d", apid, len(p.group.Packets))
	delete(gr.open, apid)
}

// Add feeds one packet and returns any groups completed by it, preserving
// the interleaving order of group first-packets.
func (gr *Grouper) Add(pkt *layers.SpacePacket) []*PacketGroup {
	cur, ok := gr.open[pkt.Apid]
	switch {
	case !ok && pkt.SeqFlags == layers.SeqStandalone:
		gr.start(pkt, true)
		delete(gr.open, pkt.Apid)
	case !ok && pkt.SeqFlags == layers.SeqFirst:
		gr.start(pkt, false)
	case !ok:
		gr.drop(pkt, DropOrphanContinuation)
	case pkt.SeqFlags == layers.SeqFirst:
		gr.truncate(pkt.Apid)
		gr.start(pkt, false)
	case pkt.SeqFlags == layers.SeqContinuation:
		cur.group.append(pkt)
	case pkt.SeqFlags == layers.SeqLast:
		cur.group.append(pkt)
		cur.complete = true
		delete(gr.open, pkt.Apid)
	default: // standalone over an open group
		gr.truncate(pkt.Apid)
		gr.start(pkt, true)
		delete(gr.open, pkt.Apid)
	}
	return gr.release()
}

// release drains the head of the queue up to the first incomplete group.
func (gr *Grouper) release() []*PacketGroup {
	var out []*PacketGroup
	for len(gr.queue) > 0 && gr.queue[0].complete {
		g := gr.queue[0].group
		gr.queue = gr.queue[1:]
		if g.IET == layers.NoTimecode {
			log.Warning("dropping group apid=%d packets=%d: %s", g.Apid, len(g.Packets), DropNoTimecode)
			if gr.OnDrop != nil {
				for _, pkt := range g.Packets {
					gr.OnDrop(pkt, DropNoTimecode)
				}
			}
			continue
		}
		out = append(out, g)
	}
	return out
}

// Flush ends the stream: any still-open group is emitted as truncated.
func (gr *Grouper) Flush() []*PacketGroup {
	for apid := range gr.open {
		gr.truncate(apid)
	}
	return gr.release()
}
