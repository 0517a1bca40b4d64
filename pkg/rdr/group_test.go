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
	"testing"

	"github.com/ssec-jpss/go-rdr/pkg/layers"
)

type feedback struct{}

func (feedback) SetTruncated() {}

func packet(t *testing.T, apid uint16, flags layers.SeqFlags, count uint16, iet int64) *layers.SpacePacket {
	t.Helper()
	raw := layers.BuildPacket(apid, flags, count, iet, []byte{0xab})
	sp := &layers.SpacePacket{}
	if err := sp.DecodeFromBytes(raw, feedback{}); err != nil {
		t.Fatal(err)
	}
	return sp
}

const baseIET = int64(1698019234000000)

func TestGrouperStandalone(t *testing.T) {
	gr := NewGrouper()
	groups := gr.Add(packet(t, 561, layers.SeqStandalone, 0, baseIET))
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Apid != 561 || g.IET != baseIET || len(g.Packets) != 1 || g.Truncated {
		t.Errorf("unexpected group: %+v", g)
	}
}

func TestGrouperFirstContLast(t *testing.T) {
	gr := NewGrouper()
	var groups []*PacketGroup
	groups = append(groups, gr.Add(packet(t, 826, layers.SeqFirst, 0, baseIET))...)
	groups = append(groups, gr.Add(packet(t, 826, layers.SeqContinuation, 1, layers.NoTimecode))...)
	groups = append(groups, gr.Add(packet(t, 826, layers.SeqContinuation, 2, layers.NoTimecode))...)
	if len(groups) != 0 {
		t.Fatalf("group released before last packet")
	}
	groups = gr.Add(packet(t, 826, layers.SeqLast, 3, layers.NoTimecode))
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Packets) != 4 || g.IET != baseIET || g.Truncated {
		t.Errorf("unexpected group: packets=%d iet=%d truncated=%t", len(g.Packets), g.IET, g.Truncated)
	}
}

func TestGrouperOrphanContinuation(t *testing.T) {
	gr := NewGrouper()
	var dropped []string
	gr.OnDrop = func(pkt *layers.SpacePacket, reason string) { dropped = append(dropped, reason) }

	if groups := gr.Add(packet(t, 826, layers.SeqContinuation, 5, layers.NoTimecode)); len(groups) != 0 {
		t.Errorf("orphan continuation produced a group")
	}
	if groups := gr.Add(packet(t, 826, layers.SeqLast, 6, layers.NoTimecode)); len(groups) != 0 {
		t.Errorf("orphan last produced a group")
	}
	if len(dropped) != 2 || dropped[0] != DropOrphanContinuation {
		t.Errorf("expected 2 orphan drops, got %v", dropped)
	}
}

func TestGrouperTruncation(t *testing.T) {
	gr := NewGrouper()
	gr.Add(packet(t, 826, layers.SeqFirst, 0, baseIET))
	// A new first over an open group truncates the open one
	groups := gr.Add(packet(t, 826, layers.SeqFirst, 1, baseIET+10))
	if len(groups) != 1 || !groups[0].Truncated {
		t.Fatalf("expected truncated group, got %+v", groups)
	}
	// End of stream truncates what is still open
	groups = gr.Flush()
	if len(groups) != 1 || !groups[0].Truncated || groups[0].IET != baseIET+10 {
		t.Fatalf("expected flushed truncated group, got %+v", groups)
	}
}

func TestGrouperStandaloneOverOpen(t *testing.T) {
	gr := NewGrouper()
	gr.Add(packet(t, 826, layers.SeqFirst, 0, baseIET))
	groups := gr.Add(packet(t, 826, layers.SeqStandalone, 1, baseIET+20))
	if len(groups) != 2 {
		t.Fatalf("expected truncated + standalone, got %d groups", len(groups))
	}
	if !groups[0].Truncated || groups[1].Truncated {
		t.Errorf("expected [truncated, complete], got [%t, %t]", groups[0].Truncated, groups[1].Truncated)
	}
}

func TestGrouperInterleavedOrder(t *testing.T) {
	// Group A (apid 800) opens first but completes after group B
	// (apid 801); release order follows first packets.
	gr := NewGrouper()
	var groups []*PacketGroup
	groups = append(groups, gr.Add(packet(t, 800, layers.SeqFirst, 0, baseIET))...)
	groups = append(groups, gr.Add(packet(t, 801, layers.SeqStandalone, 0, baseIET+5))...)
	if len(groups) != 0 {
		t.Fatalf("apid 801 released ahead of the open apid 800 group")
	}
	groups = gr.Add(packet(t, 800, layers.SeqLast, 1, layers.NoTimecode))
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Apid != 800 || groups[1].Apid != 801 {
		t.Errorf("expected order [800 801], got [%d %d]", groups[0].Apid, groups[1].Apid)
	}
}

func TestGrouperDropsGroupWithoutTimecode(t *testing.T) {
	gr := NewGrouper()
	var dropped int
	gr.OnDrop = func(pkt *layers.SpacePacket, reason string) {
		if reason == DropNoTimecode {
			dropped++
		}
	}
	groups := gr.Add(packet(t, 826, layers.SeqStandalone, 0, layers.NoTimecode))
	if len(groups) != 0 {
		t.Errorf("group without timecode was forwarded")
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped packet, got %d", dropped)
	}
}
