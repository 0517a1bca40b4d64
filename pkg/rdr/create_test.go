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
	"bytes"
	"testing"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/layers"
)

// Run a packet sequence through grouper, assembler and the RawAP codec
// and return the stored packet bytes per apid, in storage order.
func runPipeline(t *testing.T, cfg *config.Config, productID string, packets []*layers.SpacePacket) map[uint16][][]byte {
	t.Helper()
	assembler, err := NewAssembler(cfg, cfg.GetRdr(productID))
	if err != nil {
		t.Fatal(err)
	}
	grouper := NewGrouper()
	grouper.OnDrop = assembler.NoteDropped

	var granules []*Granule
	feed := func(groups []*PacketGroup) {
		for _, g := range groups {
			emitted, err := assembler.Add(g)
			if err != nil {
				t.Fatal(err)
			}
			granules = append(granules, emitted...)
		}
	}
	for _, pkt := range packets {
		feed(grouper.Add(pkt))
	}
	feed(grouper.Flush())
	granules = append(granules, assembler.Flush()...)

	byProduct := make(map[string]*config.ProductSpec)
	for _, p := range assembler.Products() {
		byProduct[p.ProductID] = p
	}

	out := make(map[uint16][][]byte)
	for _, g := range granules {
		blob, _ := BuildRawAP(g, byProduct[g.ProductID].Apids)
		parsed, err := ParseRawAP(blob)
		if err != nil {
			t.Fatal(err)
		}
		for _, raw := range parsed.Packets {
			sp := &layers.SpacePacket{}
			if err := sp.DecodeFromBytes(raw, feedback{}); err != nil {
				t.Fatal(err)
			}
			out[sp.Apid] = append(out[sp.Apid], raw)
		}
	}
	return out
}

func TestPipelineRoundTrip(t *testing.T) {
	// A well-formed sequence survives the pipeline byte for byte per apid
	cfg := config.Default("npp")
	in := []*layers.SpacePacket{
		packet(t, 561, layers.SeqStandalone, 0, baseIET),
		packet(t, 11, layers.SeqStandalone, 0, baseIET+1),
		packet(t, 561, layers.SeqStandalone, 1, baseIET+10),
		packet(t, 561, layers.SeqStandalone, 2, baseIET+onpsGranLen),
		packet(t, 11, layers.SeqStandalone, 1, baseIET+30),
	}
	out := runPipeline(t, cfg, "RONPS", in)

	wantByApid := map[uint16][]*layers.SpacePacket{
		561: {in[0], in[2], in[3]},
		11:  {in[1], in[4]},
	}
	for apid, want := range wantByApid {
		got := out[apid]
		if len(got) != len(want) {
			t.Fatalf("apid %d: expected %d packets, got %d", apid, len(want), len(got))
		}
		for i := range want {
			if !bytes.Equal(got[i], want[i].Data) {
				t.Errorf("apid %d packet %d differs after round trip", apid, i)
			}
		}
	}
}

func TestPipelineDropsOrphans(t *testing.T) {
	cfg := config.Default("npp")
	in := []*layers.SpacePacket{
		packet(t, 561, layers.SeqContinuation, 0, layers.NoTimecode),
		packet(t, 561, layers.SeqStandalone, 1, baseIET),
	}
	out := runPipeline(t, cfg, "RONPS", in)
	if len(out[561]) != 1 {
		t.Fatalf("expected orphan to be dropped, got %d packets", len(out[561]))
	}
	if !bytes.Equal(out[561][0], in[1].Data) {
		t.Error("surviving packet differs")
	}
}

func TestPipelineGranuleBoundaries(t *testing.T) {
	cfg := config.Default("npp")
	assembler, err := NewAssembler(cfg, cfg.GetRdr("RONPS"))
	if err != nil {
		t.Fatal(err)
	}
	var granules []*Granule
	for _, off := range []int64{0, 10, onpsGranLen - 1, onpsGranLen, 3 * onpsGranLen} {
		emitted, err := assembler.Add(group(t, 561, baseIET+off))
		if err != nil {
			t.Fatal(err)
		}
		granules = append(granules, emitted...)
	}
	granules = append(granules, assembler.Flush()...)

	for _, g := range granules {
		for _, grp := range g.Groups {
			if grp.IET < g.BeginIET || grp.IET >= g.EndIET {
				t.Errorf("group iet %d outside granule [%d, %d)", grp.IET, g.BeginIET, g.EndIET)
			}
		}
	}
	// Granule begin times are strictly increasing
	for i := 1; i < len(granules); i++ {
		if granules[i].BeginIET <= granules[i-1].BeginIET {
			t.Errorf("granule %d begin %d not increasing", i, granules[i].BeginIET)
		}
	}
}
