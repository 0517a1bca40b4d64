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
	"errors"
	"testing"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/layers"
)

const onpsGranLen = int64(37405000)

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	cfg := config.Default("npp")
	a, err := NewAssembler(cfg, cfg.GetRdr("RONPS"))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func group(t *testing.T, apid uint16, iet int64) *PacketGroup {
	t.Helper()
	return &PacketGroup{
		Apid:    apid,
		IET:     iet,
		Packets: []*layers.SpacePacket{packet(t, apid, layers.SeqStandalone, 0, iet)},
	}
}

func TestAssemblerSingleGranule(t *testing.T) {
	a := testAssembler(t)

	emitted, err := a.Add(group(t, 561, baseIET))
	if err != nil {
		t.Fatal(err)
	}
	if len(emitted) != 0 {
		t.Fatalf("granule emitted before its window passed")
	}
	granules := a.Flush()
	if len(granules) != 1 {
		t.Fatalf("expected 1 granule, got %d", len(granules))
	}
	g := granules[0]
	if g.ProductID != "RONPS" || g.Index != 0 {
		t.Errorf("expected RONPS granule 0, got %s %d", g.ProductID, g.Index)
	}
	if g.BeginIET != baseIET || g.EndIET != baseIET+onpsGranLen {
		t.Errorf("bad window [%d, %d)", g.BeginIET, g.EndIET)
	}
}

func TestAssemblerGranuleRollover(t *testing.T) {
	a := testAssembler(t)

	a.Add(group(t, 561, baseIET+10))
	a.Add(group(t, 561, baseIET+20))
	emitted, err := a.Add(group(t, 561, baseIET+onpsGranLen))
	if err != nil {
		t.Fatal(err)
	}
	if len(emitted) != 1 {
		t.Fatalf("expected rollover to emit 1 granule, got %d", len(emitted))
	}
	g := emitted[0]
	if g.Index != 0 || len(g.Groups) != 2 {
		t.Errorf("expected granule 0 with 2 groups, got %d with %d", g.Index, len(g.Groups))
	}

	granules := a.Flush()
	if len(granules) != 1 || granules[0].Index != 1 {
		t.Fatalf("expected flushed granule 1, got %+v", granules)
	}
}

func TestAssemblerBoundaryPacket(t *testing.T) {
	// A packet exactly at base+gran_len opens granule 1; granule 0 is
	// never created.
	a := testAssembler(t)
	if _, err := a.Add(group(t, 561, baseIET+onpsGranLen)); err != nil {
		t.Fatal(err)
	}
	granules := a.Flush()
	if len(granules) != 1 || granules[0].Index != 1 {
		t.Fatalf("expected only granule 1, got %+v", granules)
	}
}

func TestAssemblerLateGroupDropped(t *testing.T) {
	a := testAssembler(t)
	a.Add(group(t, 561, baseIET+2*onpsGranLen))
	emitted, err := a.Add(group(t, 561, baseIET))
	if err != nil {
		t.Fatal(err)
	}
	if len(emitted) != 0 {
		t.Errorf("late group emitted a granule")
	}
	granules := a.Flush()
	if len(granules) != 1 || len(granules[0].Groups) != 1 {
		t.Fatalf("late group was retained: %+v", granules)
	}
	if granules[0].PercentMissing <= 0 {
		t.Errorf("expected missing percent > 0, got %f", granules[0].PercentMissing)
	}
}

func TestAssemblerTimeBeforeEpoch(t *testing.T) {
	a := testAssembler(t)
	_, err := a.Add(group(t, 561, baseIET-1))
	if !errors.Is(err, ErrTimeBeforeEpoch) {
		t.Errorf("expected ErrTimeBeforeEpoch, got %v", err)
	}
}

func TestAssemblerUnknownApidDropped(t *testing.T) {
	a := testAssembler(t)
	emitted, err := a.Add(group(t, 1999, baseIET))
	if err != nil || len(emitted) != 0 {
		t.Errorf("unknown apid: emitted=%v err=%v", emitted, err)
	}
	if granules := a.Flush(); len(granules) != 0 {
		t.Errorf("unknown apid produced granules: %+v", granules)
	}
}

func TestAssemblerCompanionProduct(t *testing.T) {
	// RONPS is packed with RNSCA; diary groups go to their own product
	// granules with the diary granule length.
	a := testAssembler(t)
	if _, err := a.Add(group(t, 11, baseIET+5)); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Add(group(t, 561, baseIET+5)); err != nil {
		t.Fatal(err)
	}
	granules := a.Flush()
	if len(granules) != 2 {
		t.Fatalf("expected 2 granules, got %d", len(granules))
	}
	byProduct := map[string]*Granule{}
	for _, g := range granules {
		byProduct[g.ProductID] = g
	}
	if byProduct["RNSCA"] == nil || byProduct["RONPS"] == nil {
		t.Fatalf("missing product granules: %+v", byProduct)
	}
	if byProduct["RNSCA"].EndIET-byProduct["RNSCA"].BeginIET != 20000000 {
		t.Errorf("diary granule length mismatch: %+v", byProduct["RNSCA"])
	}
}

func TestAssemblerPercentMissing(t *testing.T) {
	a := testAssembler(t)
	// One dropped orphan and one stored packet: 50 percent missing
	a.NoteDropped(packet(t, 561, layers.SeqContinuation, 0, layers.NoTimecode), DropOrphanContinuation)
	a.Add(group(t, 561, baseIET))
	granules := a.Flush()
	if len(granules) != 1 {
		t.Fatal("expected 1 granule")
	}
	if granules[0].PercentMissing != 50 {
		t.Errorf("expected 50 percent missing, got %f", granules[0].PercentMissing)
	}
}
