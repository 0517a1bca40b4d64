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
	"fmt"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/iet"
	"github.com/ssec-jpss/go-rdr/pkg/layers"
	"github.com/ssec-jpss/go-rdr/pkg/log"
)

// Granule is one fixed-duration slice of telemetry for one product.
// Groups retain arrival order; a granule is never emitted empty.
type Granule struct {
	ProductID string
	Index     int64
	BeginIET  int64
	EndIET    int64
	Groups    []*PacketGroup

	// PercentMissing is the percentage (0..100) of the product's packets
	// that were dropped, out of all packets dropped or stored for it, as
	// observed when this granule was sealed.
	PercentMissing float32
}

// PacketCount returns the number of packets stored in the granule.
func (g *Granule) PacketCount() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Packets)
	}
	return n
}

type productState struct {
	spec *config.ProductSpec
	cur  *Granule
}

// Assembler routes packet groups for one primary product and its packed
// companions into granules. It holds at most one open granule per product
// and emits granules as their windows are passed.
type Assembler struct {
	base     int64
	byApid   map[uint16]*productState
	products []*productState

	received map[string]uint64
	dropped  map[string]uint64
}

// NewAssembler builds an assembler for the bundle declared by spec: the
// primary product and every product packed with it.
func NewAssembler(cfg *config.Config, spec *config.RdrSpec) (*Assembler, error) {
	a := &Assembler{
		base:     cfg.Satellite.BaseTime,
		byApid:   make(map[uint16]*productState),
		received: make(map[string]uint64),
		dropped:  make(map[string]uint64),
	}
	ids := append([]string{spec.Product}, spec.PackedWith...)
	for _, id := range ids {
		product := cfg.GetProduct(id)
		if product == nil {
			return nil, config.ErrInvalid{Reason: fmt.Sprintf("unknown product %s", id)}
		}
		state := &productState{spec: product}
		a.products = append(a.products, state)
		for _, apid := range product.Apids {
			a.byApid[apid.Num] = state
		}
	}
	return a, nil
}

// NoteDropped attributes a packet dropped upstream to the product owning
// its apid, so the loss is reflected in N_Percent_Missing_Data.
func (a *Assembler) NoteDropped(pkt *layers.SpacePacket, reason string) {
	if state, ok := a.byApid[pkt.Apid]; ok {
		a.dropped[state.spec.ProductID]++
	}
}

func (a *Assembler) percentMissing(id string) float32 {
	dropped := a.dropped[id]
	total := dropped + a.received[id]
	if total == 0 {
		return 0
	}
	return float32(dropped) / float32(total) * 100
}

func (a *Assembler) seal(state *productState) *Granule {
	g := state.cur
	state.cur = nil
	if g == nil || len(g.Groups) == 0 {
		return nil
	}
	g.PercentMissing = a.percentMissing(g.ProductID)
	log.Debug("sealing granule product=%s index=%d packets=%d", g.ProductID, g.Index, g.PacketCount())
	return g
}

// Add routes one packet group and returns any granules completed by it.
// Groups for unconfigured apids are dropped with a warning. A group
// timestamped before the mission base time fails the operation.
func (a *Assembler) Add(group *PacketGroup) ([]*Granule, error) {
	state, ok := a.byApid[group.Apid]
	if !ok {
		log.Warning("dropping group apid=%d packets=%d: %s", group.Apid, len(group.Packets), DropUnknownApid)
		return nil, nil
	}
	id := state.spec.ProductID

	idx, begin, end, err := iet.Granule(group.IET, a.base, state.spec.GranLen)
	if err != nil {
		return nil, fmt.Errorf("product %s apid %d: %w", id, group.Apid, err)
	}

	var out []*Granule
	if state.cur != nil && idx > state.cur.Index {
		if g := a.seal(state); g != nil {
			out = append(out, g)
		}
	}
	if state.cur == nil {
		state.cur = &Granule{ProductID: id, Index: idx, BeginIET: begin, EndIET: end}
	} else if idx < state.cur.Index {
		// Out of order: never rewind an already-open granule.
		log.Warning("dropping group apid=%d iet=%d: %s", group.Apid, group.IET, DropLateGroup)
		a.dropped[id] += uint64(len(group.Packets))
		return out, nil
	}

	state.cur.Groups = append(state.cur.Groups, group)
	a.received[id] += uint64(len(group.Packets))
	return out, nil
}

// Flush ends the stream, emitting every non-empty open granule.
func (a *Assembler) Flush() []*Granule {
	var out []*Granule
	for _, state := range a.products {
		if g := a.seal(state); g != nil {
			out = append(out, g)
		}
	}
	return out
}

// Products returns the product specs of the bundle, primary first.
func (a *Assembler) Products() []*config.ProductSpec {
	specs := make([]*config.ProductSpec, len(a.products))
	for i, state := range a.products {
		specs[i] = state.spec
	}
	return specs
}
