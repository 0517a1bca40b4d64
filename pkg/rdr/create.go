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
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/iet"
	"github.com/ssec-jpss/go-rdr/pkg/log"
	"github.com/ssec-jpss/go-rdr/pkg/pds"
)

// CreateResult reports what Create produced.
type CreateResult struct {
	Path     string
	Products []string
	Granules int
	Packets  int
	BeginIET int64
	EndIET   int64
}

// Create runs the packet-to-RDR pipeline: read space packets from the
// input PDS files, group them, assemble granules for the primary product
// and its packed companions, and write one RDR file into outdir.
func Create(ctx context.Context, cfg *config.Config, productID string, inputs []string, outdir string) (*CreateResult, error) {
	spec := cfg.GetRdr(productID)
	if spec == nil {
		if cfg.GetProduct(productID) == nil {
			return nil, config.ErrInvalid{Reason: fmt.Sprintf("unknown product %s", productID)}
		}
		spec = &config.RdrSpec{Product: productID}
	}

	assembler, err := NewAssembler(cfg, spec)
	if err != nil {
		return nil, err
	}
	grouper := NewGrouper()
	grouper.OnDrop = assembler.NoteDropped

	granules := make(map[string][]*Granule)
	collect := func(gs []*Granule) {
		for _, g := range gs {
			granules[g.ProductID] = append(granules[g.ProductID], g)
		}
	}

	reader := pds.NewReader(inputs...)
	defer reader.Close()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkt, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, group := range grouper.Add(pkt) {
			emitted, err := assembler.Add(group)
			if err != nil {
				return nil, err
			}
			collect(emitted)
		}
	}
	for _, group := range grouper.Flush() {
		emitted, err := assembler.Add(group)
		if err != nil {
			return nil, err
		}
		collect(emitted)
	}
	collect(assembler.Flush())

	meta := &FileMeta{
		Distributor:   cfg.Distributor,
		Mission:       cfg.Satellite.Mission,
		Platform:      cfg.Satellite.ShortName,
		DatasetSource: cfg.Distributor,
		SatID:         cfg.Satellite.ID,
		Origin:        cfg.Origin,
		Mode:          cfg.Mode,
		Created:       iet.Now(),
	}

	result := &CreateResult{}
	ids := make([]string, 0, len(assembler.Products())+1)
	products := make([]OutProduct, 0, len(assembler.Products()))
	for _, p := range assembler.Products() {
		ids = append(ids, p.ProductID)
		out := OutProduct{ShortName: p.ShortName, Sensor: p.Sensor, TypeID: p.TypeID}
		for _, g := range granules[p.ProductID] {
			blob, trackers := BuildRawAP(g, p.Apids)
			og := OutGranule{
				BeginIET:       g.BeginIET,
				EndIET:         g.EndIET,
				Blob:           blob,
				PercentMissing: g.PercentMissing,
			}
			for i, t := range trackers {
				og.PacketTypes = append(og.PacketTypes, p.Apids[i].Name)
				og.PacketTypeCounts = append(og.PacketTypeCounts, uint64(t.PktsReceived))
			}
			out.Granules = append(out.Granules, og)
			if result.Granules == 0 || g.BeginIET < result.BeginIET {
				result.BeginIET = g.BeginIET
			}
			if g.EndIET > result.EndIET {
				result.EndIET = g.EndIET
			}
			result.Granules++
			result.Packets += g.PacketCount()
		}
		log.Info("assembled %s: %d granules", p.ProductID, len(out.Granules))
		products = append(products, out)
	}

	result.Products = ids
	result.Path = filepath.Join(outdir, Filename(meta, products, ids))
	if err := WriteFile(ctx, result.Path, meta, products); err != nil {
		return nil, err
	}
	return result, nil
}
