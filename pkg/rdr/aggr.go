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
	"sort"
	"strings"

	"github.com/ssec-jpss/go-rdr/pkg/iet"
	"github.com/ssec-jpss/go-rdr/pkg/log"
)

type aggrGranule struct {
	info GranuleInfo
	blob []byte
}

type aggrInput struct {
	path string
	info *FileInfo
	// granules per product short name, with blobs, in file order
	granules map[string][]aggrGranule
}

func readAggrInput(r *Reader, path string) (*aggrInput, error) {
	info, err := r.Info()
	if err != nil {
		return nil, err
	}
	in := &aggrInput{path: path, info: info, granules: make(map[string][]aggrGranule)}
	for _, product := range info.Products {
		prev := int64(-1)
		for _, g := range product.Granules {
			if g.BeginIET <= prev {
				return nil, fmt.Errorf("%s %s granule %d begin %d not increasing: %w",
					path, product.ShortName, g.Index, g.BeginIET, ErrInconsistent)
			}
			prev = g.BeginIET
			blob, err := r.RawAPBytes(product.ShortName, g.Index)
			if err != nil {
				return nil, err
			}
			in.granules[product.ShortName] = append(in.granules[product.ShortName], aggrGranule{info: g, blob: blob})
		}
	}
	return in, nil
}

func productSet(info *FileInfo) string {
	shorts := make([]string, len(info.Products))
	for i, p := range info.Products {
		shorts[i] = p.ShortName
	}
	sort.Strings(shorts)
	return strings.Join(shorts, ",")
}

// AggrResult reports what Aggregate produced.
type AggrResult struct {
	Mission  string
	Products []string
	Granules int
	BeginIET int64
	EndIET   int64
}

// Aggregate merges the granules of several RDR files of the same mission
// and product set into output. Granules sharing a granule index are
// deduplicated with the later file winning; output indexes are
// renumbered 0..M-1 per product.
func Aggregate(ctx context.Context, output string, inputs []string) (*AggrResult, error) {
	var first *aggrInput
	merged := make(map[string]map[int64]aggrGranule)

	for _, path := range inputs {
		r, err := OpenReader(path)
		if err != nil {
			return nil, err
		}
		in, err := readAggrInput(r, path)
		r.Close()
		if err != nil {
			return nil, err
		}

		if first == nil {
			first = in
		} else {
			if in.info.Mission != first.info.Mission || in.info.Platform != first.info.Platform {
				return nil, fmt.Errorf("%s mission %q does not match %s: %w",
					path, in.info.Mission, first.path, ErrInconsistent)
			}
			if productSet(in.info) != productSet(first.info) {
				return nil, fmt.Errorf("%s products [%s] do not match %s [%s]: %w",
					path, productSet(in.info), first.path, productSet(first.info), ErrInconsistent)
			}
		}

		for short, granules := range in.granules {
			if merged[short] == nil {
				merged[short] = make(map[int64]aggrGranule)
			}
			for _, g := range granules {
				if _, ok := merged[short][g.info.BeginIET]; ok {
					log.Info("granule %s/%s replaced by %s", short, g.info.ID, path)
				}
				merged[short][g.info.BeginIET] = g
			}
		}
	}
	if first == nil {
		return nil, fmt.Errorf("no input files: %w", ErrInconsistent)
	}

	meta := &FileMeta{
		Distributor:   first.info.Distributor,
		Mission:       first.info.Mission,
		Platform:      first.info.Platform,
		DatasetSource: first.info.DatasetSource,
		SatID:         first.info.Platform,
		Origin:        first.info.DatasetSource,
		Created:       iet.Now(),
	}

	result := &AggrResult{Mission: first.info.Mission}
	products := make([]OutProduct, 0, len(first.info.Products))
	for _, p := range first.info.Products {
		result.Products = append(result.Products, p.ShortName)
		out := OutProduct{ShortName: p.ShortName, Sensor: p.Sensor, TypeID: p.TypeID}
		begins := make([]int64, 0, len(merged[p.ShortName]))
		for begin := range merged[p.ShortName] {
			begins = append(begins, begin)
		}
		sort.Slice(begins, func(i, j int) bool { return begins[i] < begins[j] })
		for _, begin := range begins {
			g := merged[p.ShortName][begin]
			out.Granules = append(out.Granules, OutGranule{
				BeginIET:         g.info.BeginIET,
				EndIET:           g.info.EndIET,
				Blob:             g.blob,
				PercentMissing:   g.info.PercentMissing,
				PacketTypes:      g.info.PacketTypes,
				PacketTypeCounts: g.info.PacketTypeCounts,
			})
		}
		log.Info("aggregated %s: %d granules", p.ShortName, len(out.Granules))
		if n := len(out.Granules); n > 0 {
			if result.Granules == 0 || out.Granules[0].BeginIET < result.BeginIET {
				result.BeginIET = out.Granules[0].BeginIET
			}
			if out.Granules[n-1].EndIET > result.EndIET {
				result.EndIET = out.Granules[n-1].EndIET
			}
			result.Granules += n
		}
		products = append(products, out)
	}

	if err := WriteFile(ctx, output, meta, products); err != nil {
		return nil, err
	}
	return result, nil
}
