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
	"path/filepath"
	"strings"

	"github.com/ssec-jpss/go-rdr/pkg/layers"
	"github.com/ssec-jpss/go-rdr/pkg/log"
	"github.com/ssec-jpss/go-rdr/pkg/pds"
)

// Dump writes the packets of one product (or of every product when short
// is empty) back to PDS files in outdir. With perApid, packets are
// separated into one file per apid. Returns the written paths.
func Dump(ctx context.Context, input, short string, perApid bool, outdir string) ([]string, error) {
	r, err := OpenReader(input)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	platform, err := r.file.StrAttr("/", "Platform_Short_Name")
	if err != nil {
		return nil, err
	}
	satid := strings.ToLower(platform)

	shorts := []string{short}
	if short == "" {
		if shorts, err = r.Products(); err != nil {
			return nil, err
		}
	}

	var written []string
	for _, s := range shorts {
		paths, err := dumpProduct(ctx, r, satid, s, perApid, outdir)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

func dumpProduct(ctx context.Context, r *Reader, satid, short string, perApid bool, outdir string) ([]string, error) {
	ks, err := r.GranuleIndexes(short)
	if err != nil {
		return nil, err
	}
	if len(ks) == 0 {
		log.Info("no granules for %s", short)
		return nil, nil
	}

	begin, end := int64(0), int64(0)
	var all []*layers.SpacePacket
	for i, k := range ks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := r.Granule(short, k)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			begin = info.BeginIET
		}
		end = info.EndIET

		blob, err := r.RawAPBytes(short, k)
		if err != nil {
			return nil, err
		}
		rawap, err := ParseRawAP(blob)
		if err != nil {
			return nil, fmt.Errorf("%s granule %d: %w", short, k, err)
		}
		for _, raw := range rawap.Packets {
			sp := &layers.SpacePacket{}
			if err := sp.DecodeFromBytes(raw, noFeedback{}); err != nil {
				return nil, fmt.Errorf("%s granule %d: %w", short, k, err)
			}
			all = append(all, sp)
		}
	}
	log.Info("dumping %d packets for %s", len(all), short)

	if !perApid {
		path := filepath.Join(outdir, pds.Filename(satid, short, begin, end))
		if err := writePackets(path, all); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	byApid := make(map[uint16][]*layers.SpacePacket)
	var order []uint16
	for _, sp := range all {
		if _, ok := byApid[sp.Apid]; !ok {
			order = append(order, sp.Apid)
		}
		byApid[sp.Apid] = append(byApid[sp.Apid], sp)
	}
	var written []string
	for _, apid := range order {
		path := filepath.Join(outdir, pds.Filename(satid, fmt.Sprintf("%04d", apid), begin, end))
		if err := writePackets(path, byApid[apid]); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writePackets(path string, packets []*layers.SpacePacket) error {
	w, err := pds.NewWriter(path)
	if err != nil {
		return err
	}
	for _, sp := range packets {
		if err := w.Write(sp); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

type noFeedback struct{}

func (noFeedback) SetTruncated() {}
