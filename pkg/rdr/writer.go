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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ssec-jpss/go-rdr/pkg/h5"
	"github.com/ssec-jpss/go-rdr/pkg/iet"
	"github.com/ssec-jpss/go-rdr/pkg/log"
)

// OutGranule is one granule ready to be written: its compiled blob plus
// the attribute source data.
type OutGranule struct {
	BeginIET         int64
	EndIET           int64
	Blob             []byte
	PercentMissing   float32
	PacketTypes      []string
	PacketTypeCounts []uint64
}

// OutProduct is one product section of an output file. Granules must be
// in chronological order.
type OutProduct struct {
	ShortName string
	Sensor    string
	TypeID    string
	Granules  []OutGranule
}

// FileMeta carries the file-level attribute values.
type FileMeta struct {
	Distributor   string
	Mission       string
	Platform      string
	DatasetSource string
	SatID         string
	Origin        string
	Mode          string
	Created       int64
}

// GranuleID builds the granule identifier: the uppercased satellite id
// followed by the granule begin time in tenths of microseconds, hex
// encoded and left padded to 13 digits (16 characters for "npp").
func GranuleID(satid string, begin int64) string {
	return fmt.Sprintf("%s%013X", strings.ToUpper(satid), begin*10)
}

// ReferenceID builds the N_Reference_ID value.
func ReferenceID(short, granuleID string, created int64) string {
	return fmt.Sprintf("%s_%s_%s", short, granuleID, iet.FormatTime(created))
}

// Filename builds the IDPS style output name for the bundle.
func Filename(meta *FileMeta, products []OutProduct, ids []string) string {
	begin, end := meta.Created, meta.Created
	first := true
	for _, p := range products {
		for _, g := range p.Granules {
			if first || g.BeginIET < begin {
				begin = g.BeginIET
			}
			if first || g.EndIET > end {
				end = g.EndIET
			}
			first = false
		}
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	created := iet.ToUTC(meta.Created).Format("20060102150405.000000")
	created = strings.Replace(created, ".", "", 1)
	org := meta.Origin
	if len(org) > 3 {
		org = org[:3]
	}
	return fmt.Sprintf("%s_%s_d%s_t%s_e%s_c%s_%su_%s.h5",
		strings.Join(sorted, "-"),
		meta.SatID,
		iet.FormatDate(begin),
		strings.Replace(iet.FormatTime(begin)[:8], ".", "", 1),
		strings.Replace(iet.FormatTime(end)[:8], ".", "", 1),
		created,
		org,
		meta.Mode,
	)
}

func alldataPath(short string, k int) string {
	return fmt.Sprintf("/All_Data/%s_All/RawApplicationPackets_%d", short, k)
}

func granPath(short string, k int) string {
	return fmt.Sprintf("/Data_Products/%s/%s_Gran_%d", short, short, k)
}

func aggrPath(short string) string {
	return fmt.Sprintf("/Data_Products/%s/%s_Aggr", short, short)
}

// WriteFile writes one RDR file. The file is created under a temporary
// name and atomically renamed into place on success; on any failure,
// including cancellation, no partial file remains at path.
func WriteFile(ctx context.Context, path string, meta *FileMeta, products []OutProduct) (err error) {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp")

	file, err := h5.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		file.Close()
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err = writeRootAttrs(file, meta); err != nil {
		return err
	}
	for i := range products {
		if err = writeProduct(ctx, file, meta, &products[i]); err != nil {
			return err
		}
	}

	if err = file.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		return err
	}
	log.Info("wrote %s", path)
	return nil
}

func writeRootAttrs(file *h5.File, meta *FileMeta) error {
	attrs := []struct{ name, value string }{
		{"Distributor", meta.Distributor},
		{"Mission_Name", meta.Mission},
		{"Platform_Short_Name", meta.Platform},
		{"N_Dataset_Source", meta.DatasetSource},
		{"N_HDF_Creation_Date", iet.FormatDate(meta.Created)},
		{"N_HDF_Creation_Time", iet.FormatTime(meta.Created)},
	}
	for _, a := range attrs {
		if err := file.SetStrAttr("/", a.name, a.value); err != nil {
			return err
		}
	}
	return nil
}

func writeProduct(ctx context.Context, file *h5.File, meta *FileMeta, product *OutProduct) error {
	short := product.ShortName
	if err := file.CreateGroup(fmt.Sprintf("/All_Data/%s_All", short)); err != nil {
		return err
	}
	groupPath := "/Data_Products/" + short
	if err := file.CreateGroup(groupPath); err != nil {
		return err
	}
	groupAttrs := []struct{ name, value string }{
		{"Instrument_Short_Name", product.Sensor},
		{"N_Collection_Short_Name", short},
		{"N_Dataset_Type_Tag", product.TypeID},
		{"N_Processing_Domain", meta.Mode},
	}
	for _, a := range groupAttrs {
		if err := file.SetStrAttr(groupPath, a.name, a.value); err != nil {
			return err
		}
	}

	targets := make([]string, 0, len(product.Granules))
	for k := range product.Granules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeGranule(file, meta, product, k); err != nil {
			return err
		}
		targets = append(targets, alldataPath(short, k))
	}

	// Aggr references require every target dataset to exist already.
	return writeAggr(file, meta, product, targets)
}

func writeGranule(file *h5.File, meta *FileMeta, product *OutProduct, k int) error {
	g := &product.Granules[k]
	short := product.ShortName
	rawPath := alldataPath(short, k)
	if err := file.WriteBytes(rawPath, g.Blob); err != nil {
		return err
	}

	path := granPath(short, k)
	if err := file.WriteScalarRef(path, rawPath); err != nil {
		return err
	}

	granuleID := GranuleID(meta.SatID, g.BeginIET)
	strAttrs := []struct{ name, value string }{
		{"Beginning_Date", iet.FormatDate(g.BeginIET)},
		{"Beginning_Time", iet.FormatTime(g.BeginIET)},
		{"Ending_Date", iet.FormatDate(g.EndIET)},
		{"Ending_Time", iet.FormatTime(g.EndIET)},
		{"N_Creation_Date", iet.FormatDate(meta.Created)},
		{"N_Creation_Time", iet.FormatTime(meta.Created)},
		{"N_Granule_ID", granuleID},
		{"N_Granule_Version", "A1"},
		{"N_Granule_Status", "N/A"},
		{"N_LEOA_Flag", "Off"},
		{"N_Reference_ID", ReferenceID(short, granuleID, meta.Created)},
	}
	for _, a := range strAttrs {
		if err := file.SetStrAttr(path, a.name, a.value); err != nil {
			return err
		}
	}
	if err := file.SetIntAttr(path, "N_Beginning_Time_IET", g.BeginIET); err != nil {
		return err
	}
	if err := file.SetIntAttr(path, "N_Ending_Time_IET", g.EndIET); err != nil {
		return err
	}
	if err := file.SetStrListAttr(path, "N_Packet_Type", g.PacketTypes); err != nil {
		return err
	}
	if err := file.SetUintListAttr(path, "N_Packet_Type_Count", g.PacketTypeCounts); err != nil {
		return err
	}
	return file.SetFloatAttr(path, "N_Percent_Missing_Data", g.PercentMissing)
}

func writeAggr(file *h5.File, meta *FileMeta, product *OutProduct, targets []string) error {
	short := product.ShortName
	path := aggrPath(short)
	if err := file.WriteRefs(path, targets); err != nil {
		return err
	}

	if err := file.SetUintAttr(path, "AggregateBeginningOrbitNumber", 0); err != nil {
		return err
	}
	if err := file.SetUintAttr(path, "AggregateEndingOrbitNumber", 0); err != nil {
		return err
	}
	if err := file.SetUintAttr(path, "AggregateNumberGranules", uint64(len(product.Granules))); err != nil {
		return err
	}
	if len(product.Granules) == 0 {
		return nil
	}

	first := &product.Granules[0]
	last := &product.Granules[len(product.Granules)-1]
	attrs := []struct{ name, value string }{
		{"AggregateBeginningDate", iet.FormatDate(first.BeginIET)},
		{"AggregateBeginningTime", iet.FormatTime(first.BeginIET)},
		{"AggregateBeginningGranuleID", GranuleID(meta.SatID, first.BeginIET)},
		{"AggregateEndingDate", iet.FormatDate(last.EndIET)},
		{"AggregateEndingTime", iet.FormatTime(last.EndIET)},
		{"AggregateEndingGranuleID", GranuleID(meta.SatID, last.BeginIET)},
	}
	for _, a := range attrs {
		if err := file.SetStrAttr(path, a.name, a.value); err != nil {
			return err
		}
	}
	return nil
}
