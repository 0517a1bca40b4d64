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
	"sort"
	"strconv"
	"strings"

	"github.com/ssec-jpss/go-rdr/pkg/h5"
)

// GranuleInfo is the attribute set of one stored granule.
type GranuleInfo struct {
	Index            int      `json:"index"`
	ID               string   `json:"id"`
	BeginDate        string   `json:"begin_date"`
	BeginTime        string   `json:"begin_time"`
	BeginIET         int64    `json:"begin_time_iet"`
	EndDate          string   `json:"end_date"`
	EndTime          string   `json:"end_time"`
	EndIET           int64    `json:"end_time_iet"`
	CreationDate     string   `json:"creation_date"`
	CreationTime     string   `json:"creation_time"`
	Version          string   `json:"version"`
	Status           string   `json:"status"`
	LeoaFlag         string   `json:"leoa_flag"`
	ReferenceID      string   `json:"reference_id"`
	PacketTypes      []string `json:"packet_type"`
	PacketTypeCounts []uint64 `json:"packet_type_count"`
	PercentMissing   float32  `json:"percent_missing"`
}

// ProductInfo is the attribute set of one product group.
type ProductInfo struct {
	ShortName string        `json:"collection"`
	Sensor    string        `json:"instrument"`
	TypeID    string        `json:"type"`
	Mode      string        `json:"processing_domain"`
	Granules  []GranuleInfo `json:"granules"`
}

// FileInfo is the attribute tree of an RDR file.
type FileInfo struct {
	Distributor   string        `json:"distributor"`
	Mission       string        `json:"mission"`
	Platform      string        `json:"platform"`
	DatasetSource string        `json:"dataset_source"`
	CreationDate  string        `json:"creation_date"`
	CreationTime  string        `json:"creation_time"`
	Products      []ProductInfo `json:"products"`
}

// Reader walks an existing RDR file.
type Reader struct {
	file *h5.File
	path string
}

func OpenReader(path string) (*Reader, error) {
	file, err := h5.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: file, path: path}, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// granIndex extracts k from a <short>_Gran_<k> dataset name, or -1.
func granIndex(name, short string) int {
	prefix := short + "_Gran_"
	if !strings.HasPrefix(name, prefix) {
		return -1
	}
	k, err := strconv.Atoi(name[len(prefix):])
	if err != nil {
		return -1
	}
	return k
}

// Products returns the collection short names stored in the file.
func (r *Reader) Products() ([]string, error) {
	return r.file.Children("/Data_Products")
}

// GranuleIndexes returns the granule dataset indexes for a product in
// ascending numeric order.
func (r *Reader) GranuleIndexes(short string) ([]int, error) {
	names, err := r.file.Children("/Data_Products/" + short)
	if err != nil {
		return nil, err
	}
	var ks []int
	for _, name := range names {
		if k := granIndex(name, short); k >= 0 {
			ks = append(ks, k)
		}
	}
	sort.Ints(ks)
	return ks, nil
}

// RawAPBytes reads the raw blob of granule k of a product.
func (r *Reader) RawAPBytes(short string, k int) ([]byte, error) {
	return r.file.ReadBytes(alldataPath(short, k))
}

// Granule reads the attribute set of granule k of a product.
func (r *Reader) Granule(short string, k int) (*GranuleInfo, error) {
	path := granPath(short, k)
	info := &GranuleInfo{Index: k}

	strs := []struct {
		name string
		dst  *string
	}{
		{"N_Granule_ID", &info.ID},
		{"Beginning_Date", &info.BeginDate},
		{"Beginning_Time", &info.BeginTime},
		{"Ending_Date", &info.EndDate},
		{"Ending_Time", &info.EndTime},
		{"N_Creation_Date", &info.CreationDate},
		{"N_Creation_Time", &info.CreationTime},
		{"N_Granule_Version", &info.Version},
		{"N_Granule_Status", &info.Status},
		{"N_LEOA_Flag", &info.LeoaFlag},
		{"N_Reference_ID", &info.ReferenceID},
	}
	for _, s := range strs {
		v, err := r.file.StrAttr(path, s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = v
	}

	var err error
	if info.BeginIET, err = r.file.IntAttr(path, "N_Beginning_Time_IET"); err != nil {
		return nil, err
	}
	if info.EndIET, err = r.file.IntAttr(path, "N_Ending_Time_IET"); err != nil {
		return nil, err
	}
	if info.PacketTypes, err = r.file.StrListAttr(path, "N_Packet_Type"); err != nil {
		return nil, err
	}
	if info.PacketTypeCounts, err = r.file.UintListAttr(path, "N_Packet_Type_Count"); err != nil {
		return nil, err
	}
	if info.PercentMissing, err = r.file.FloatAttr(path, "N_Percent_Missing_Data"); err != nil {
		return nil, err
	}
	return info, nil
}

// Product reads the attribute set of one product group and all of its
// granules, ordered by granule index.
func (r *Reader) Product(short string) (*ProductInfo, error) {
	path := "/Data_Products/" + short
	info := &ProductInfo{ShortName: short}

	var err error
	if info.Sensor, err = r.file.StrAttr(path, "Instrument_Short_Name"); err != nil {
		return nil, err
	}
	if info.TypeID, err = r.file.StrAttr(path, "N_Dataset_Type_Tag"); err != nil {
		return nil, err
	}
	if info.Mode, err = r.file.StrAttr(path, "N_Processing_Domain"); err != nil {
		return nil, err
	}

	ks, err := r.GranuleIndexes(short)
	if err != nil {
		return nil, err
	}
	for _, k := range ks {
		g, err := r.Granule(short, k)
		if err != nil {
			return nil, err
		}
		info.Granules = append(info.Granules, *g)
	}
	return info, nil
}

// Info reads the complete attribute tree of the file.
func (r *Reader) Info() (*FileInfo, error) {
	info := &FileInfo{}
	strs := []struct {
		name string
		dst  *string
	}{
		{"Distributor", &info.Distributor},
		{"Mission_Name", &info.Mission},
		{"Platform_Short_Name", &info.Platform},
		{"N_Dataset_Source", &info.DatasetSource},
		{"N_HDF_Creation_Date", &info.CreationDate},
		{"N_HDF_Creation_Time", &info.CreationTime},
	}
	for _, s := range strs {
		v, err := r.file.StrAttr("/", s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = v
	}

	shorts, err := r.Products()
	if err != nil {
		return nil, err
	}
	for _, short := range shorts {
		product, err := r.Product(short)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", short, err)
		}
		info.Products = append(info.Products, *product)
	}
	return info, nil
}
