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

package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/log"
	"github.com/ssec-jpss/go-rdr/pkg/rdr"
)

const (
	InputOptionName   = "input"
	GranuleOptionName = "granule"
	OutputOptionName  = "output"
)

// granuleExtract is the JSON metadata document written next to the raw
// structure files.
type granuleExtract struct {
	ShortName string             `json:"collection"`
	Granule   *rdr.GranuleInfo   `json:"granule"`
	Header    rdr.RawAPHeader    `json:"static_header"`
	Trackers  []rdr.TrackerEntry `json:"packet_trackers"`
}

func NewCommand() *cobra.Command {
	var input, output string
	granule := -1
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract Common RDR metadata and data structures",
		Long: "Extract Common RDR metadata and data structures. " +
			"Writes a JSON metadata file plus raw static_header, packet_trackers " +
			"and ap_storage files per granule, named <short_name>_<granule_id>.<name>.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return config.ErrInvalid{Reason: "no input given"}
			}
			r, err := rdr.OpenReader(input)
			if err != nil {
				return err
			}
			defer r.Close()

			shorts, err := r.Products()
			if err != nil {
				return err
			}
			for _, short := range shorts {
				ks, err := r.GranuleIndexes(short)
				if err != nil {
					return err
				}
				for _, k := range ks {
					if granule >= 0 && k != granule {
						continue
					}
					if err := extractGranule(r, short, k, output); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, InputOptionName, "i", "", "RDR file to extract from")
	cmd.Flags().IntVarP(&granule, GranuleOptionName, "g", -1, "Only extract this granule index")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", ".", "Output directory")
	return cmd
}

func extractGranule(r *rdr.Reader, short string, k int, outdir string) error {
	info, err := r.Granule(short, k)
	if err != nil {
		return err
	}
	blob, err := r.RawAPBytes(short, k)
	if err != nil {
		return err
	}
	rawap, err := rdr.ParseRawAP(blob)
	if err != nil {
		return fmt.Errorf("%s granule %d: %w", short, k, err)
	}

	prefix := filepath.Join(outdir, fmt.Sprintf("%s_%s", short, info.ID))
	trackerEnd := rdr.RawAPHeaderLen + len(rawap.Trackers)*rdr.TrackerEntryLen
	sections := []struct {
		name string
		data []byte
	}{
		{"static_header.dat", blob[:rdr.RawAPHeaderLen]},
		{"packet_trackers.dat", blob[rdr.RawAPHeaderLen:trackerEnd]},
		{"ap_storage.dat", blob[trackerEnd:rawap.Header.NextPktPos]},
	}
	for _, s := range sections {
		path := prefix + "." + s.name
		if err := os.WriteFile(path, s.data, 0644); err != nil {
			return err
		}
		log.Debug("wrote %s", path)
	}

	meta := granuleExtract{ShortName: short, Granule: info, Header: rawap.Header, Trackers: rawap.Trackers}
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	path := prefix + ".metadata.json"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	log.Info("extracted %s granule %d to %s.*", short, k, prefix)
	return nil
}
