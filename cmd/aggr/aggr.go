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

package aggr

import (
	"github.com/spf13/cobra"

	"github.com/ssec-jpss/go-rdr/pkg/catalog"
	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/iet"
	"github.com/ssec-jpss/go-rdr/pkg/log"
	"github.com/ssec-jpss/go-rdr/pkg/rdr"
)

const (
	OutputOptionName = "output"
)

func NewCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "aggr",
		Short: "Aggregate multiple RDRs into a single aggregated RDR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return config.ErrInvalid{Reason: "no output given"}
			}
			result, err := rdr.Aggregate(cmd.Context(), output, args)
			if err != nil {
				return err
			}
			log.Info("aggregated %d files into %s: %d granules", len(args), output, result.Granules)

			record(output, result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", "", "Output file")
	return cmd
}

func record(output string, result *rdr.AggrResult) {
	c, err := catalog.Open(catalog.DefaultPath())
	if err != nil {
		log.Warning("catalog unavailable: %s", err)
		return
	}
	defer c.Close()

	entry := &catalog.Entry{
		Path:     output,
		Mission:  result.Mission,
		Products: result.Products,
		BeginIET: result.BeginIET,
		EndIET:   result.EndIET,
		Granules: result.Granules,
		Created:  iet.FormatDate(iet.Now()) + iet.FormatTime(iet.Now()),
	}
	if err := c.Put(entry); err != nil {
		log.Warning("recording %s in catalog: %s", output, err)
	}
}
