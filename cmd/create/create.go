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

package create

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssec-jpss/go-rdr/pkg/catalog"
	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/iet"
	"github.com/ssec-jpss/go-rdr/pkg/log"
	"github.com/ssec-jpss/go-rdr/pkg/rdr"
)

const (
	ConfigOptionName    = "config"
	SatelliteOptionName = "satellite"
	ProductOptionName   = "product"
	OutputOptionName    = "output"
)

func NewCommand() *cobra.Command {
	var configPath, satellite, product, output string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an RDR from spacepacket/level-0 data",
		Long: "Create an RDR from spacepacket/level-0 data. " +
			"The packet data must be sorted in time and sequence order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath, satellite)
			if err != nil {
				return err
			}
			if product == "" {
				return config.ErrInvalid{Reason: "no product given"}
			}
			if err := os.MkdirAll(output, 0755); err != nil {
				return err
			}

			result, err := rdr.Create(cmd.Context(), cfg, product, args, output)
			if err != nil {
				return err
			}
			log.Info("created %s: %d granules, %d packets", result.Path, result.Granules, result.Packets)

			recordResult(cfg, result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, ConfigOptionName, "c", "", "YAML or JSON mission config. Overrides --satellite.")
	cmd.Flags().StringVarP(&satellite, SatelliteOptionName, "s", "npp", "Built-in config to use, e.g. npp")
	cmd.Flags().StringVarP(&product, ProductOptionName, "p", "", "Primary product id, e.g. RVIRS")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", "output", "Output directory")
	return cmd
}

func recordResult(cfg *config.Config, result *rdr.CreateResult) {
	c, err := catalog.Open(catalog.DefaultPath())
	if err != nil {
		log.Warning("catalog unavailable: %s", err)
		return
	}
	defer c.Close()

	entry := &catalog.Entry{
		Path:     result.Path,
		Mission:  cfg.Satellite.Mission,
		Products: result.Products,
		BeginIET: result.BeginIET,
		EndIET:   result.EndIET,
		Granules: result.Granules,
		Created:  iet.FormatDate(iet.Now()) + iet.FormatTime(iet.Now()),
	}
	if err := c.Put(entry); err != nil {
		log.Warning("recording %s in catalog: %s", result.Path, err)
	}
}
