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

package dump

import (
	"github.com/spf13/cobra"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/log"
	"github.com/ssec-jpss/go-rdr/pkg/rdr"
)

const (
	InputOptionName   = "input"
	ProductOptionName = "product"
	PerApidOptionName = "per-apid"
	OutputOptionName  = "output"
)

func NewCommand() *cobra.Command {
	var input, product, output string
	var perApid bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Extract the spacepacket data contained in an RDR to PDS files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return config.ErrInvalid{Reason: "no input given"}
			}
			// A product id from the config maps to its collection short
			// name; a short name passes through untouched.
			short := product
			if cfg := config.Default("npp"); cfg != nil && product != "" {
				if p := cfg.GetProduct(product); p != nil {
					short = p.ShortName
				}
			}

			paths, err := rdr.Dump(cmd.Context(), input, short, perApid, output)
			if err != nil {
				return err
			}
			for _, path := range paths {
				log.Info("wrote %s", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, InputOptionName, "i", "", "RDR file to dump")
	cmd.Flags().StringVarP(&product, ProductOptionName, "p", "", "Product id or collection short name. Default is every product.")
	cmd.Flags().BoolVar(&perApid, PerApidOptionName, false, "Write one PDS file per apid")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", ".", "Output directory")
	return cmd
}
