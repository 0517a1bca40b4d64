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

package info

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ssec-jpss/go-rdr/pkg/config"
	"github.com/ssec-jpss/go-rdr/pkg/rdr"
)

const (
	InputOptionName     = "input"
	ShortNameOptionName = "short-name"
)

func NewCommand() *cobra.Command {
	var input, shortName string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Generate JSON describing file and dataset attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return config.ErrInvalid{Reason: "no input given"}
			}
			r, err := rdr.OpenReader(input)
			if err != nil {
				return err
			}
			defer r.Close()

			fileInfo, err := r.Info()
			if err != nil {
				return err
			}
			if shortName != "" {
				var kept []rdr.ProductInfo
				for _, p := range fileInfo.Products {
					if p.ShortName == shortName {
						kept = append(kept, p)
					}
				}
				fileInfo.Products = kept
			}

			data, err := json.MarshalIndent(fileInfo, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, InputOptionName, "i", "", "RDR file to describe")
	cmd.Flags().StringVar(&shortName, ShortNameOptionName, "", "Only include this collection short name")
	return cmd
}
