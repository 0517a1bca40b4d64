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

package config

import (
	"github.com/spf13/cobra"

	pkgconfig "github.com/ssec-jpss/go-rdr/pkg/config"
)

const (
	SatelliteOptionName = "satellite"
	ExpandOptionName    = "expand"
)

func NewCommand() *cobra.Command {
	var satellite string
	var expand bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Output the built-in mission configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := pkgconfig.DefaultContent(satellite)
			if content == "" {
				return pkgconfig.ErrInvalid{Reason: "no built-in config for satellite " + satellite}
			}
			if !expand {
				cmd.Print(content)
				return nil
			}
			cfg, err := pkgconfig.Load([]byte(content))
			if err != nil {
				return err
			}
			data, err := cfg.Expand()
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&satellite, SatelliteOptionName, "s", "npp", "Satellite to show the config for")
	cmd.Flags().BoolVar(&expand, ExpandOptionName, false, "Parse and re-emit the normalized config")
	return cmd
}
