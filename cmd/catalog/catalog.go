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

package catalog

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	pkgcatalog "github.com/ssec-jpss/go-rdr/pkg/catalog"
)

const (
	DBOptionName   = "db"
	JSONOptionName = "json"
)

func NewCommand() *cobra.Command {
	var dbPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List RDR files this tool has produced",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := pkgcatalog.Open(dbPath)
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.List()
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			}
			for _, entry := range entries {
				cmd.Printf("%s granules=%d products=%s mission=%q\n",
					entry.Path, entry.Granules, strings.Join(entry.Products, ","), entry.Mission)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, DBOptionName, pkgcatalog.DefaultPath(), "Catalog database path")
	cmd.Flags().BoolVar(&asJSON, JSONOptionName, false, "Emit JSON")
	return cmd
}
