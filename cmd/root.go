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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssec-jpss/go-rdr/cmd/aggr"
	"github.com/ssec-jpss/go-rdr/cmd/catalog"
	"github.com/ssec-jpss/go-rdr/cmd/config"
	"github.com/ssec-jpss/go-rdr/cmd/create"
	"github.com/ssec-jpss/go-rdr/cmd/dump"
	"github.com/ssec-jpss/go-rdr/cmd/extract"
	"github.com/ssec-jpss/go-rdr/cmd/info"
	"github.com/ssec-jpss/go-rdr/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:           "rdr",
		Short:         "Tool to work with JPSS RDR files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(cmd.ErrOrStderr(), logLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(create.NewCommand())
	cmd.AddCommand(dump.NewCommand())
	cmd.AddCommand(aggr.NewCommand())
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(info.NewCommand())
	cmd.AddCommand(extract.NewCommand())
	cmd.AddCommand(catalog.NewCommand())
	cmd.PersistentFlags().StringVarP(&logLevel, LogLevelOptionName, "l", "info", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
