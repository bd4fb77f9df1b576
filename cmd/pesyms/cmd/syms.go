/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/pesyms/internal/colors"
	"github.com/blacktop/pesyms/internal/commands/syms"
	"github.com/blacktop/pesyms/internal/config"
	"github.com/blacktop/pesyms/internal/magic"
	"github.com/blacktop/pesyms/internal/utils"
	"github.com/blacktop/pesyms/pkg/symbols"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(symsCmd)
	symsCmd.Flags().BoolP("demangle", "d", false, "Demangle C++ symbol names")
	symsCmd.Flags().BoolP("all", "a", false, "Include entries the resolver drops (files, sections, zero values, aliases)")
	viper.BindPFlag("syms.demangle", symsCmd.Flags().Lookup("demangle"))
	viper.BindPFlag("syms.all", symsCmd.Flags().Lookup("all"))
}

// symsCmd represents the syms command
var symsCmd = &cobra.Command{
	Use:           "syms <LOADER>",
	Aliases:       []string{"s"},
	Short:         "List the raw COFF symbol table entries of a PE/COFF file",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		loaderPath := filepath.Clean(args[0])

		if ok, err := magic.IsPE(loaderPath); !ok {
			return err
		}

		rows, err := syms.List(&syms.Config{
			Path:          loaderPath,
			TextSection:   conf.Nmadd.TextSection,
			AliasSuffixes: conf.Nmadd.AliasSuffix,
			Demangle:      conf.Syms.Demangle,
			All:           conf.Syms.All,
		})
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			log.Warn("No symbols found")
			return nil
		}

		for _, row := range rows {
			line := fmt.Sprintf("%5d: %s %-8s %s%s%s",
				row.Index,
				colors.FaintCyan().Sprintf("%#08x", row.Value),
				colors.Faint().Sprint(row.Section),
				colors.Flag(row.Flags).Sprintf("%-12s", row.Class),
				utils.Pad(1),
				colors.Kind(row.Kind).Sprint(row.Name))
			if row.Skip != symbols.SkipNone {
				line += colors.HiRed().Sprintf("  (%s)", row.Skip)
			}
			fmt.Println(line)
		}

		return nil
	},
}
