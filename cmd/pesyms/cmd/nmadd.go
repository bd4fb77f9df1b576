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
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/pesyms/internal/commands/nmadd"
	"github.com/blacktop/pesyms/internal/config"
	"github.com/blacktop/pesyms/internal/magic"
	"github.com/blacktop/pesyms/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(nmaddCmd)
	nmaddCmd.Flags().String("text-section", "", "Section whose symbols are registered as functions (default .text)")
	nmaddCmd.Flags().StringSlice("alias-suffix", nil, "Name suffixes marking local aliases (default .localalias)")
	nmaddCmd.Flags().Bool("json", false, "Output resolved symbols as JSON")
	viper.BindPFlag("nmadd.text-section", nmaddCmd.Flags().Lookup("text-section"))
	viper.BindPFlag("nmadd.alias-suffix", nmaddCmd.Flags().Lookup("alias-suffix"))
	viper.BindPFlag("nmadd.json", nmaddCmd.Flags().Lookup("json"))
}

// nmaddArgs reports usage errors before anything is read.
func nmaddArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return fmt.Errorf("which loader file?")
	case 1:
		return fmt.Errorf("what base address?")
	case 2:
		if _, err := utils.ConvertStrToUint32(args[1]); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("accepts 2 arg(s), received %d", len(args))
	}
}

// nmaddCmd represents the nmadd command
var nmaddCmd = &cobra.Command{
	Use:   "nmadd <LOADER> <BASE>",
	Short: "Emit ::nmadd commands for every symbol of a PE/COFF loader image",
	Example: `  # register the loader's symbols relocated to 0x100000
  ❯ pesyms nmadd dboot.efi 0x100000 | mdb -k

  # same, written as JSON
  ❯ pesyms nmadd --json dboot.efi 1048576`,
	Args:          nmaddArgs,
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

		base, err := utils.ConvertStrToUint32(args[1])
		if err != nil {
			return err
		}

		stats, err := nmadd.Run(os.Stdout, &nmadd.Config{
			Path:          loaderPath,
			Base:          base,
			TextSection:   conf.Nmadd.TextSection,
			AliasSuffixes: conf.Nmadd.AliasSuffix,
			JSON:          conf.Nmadd.JSON,
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"entries":  stats.Entries,
			"skipped":  stats.Skipped,
			"aliases":  stats.Aliases,
			"shadowed": stats.Shadowed,
			"orphans":  stats.Orphans,
			"symbols":  stats.Resolved,
		}).Info("Resolved symbols")

		return nil
	},
}
