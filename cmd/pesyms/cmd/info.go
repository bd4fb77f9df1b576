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

	"github.com/blacktop/pesyms/internal/colors"
	"github.com/blacktop/pesyms/internal/magic"
	"github.com/blacktop/pesyms/pkg/coff"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info <LOADER>",
	Short:         "Display the header and section table of a PE/COFF file",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {

		loaderPath := filepath.Clean(args[0])

		if ok, err := magic.IsPE(loaderPath); !ok {
			return err
		}

		f, err := coff.Open(loaderPath)
		if err != nil {
			return err
		}
		defer f.Close()

		fmt.Printf("%s %s\n", colors.Bold().Sprint("File:   "), loaderPath)
		fmt.Printf("%s %s\n", colors.Bold().Sprint("Size:   "), humanize.Bytes(uint64(f.Size())))
		fmt.Printf("%s %s\n", colors.Bold().Sprint("Machine:"), magic.Magic(f.Machine()))
		if base, ok := f.ImageBase(); ok {
			fmt.Printf("%s %#x\n", colors.Bold().Sprint("Base:   "), base)
		} else {
			fmt.Printf("%s %s\n", colors.Bold().Sprint("Base:   "), colors.Faint().Sprint("none (object file)"))
		}
		fmt.Printf("%s %d records, %d entries\n\n", colors.Bold().Sprint("Symbols:"), f.NumberOfSymbols(), len(f.Entries))

		var data [][]string
		for i, sec := range f.Sections {
			data = append(data, []string{
				fmt.Sprintf("%d", i+1),
				sec.Name,
				fmt.Sprintf("%#08x", sec.Base),
				fmt.Sprintf("%#08x", sec.End()),
				fmt.Sprintf("%#x", sec.Size),
				humanize.Bytes(uint64(sec.Size)),
			})
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"#", "Name", "Start", "End", "VSize", "Size"})
		table.AppendBulk(data)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.Render() // Send output

		return nil
	},
}
