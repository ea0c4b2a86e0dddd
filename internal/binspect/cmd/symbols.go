package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"binspect/internal/object"
	"binspect/internal/ui/colorize"
)

var symbolsRaw bool

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>...",
	Short: "List executable-code symbols, sorted by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := object.NewStore()
		openFiles(store, args)

		for _, c := range store.Containers() {
			fmt.Printf("%s (%s)\n", c.Name, c.Format)
			for _, sym := range c.Symbols {
				name := sym.DisplayName()
				if symbolsRaw {
					name = sym.Name
				}
				section := "-"
				if sym.Section != nil {
					section = sym.Section.Name
				}
				fmt.Printf("  %16s  %-20s %s\n",
					colorize.Address(sym.Addr), section, colorize.SymbolName(name))
			}
		}
		return nil
	},
}

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsRaw, "raw", false, "Show mangled names instead of demangled ones")
	rootCmd.AddCommand(symbolsCmd)
}
