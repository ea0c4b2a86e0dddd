package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"binspect/internal/disasm"
	"binspect/internal/object"
	"binspect/internal/ui/colorize"
)

var (
	disasmJSON  bool
	disasmBytes bool
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file> [symbol]",
	Short: "Disassemble a symbol (or every symbol) in a binary",
	Long: `Disassemble the estimated byte extent of one symbol, or of every
executable-code symbol when none is named. Relocated references are shown as
symbol names, never as raw numbers.`,
	Example: `
# Disassemble a single function
binspect disasm ./libfoo.a 'foo::bar()'

# Dump everything, with raw bytes, as JSON
binspect disasm -b --json ./module.o
  `,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := object.NewStore()
		openFiles(store, args[:1])

		containers := store.Containers()
		if len(containers) == 0 {
			return fmt.Errorf("no objects recognized in %s", args[0])
		}

		var query string
		if len(args) == 2 {
			query = args[1]
		}

		shown := 0
		for _, c := range containers {
			for _, sym := range c.Symbols {
				if query != "" && sym.Name != query && sym.Demangled != query {
					continue
				}
				printAssembly(c, sym)
				shown++
			}
		}
		if query != "" && shown == 0 {
			return fmt.Errorf("symbol %q not found", query)
		}
		return nil
	},
}

func printAssembly(c *object.Container, sym *object.Symbol) {
	asm, ok := disasm.Assemble(c, sym)
	if !ok {
		fmt.Printf("%s:\n  assembly unavailable\n", sym.DisplayName())
		return
	}

	if disasmJSON {
		bts, err := json.MarshalIndent(instructionsJSON(asm), "", "  ")
		if err != nil {
			return
		}
		fmt.Printf("%q:\n%s\n", sym.DisplayName(), string(bts))
		return
	}

	fmt.Printf("%s:\n", colorize.SymbolName(sym.DisplayName()))
	for _, inst := range asm.Instructions {
		fmt.Printf("  %s\n", colorize.Instruction(inst, disasmBytes))
	}
}

func init() {
	disasmCmd.Flags().BoolVar(&disasmJSON, "json", false, "Emit JSON instead of text")
	disasmCmd.Flags().BoolVarP(&disasmBytes, "bytes", "b", false, "Show raw instruction bytes")
	rootCmd.AddCommand(disasmCmd)
}
