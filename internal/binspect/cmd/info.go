package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"binspect/internal/object"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Show container metadata for object files and archives",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := object.NewStore()
		openFiles(store, args)

		if infoJSON {
			out := containersJSON(store)
			bts, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal output: %w", err)
			}
			fmt.Println(string(bts))
			return nil
		}

		for _, c := range store.Containers() {
			fmt.Printf("%s\n", c.Name)
			fmt.Printf("  Path:     %s\n", c.Path)
			fmt.Printf("  Format:   %s\n", c.Format)
			fmt.Printf("  Symbols:  %d\n", len(c.Symbols))
			fmt.Printf("  Sections: %d\n", len(c.Sections))
			for _, sec := range c.Sections {
				fmt.Printf("    %-24s %016x  %d bytes\n", sec.Name, sec.Addr, len(sec.Data))
			}
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Emit JSON instead of text")
	rootCmd.AddCommand(infoCmd)
}
