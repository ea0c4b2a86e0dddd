package cmd

import (
	"context"
	"os"
	pathpkg "path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"binspect/internal/binspect/log"
	"binspect/internal/logging"
	"binspect/internal/object"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "binspect",
	Short: "Inspect compiled binaries and view annotated disassembly",
	Long: `binspect parses object files, executables, and static archives into a
section/symbol model and renders machine code as classified, relocation-aware
assembly listings.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Setup(debugFlag || logging.IsDebug())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// openFiles reads each selected path and feeds the loader. An unreadable file
// is logged and skipped, consistent with the loader's own skip-on-error
// policy for unparsable members.
func openFiles(store *object.Store, paths []string) {
	logger := logging.NewLogger()
	defer logger.Close()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file", "path", path, "error", err)
			continue
		}
		if n := object.Open(store, data, pathpkg.Base(path), path); n == 0 {
			logger.Warn("No objects recognized in file", "path", path)
		}
	}
}

func Execute() {
	// Bypass fang's markdown help rendering when output is piped; colors stay
	// under the user's control via BINSPECT_NO_COLOR.
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
