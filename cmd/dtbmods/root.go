package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type options struct {
	dtbPath      string
	modaliasPath string
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "dtbmods",
		Level:  log.InfoLevel,
	})
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "dtbmods --dtb <file> --modalias <file>",
		Short: "List the kernel modules required by a device tree",
		Long: `dtbmods matches the compatible strings of every node in a device tree
blob against the of: aliases in a modules.alias file and prints the modules
that claim them, grouped by module, followed by the devices nothing matched.

Example:
  dtbmods --dtb board.dtb --modalias /lib/modules/$(uname -r)/modules.alias`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), logger, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dtbPath, "dtb", "", "the dtb file to parse")
	cmd.Flags().StringVar(&opts.modaliasPath, "modalias", "", "the modules.alias file")
	_ = cmd.MarkFlagRequired("dtb")
	_ = cmd.MarkFlagRequired("modalias")
	return cmd
}

func execute() int {
	logger := newLogger(os.Stderr)
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("failed", "err", err)
		return 1
	}
	return 0
}
