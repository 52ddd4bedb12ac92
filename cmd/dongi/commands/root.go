package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/dangidongi/pkg/logging"
)

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	var (
		serverURL string
		logLevel  string
	)

	root := &cobra.Command{
		Use:          "dongi",
		Short:        "Split shared expenses through a single hub",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logging.ParseLevel(logLevel)))
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (e.g. http://127.0.0.1:8080); computes locally when empty")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(calcCmd(&serverURL), currenciesCmd())
	return root
}
