package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/directory"
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/spf13/cobra"
)

// accessCmd groups the contact access commands.
var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect or forget the contact directory authorization",
	Long: `When --authorization is not set, callerid asks on the terminal before
reading contacts and remembers the answer in the preference store.

Subcommands:
  status - Show the current authorization
  reset  - Forget the remembered answer so the next enable asks again`,
}

// accessStatusCmd prints the current authorization.
var accessStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the contact directory authorization",
	PreRunE: prefsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		status := newGate(cfg, iocache.Stores).CurrentStatus()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Authorization: %s\n", status)
	},
}

// accessResetCmd forgets the stored prompt answer.
var accessResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Forget the remembered contact access answer",
	PreRunE: prefsSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.Authorization != "" {
			return errors.New("authorization is fixed by --authorization; nothing is stored to reset")
		}
		gate := directory.NewPromptGate(iocache.Stores.GetPreferenceStore())
		if err := gate.Reset(); err != nil {
			contract.LogFatal("Failed to reset contact access", err)
		}
		fmt.Println("Contact access decision forgotten.")
		return nil
	},
}
