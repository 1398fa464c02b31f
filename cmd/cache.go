package cmd

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/huangsam/callerid/internal/outwriter"
	"github.com/huangsam/callerid/internal/resolver"
	"github.com/spf13/cobra"
)

// reportNoOp prints msg for a request that changed nothing and passes other errors through.
func reportNoOp(err error, msg string) error {
	if errors.Is(err, contract.ErrNoOp) {
		fmt.Println(msg)
		return nil
	}
	return err
}

// enableCmd turns the contact cache on.
var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Request contact access and build the contact cache",
	Long: `Ask for permission to read the contact directory, build the number index
and remember that the cache should be rebuilt on every launch.

The preference is only saved once the first build succeeds.

Examples:
  # Enable using a CSV export of your address book
  callerid enable --contacts ~/contacts.csv

  # Simulate a host that already granted access
  callerid enable --contacts contacts.json --authorization authorized`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr := newResolver(rootCtx, cfg, iocache.Stores)
		if err := reportNoOp(mgr.Enable(rootCtx), "Contact cache is already enabled."); err != nil {
			return fmt.Errorf("failed to enable contact cache: %w", err)
		}
		return outwriter.NewOutWriter().WriteStatus(mgr.Status(), cfg)
	},
}

// disableCmd turns the contact cache off.
var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Drop the contact cache and stop rebuilding it",
	Long: `Clear the in-memory index and persist that the cache is off.

Directory authorization is left as is; use 'callerid access reset' to forget it.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr := newResolver(rootCtx, cfg, iocache.Stores, resolver.DeferLaunchBuild())
		if err := reportNoOp(mgr.Disable(rootCtx), "Contact cache is already disabled."); err != nil {
			return fmt.Errorf("failed to disable contact cache: %w", err)
		}
		return outwriter.NewOutWriter().WriteStatus(mgr.Status(), cfg)
	},
}

// refreshCmd rebuilds the contact cache.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the contact cache from the directory",
	Long: `Re-read the contact directory and replace the index.

A failed refresh keeps the previous index. If access was revoked, the index is emptied.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr := newResolver(rootCtx, cfg, iocache.Stores, resolver.DeferLaunchBuild())
		if err := reportNoOp(mgr.Refresh(rootCtx), "Contact cache is not enabled; run 'callerid enable' first."); err != nil {
			return fmt.Errorf("failed to refresh contact cache: %w", err)
		}
		return outwriter.NewOutWriter().WriteStatus(mgr.Status(), cfg)
	},
}

// statusCmd shows the contact cache status.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the contact cache state and authorization",
	Long: `Show whether the cache is enabled, the directory authorization,
how many numbers are indexed and the last build error if any.

Examples:
  callerid status
  callerid status --output json`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr := newResolver(rootCtx, cfg, iocache.Stores)
		return outwriter.NewOutWriter().WriteStatus(mgr.Status(), cfg)
	},
}

// lookupCmd resolves numbers against the cache.
var lookupCmd = &cobra.Command{
	Use:   "lookup NUMBER...",
	Short: "Resolve phone numbers to contact names",
	Long: `Normalize each number and look it up in the contact cache.

Numbers may be written in international, domestic or trunk-prefixed form.

Examples:
  callerid lookup "+420 123 456 789" 0123456789 00420123456789
  callerid lookup 123456789 --output csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		mgr := newResolver(rootCtx, cfg, iocache.Stores)
		if status := mgr.Status(); !status.Enabled {
			log.Warn("contact cache is disabled; run 'callerid enable' first")
		}
		return outwriter.NewOutWriter().WriteLookups(mgr.Resolve(args), cfg)
	},
}
