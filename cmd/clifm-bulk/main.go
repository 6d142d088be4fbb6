// Package main provides the CLI entry point for the bulk rename/remove
// core.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/clifm-go/bulkfs/internal/bulkconfig"
	"github.com/clifm-go/bulkfs/internal/bulkfs"
	"github.com/clifm-go/bulkfs/internal/history"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	editorFlag  string
	dryRun      bool
	stealthFlag bool
	verbose     bool
	noConfirm   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "clifm-bulk",
		Version: version,
		Short:   "Editor-mediated bulk rename and bulk remove",
		Long: `clifm-bulk materializes a set of files into an editable document,
hands it to an external editor, diffs the result, confirms, and applies the
diff as file-system mutations.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&editorFlag, "editor", "", "Editor to use instead of the default file opener")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview the change list and exit before applying it")
	rootCmd.PersistentFlags().BoolVar(&stealthFlag, "stealth", false, "Force the system default temp directory instead of CliFM's own")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noConfirm, "yes", false, "Skip the confirmation prompt")

	renameCmd := &cobra.Command{
		Use:   "rename <file>...",
		Short: "Bulk-rename files via an external editor",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRename,
	}

	removeCmd := &cobra.Command{
		Use:   "remove [target-or-editor] [editor]",
		Short: "Bulk-remove files in a directory via an external editor",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runRemove,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the audit log of completed bulk operations",
		RunE:  runHistory,
	}

	rootCmd.AddCommand(renameCmd, removeCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadEnvironment() (*bulkconfig.Config, *history.Store, error) {
	cfgPath, err := bulkconfig.DefaultPath()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := bulkconfig.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	historyPath, err := bulkconfig.DefaultPath()
	if err != nil {
		return cfg, nil, nil
	}
	store, err := history.Open(historyPath + ".history.db")
	if err != nil {
		slog.Warn("audit log unavailable", slog.String("error", err.Error()))
		return cfg, nil, nil
	}
	return cfg, store, nil
}

func workspaceOptions(cfg *bulkconfig.Config, store *history.Store) (bool, bulkfs.Options) {
	editor := editorFlag
	if editor == "" {
		editor = cfg.EditorOverride
	}

	opts := bulkfs.Options{
		Editor:  editor,
		DryRun:  dryRun,
		Confirm: !noConfirm,
	}
	if store != nil {
		opts.Audit = history.Sink{Store: store}
	}

	stealth := stealthFlag || cfg.StealthMode
	return stealth, opts
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving current directory: %w", err)
	}

	stealth, opts := workspaceOptions(cfg, store)
	ws := bulkfs.NewOSWorkspace(cwd, cfg.TempDir, stealth, cfg.AutoList)

	code := bulkfs.BulkRename(cmd.Context(), ws, args, opts)
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving current directory: %w", err)
	}

	var s1, s2 string
	if len(args) > 0 {
		s1 = args[0]
	}
	if len(args) > 1 {
		s2 = args[1]
	}

	stealth, opts := workspaceOptions(cfg, store)
	ws := bulkfs.NewOSWorkspace(cwd, cfg.TempDir, stealth, cfg.AutoList)
	ws.ReloadDirList()

	code := bulkfs.BulkRemove(cmd.Context(), ws, s1, s2, opts)
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	_, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no audit log available")
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(cmd.Context(), 20)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  %-6s  items=%-4d ok=%-4d fail=%-4d  %s\n",
			r.RanAt.Format("2006-01-02 15:04:05"), r.Kind, r.ItemCount, r.SuccessCount, r.FailCount, r.RunID)
	}
	return nil
}
