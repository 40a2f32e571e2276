// ABOUTME: Root command, global flags, and per-invocation store setup.
// ABOUTME: Opens the badger store and loads the document index before each command.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/mdesk/internal/config"
	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/logging"
	"github.com/harper/mdesk/internal/store"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

// noStore marks commands that only need configuration.
const noStore = "no-store"

var (
	cfg    *config.Config
	logger *log.Logger
	kv     store.Store
	docs   *docdb.DB
)

var rootCmd = &cobra.Command{
	Use:           "mdesk",
	Short:         "A markdown document desk",
	Long:          `mdesk keeps markdown documents in folders on local disk and opens them in a desktop of editor windows.`,
	Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
			cfg.DataDir = dir
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		logger = logging.New(os.Stderr, cfg.LogLevel)

		if cmd.Annotations[noStore] == "true" {
			return nil
		}
		return openStore(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func openStore(cmd *cobra.Command) error {
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	var err error
	if ephemeral {
		kv, err = store.OpenInMemory(store.WithLogger(logging.NewBadger(logger)))
	} else {
		dir := cfg.ResolvedDataDir()
		logger.Debug("opening store", "dir", dir)
		kv, err = store.Open(dir, store.WithLogger(logging.NewBadger(logger)))
	}
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	docs = docdb.New(docdb.NewKVRepository(kv), docdb.WithLogger(logger))
	if err := docs.Init(); err != nil {
		_ = kv.Close()
		kv = nil
		return fmt.Errorf("failed to load documents: %w", err)
	}
	return nil
}

func closeStore() error {
	if kv == nil {
		return nil
	}
	err := kv.Close()
	kv = nil
	return err
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(describe(err)))
	}
	return err
}

// describe turns storage engine errors into short notices.
func describe(err error) string {
	if errors.Is(err, docdb.ErrStorageUnavailable) {
		return fmt.Sprintf("storage unavailable, nothing was changed: %v", err)
	}
	return err.Error()
}

// parseID accepts "12" or "#12".
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseFolderArg accepts a folder id or "root"/"none" for no folder.
func parseFolderArg(s string) (*int64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "root", "none", "-":
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func documentNotFound(id int64) error {
	return &docdb.NotFoundError{Kind: docdb.KindDocument, ID: id}
}

func folderNotFound(id int64) error {
	return &docdb.NotFoundError{Kind: docdb.KindFolder, ID: id}
}

// folderName returns the name of the folder doc is in, or "".
func folderName(folderID *int64) string {
	if folderID == nil {
		return ""
	}
	if f, ok := docs.GetFolder(*folderID); ok {
		return f.Name
	}
	return fmt.Sprintf("missing folder #%d", *folderID)
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "store directory (default $XDG_DATA_HOME/mdesk)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "use an in-memory store that is discarded on exit")
}
