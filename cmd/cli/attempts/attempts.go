package attempts

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/ledger"
	"github.com/myrjola/botornot/internal/logging"
	"github.com/myrjola/botornot/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "attempts",
	Title: "Attempt ledger maintenance",
}

func init() {
	Prune.Flags().String("sqlite-url", os.Getenv("BOTORNOT_SQLITE_URL"), "SQLite database holding the attempts")
	Prune.Flags().Duration("older-than", ledger.DefaultWindow, "delete records last written longer ago than this")
}

var Prune = &cobra.Command{
	Use:     "prune",
	GroupID: "attempts",
	Short:   "Delete stale attempt records",
	Long:    "Deletes attempt records that would start over on the next challenge anyway",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		sqliteURL, _ := flags.GetString("sqlite-url")
		olderThan, _ := flags.GetDuration("older-than")
		if sqliteURL == "" {
			return errors.New("--sqlite-url or BOTORNOT_SQLITE_URL is required")
		}

		ctx := cmd.Context()
		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))
		db, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
		if err != nil {
			return errors.Wrap(err, "open database", slog.String("url", sqliteURL))
		}
		defer func() {
			_ = db.Close()
		}()

		cutoff := time.Now().Add(-olderThan).UnixMilli()
		deleted, err := ledger.NewSQLStore(db.ReadWrite, db.ReadOnly).Prune(ctx, cutoff)
		if err != nil {
			return errors.Wrap(err, "prune attempts")
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d attempt records\n", deleted)
		return nil
	},
}
