package cli

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tbetodo/internal/storage"
	"github.com/spf13/cobra"
)

var migratedTables = []string{"tasks", "subtasks"}

func newMigrateCmd(a *app) *cobra.Command {
	var noImport bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the SQLite database and import the task document once",
		Long: `Create or upgrade the SQLite database at database_path, then copy the
task document at document_path into it if that has never been done for this
database. This runs on every start of the sqlite backend as well; the command
only makes it explicit and reports the result.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := storage.OpenSQLite(ctx, a.cfg.DatabasePath, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database: %s\n", a.cfg.DatabasePath)
			for _, table := range migratedTables {
				version, err := storage.TableVersion(ctx, store.DB(), table)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s: version %d\n", table, version)
			}

			done, err := store.ImportDone(ctx)
			if err != nil {
				return err
			}
			switch {
			case done:
				fmt.Fprintln(out, "document import: already done")
			case noImport || strings.TrimSpace(a.cfg.DocumentPath) == "":
				fmt.Fprintln(out, "document import: skipped")
			default:
				doc := storage.NewDocumentStore(a.fs, a.cfg.DocumentPath, a.logger)
				n, err := store.ImportDocument(ctx, doc)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "document import: %d task(s) from %s\n", n, a.cfg.DocumentPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noImport, "no-import", false, "only migrate the schema")
	return cmd
}
