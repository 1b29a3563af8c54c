package elasticsearch

import (
	"fmt"
	"os"

	"github.com/essnap/essnap/internal/backup"
	"github.com/essnap/essnap/internal/config"
	"github.com/essnap/essnap/internal/output"
	"github.com/spf13/cobra"
)

func listIndicesCmd(cliCtx *config.Context) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "list-indices",
		Short: "List Elasticsearch indices",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runListIndices(cliCtx, pattern); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Only list indices matching this pattern (e.g. 'all2016.*')")

	return cmd
}

func runListIndices(cliCtx *config.Context, pattern string) error {
	sess, err := newSession(cliCtx)
	if err != nil {
		return err
	}
	defer sess.cleanup()

	backupCfg := sess.cfg.Elasticsearch.Backup.WithDefaults()

	esClient, err := backup.NewClusterClient(backupCfg)
	if err != nil {
		return fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	formatter := output.NewFormatter(cliCtx.Config.OutputFormat)

	if pattern != "" {
		sess.log.Infof("Fetching Elasticsearch indices matching '%s'...", pattern)

		names, err := esClient.ListIndices(pattern)
		if err != nil {
			return fmt.Errorf("failed to list indices: %w", err)
		}

		if len(names) == 0 {
			formatter.PrintMessage("No indices found")
			return nil
		}

		table := output.Table{
			Headers: []string{"INDEX"},
			Rows:    make([][]string, 0, len(names)),
		}
		for _, name := range names {
			table.Rows = append(table.Rows, []string{name})
		}
		return formatter.PrintTable(table)
	}

	sess.log.Infof("Fetching Elasticsearch indices...")

	indices, err := esClient.ListIndicesDetailed()
	if err != nil {
		return fmt.Errorf("failed to list indices: %w", err)
	}

	if len(indices) == 0 {
		formatter.PrintMessage("No indices found")
		return nil
	}

	table := output.Table{
		Headers: []string{"HEALTH", "STATUS", "INDEX", "UUID", "PRI", "REP", "DOCS.COUNT", "DOCS.DELETED", "STORE.SIZE", "PRI.STORE.SIZE"},
		Rows:    make([][]string, 0, len(indices)),
	}

	for _, idx := range indices {
		row := []string{
			idx.Health,
			idx.Status,
			idx.Index,
			idx.UUID,
			idx.Pri,
			idx.Rep,
			idx.DocsCount,
			idx.DocsDeleted,
			idx.StoreSize,
			idx.PriStoreSize,
		}
		table.Rows = append(table.Rows, row)
	}

	return formatter.PrintTable(table)
}
