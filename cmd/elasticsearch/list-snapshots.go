package elasticsearch

import (
	"fmt"
	"os"

	"github.com/essnap/essnap/internal/backup"
	"github.com/essnap/essnap/internal/config"
	"github.com/essnap/essnap/internal/output"
	"github.com/spf13/cobra"
)

func listSnapshotsCmd(cliCtx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list-snapshots",
		Short: "List available Elasticsearch snapshots",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runListSnapshots(cliCtx); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}
}

func runListSnapshots(cliCtx *config.Context) error {
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

	repository := backupCfg.Repository
	sess.log.Infof("Fetching snapshots from repository '%s'...", repository)

	snapshots, err := esClient.ListSnapshots(repository)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	formatter := output.NewFormatter(cliCtx.Config.OutputFormat)

	if len(snapshots) == 0 {
		formatter.PrintMessage("No snapshots found")
		return nil
	}

	table := output.Table{
		Headers: []string{"SNAPSHOT", "STATE", "START TIME", "DURATION (ms)", "FAILURES"},
		Rows:    make([][]string, 0, len(snapshots)),
	}

	for _, snapshot := range snapshots {
		row := []string{
			snapshot.Snapshot,
			snapshot.State,
			snapshot.StartTime,
			fmt.Sprintf("%d", snapshot.DurationInMillis),
			fmt.Sprintf("%d", len(snapshot.Failures)),
		}
		table.Rows = append(table.Rows, row)
	}

	return formatter.PrintTable(table)
}
