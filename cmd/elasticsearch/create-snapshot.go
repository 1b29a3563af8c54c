package elasticsearch

import (
	"fmt"
	"os"

	"github.com/essnap/essnap/internal/backup"
	"github.com/essnap/essnap/internal/config"
	"github.com/spf13/cobra"
)

func createSnapshotCmd(cliCtx *config.Context) *cobra.Command {
	var snapshotName string

	cmd := &cobra.Command{
		Use:   "create-snapshot",
		Short: "Snapshot the configured indices into the snapshot repository",
		Long: `Snapshot the configured indices into the snapshot repository.

The indice to snapshot is taken from the backup configuration. With time-based
rotation enabled the indice name is derived from the current date; optional
maintenance steps (flush, write block, force merge) run before the snapshot
is created.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := runCreateSnapshot(cliCtx, snapshotName); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&snapshotName, "snapshot-name", "s", "", "Name of the snapshot to create (default: derived from the current time)")

	return cmd
}

func runCreateSnapshot(cliCtx *config.Context, snapshotName string) error {
	sess, err := newSession(cliCtx)
	if err != nil {
		return err
	}
	defer sess.cleanup()

	backupCfg := sess.cfg.Elasticsearch.Backup
	if snapshotName != "" {
		backupCfg.Snapshot = snapshotName
	}

	esClient, err := backup.NewClusterClient(backupCfg)
	if err != nil {
		return fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	runner, err := backup.New(backupCfg, backup.WithClient(esClient), backup.WithLogger(sess.log))
	if err != nil {
		return err
	}

	sess.log.Infof("Starting backup of indice '%s'...", runner.Target().Name())

	if err := runner.Run(); err != nil {
		return err
	}

	sess.log.Println()
	sess.log.Successf("Created snapshot '%s' of indice '%s'", runner.SnapshotName(), runner.Target().Name())

	repository := backupCfg.WithDefaults().Repository
	snapshot, err := esClient.GetSnapshot(repository, runner.SnapshotName())
	if err != nil {
		sess.log.Warningf("Could not fetch snapshot details: %v", err)
		return nil
	}
	sess.log.Infof("Snapshot covers %d indice(s), took %dms", len(snapshot.Indices), snapshot.DurationInMillis)

	return nil
}
