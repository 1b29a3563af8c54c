package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/essnap/essnap/cmd/elasticsearch"
	"github.com/essnap/essnap/cmd/version"
	"github.com/essnap/essnap/internal/config"
)

var (
	cliCtx *config.Context
)

// addBackupConfigFlags adds configuration flags needed for backup operations
// to commands that interact with the Elasticsearch cluster. Configuration
// comes either from a local file (--config) or from a Kubernetes
// ConfigMap/Secret pair (--namespace).
func addBackupConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&cliCtx.Config.ConfigFile, "config", "c", "", "Path to a local YAML configuration file")
	cmd.PersistentFlags().StringVar(&cliCtx.Config.Namespace, "namespace", "", "Kubernetes namespace to load configuration from and port-forward into")
	cmd.PersistentFlags().StringVar(&cliCtx.Config.Kubeconfig, "kubeconfig", "", "Path to kubeconfig file (default: ~/.kube/config)")
	cmd.PersistentFlags().BoolVar(&cliCtx.Config.Debug, "debug", false, "Enable debug output")
	cmd.PersistentFlags().BoolVarP(&cliCtx.Config.Quiet, "quiet", "q", false, "Suppress operational messages (only show errors and data output)")
	cmd.PersistentFlags().StringVar(&cliCtx.Config.ConfigMapName, "configmap", "essnap-backup-config", "ConfigMap name containing backup configuration")
	cmd.PersistentFlags().StringVar(&cliCtx.Config.SecretName, "secret", "essnap-backup-config", "Secret name containing backup configuration")
	cmd.PersistentFlags().StringVarP(&cliCtx.Config.OutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}

func init() {
	cliCtx = config.NewContext()

	// Add backup config flags to commands that need them
	esCmd := elasticsearch.Cmd(cliCtx)
	addBackupConfigFlags(esCmd)
	rootCmd.AddCommand(esCmd)

	// Add commands that don't need backup config flags
	rootCmd.AddCommand(version.Cmd())
}

var rootCmd = &cobra.Command{
	Use:   "essnap",
	Short: "Snapshot backup tool for Elasticsearch indices",
	Long:  `A CLI tool that backs up Elasticsearch indices into a snapshot repository, with time-rotated indice resolution and pre-snapshot maintenance.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
