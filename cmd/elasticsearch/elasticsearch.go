package elasticsearch

import (
	"fmt"

	"github.com/essnap/essnap/cmd/portforward"
	"github.com/essnap/essnap/internal/config"
	"github.com/essnap/essnap/internal/k8s"
	"github.com/essnap/essnap/internal/logger"
	"github.com/spf13/cobra"
)

func Cmd(cliCtx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elasticsearch",
		Short: "Elasticsearch snapshot operations",
	}

	cmd.AddCommand(createSnapshotCmd(cliCtx))
	cmd.AddCommand(listSnapshotsCmd(cliCtx))
	cmd.AddCommand(listIndicesCmd(cliCtx))

	return cmd
}

// session holds everything a command needs to talk to the cluster. In
// Kubernetes mode the backup connection settings are rewritten to point at
// the local port-forward tunnel; cleanup tears the tunnel down.
type session struct {
	cfg     *config.Config
	log     *logger.Logger
	cleanup func()
}

func newSession(cliCtx *config.Context) (*session, error) {
	log := logger.New(cliCtx.Config.Quiet, cliCtx.Config.Debug)

	switch {
	case cliCtx.Config.ConfigFile != "":
		cfg, err := config.LoadFile(cliCtx.Config.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return &session{cfg: cfg, log: log, cleanup: func() {}}, nil

	case cliCtx.Config.Namespace != "":
		k8sClient, err := k8s.NewClient(cliCtx.Config.Kubeconfig, cliCtx.Config.Debug)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
		}

		cfg, err := config.LoadCluster(k8sClient.Clientset(), cliCtx.Config.Namespace, cliCtx.Config.ConfigMapName, cliCtx.Config.SecretName)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}

		service := cfg.Elasticsearch.Service
		pf, err := portforward.SetupPortForward(k8sClient, cliCtx.Config.Namespace, service.Name, service.LocalPortForwardPort, service.Port, log)
		if err != nil {
			return nil, err
		}

		// Talk to the cluster through the tunnel
		cfg.Elasticsearch.Backup.Hosts = []string{fmt.Sprintf("localhost:%d", pf.LocalPort)}
		cfg.Elasticsearch.Backup.Scheme = "http"

		return &session{cfg: cfg, log: log, cleanup: func() { close(pf.StopChan) }}, nil
	}

	return nil, fmt.Errorf("either --config or --namespace must be set")
}
