package backup

import (
	"fmt"
	"time"

	"github.com/essnap/essnap/internal/elasticsearch"
	"github.com/essnap/essnap/internal/logger"
)

// Clock supplies the reference instant for time-indice resolution and the
// generated snapshot name. Injectable so resolution stays deterministic in
// tests.
type Clock func() time.Time

// Runner executes one backup run: repository verification, indice existence
// checks, optional maintenance steps and the final snapshot creation. A
// Runner is built once per run and is not safe to share across concurrent
// Run calls.
type Runner struct {
	cfg      Config
	client   elasticsearch.Interface
	log      *logger.Logger
	clock    Clock
	target   Target
	plusOne  string
	snapshot string
}

// Option customizes a Runner
type Option func(*Runner)

// WithClient injects the cluster client, replacing the one built from the
// connection settings
func WithClient(client elasticsearch.Interface) Option {
	return func(r *Runner) {
		r.client = client
	}
}

// WithClock injects the reference instant source
func WithClock(clock Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithLogger injects the operational logger
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// NewClusterClient builds the Elasticsearch client from the connection
// fields of a backup config, after defaults are applied. TLS verification
// follows validateSsl; the configured cacert file, when set, is the trust
// anchor. No connection is opened here.
func NewClusterClient(cfg Config) (*elasticsearch.Client, error) {
	cfg = cfg.WithDefaults()
	return elasticsearch.NewClient(elasticsearch.Settings{
		Hosts:      cfg.Hosts,
		Scheme:     cfg.Scheme,
		Username:   cfg.Username,
		Password:   cfg.Password,
		VerifyTLS:  cfg.ValidateSSL != nil && *cfg.ValidateSSL,
		CACertPath: cfg.CACert,
		Timeout:    time.Duration(*cfg.Timeout) * time.Second,
	})
}

// New builds a Runner from a config. Defaults are merged and the config
// validated before any derived state is computed; the time indice (and the
// strict-mode plus-one name) and the snapshot name are resolved once, here,
// and never recomputed during Run.
func New(cfg Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:   cfg.WithDefaults(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.cfg.validate(); err != nil {
		return nil, err
	}

	if r.log == nil {
		r.log = logger.New(false, false)
	}

	now := r.clock()

	switch {
	case r.cfg.TimeBased != "":
		r.target = Indice(timeIndiceName(r.cfg.Indice, r.cfg.TimeBased, r.cfg.DateSplitter, *r.cfg.Ago, now))
		if r.cfg.Strict {
			r.plusOne = timeIndiceName(r.cfg.Indice, r.cfg.TimeBased, r.cfg.DateSplitter, *r.cfg.Ago-1, now)
		}
	case r.cfg.Indice == IndiceAll:
		r.target = AllIndices()
	default:
		r.target = Indice(r.cfg.Indice)
	}

	r.snapshot = r.cfg.Snapshot
	if r.snapshot == "" {
		r.snapshot = defaultSnapshotName(now)
	}

	if r.client == nil {
		client, err := NewClusterClient(r.cfg)
		if err != nil {
			return nil, err
		}
		r.client = client
	}

	return r, nil
}

// SnapshotName returns the name the snapshot is created under
func (r *Runner) SnapshotName() string {
	return r.snapshot
}

// Target returns the resolved snapshot target
func (r *Runner) Target() Target {
	return r.target
}

// Run performs the backup. Steps execute strictly in order and the first
// failure is terminal; completed maintenance steps (such as an applied
// write-block) are not rolled back on a later failure.
func (r *Runner) Run() error {
	r.log.Infof("Verifying snapshot repository '%s'...", r.cfg.Repository)
	if err := r.client.VerifyRepository(r.cfg.Repository); err != nil {
		return err
	}

	indice := r.target.Name()

	if r.plusOne != "" {
		r.log.Debugf("Checking completeness guard indice '%s'...", r.plusOne)
		exists, err := r.client.IndexExists(r.plusOne)
		if err != nil {
			return err
		}
		if !exists {
			return &PreconditionError{
				Message: fmt.Sprintf("indice plus one '%s' does not exist", r.plusOne),
			}
		}
	}

	exists, err := r.client.IndexExists(indice)
	if err != nil {
		return err
	}
	if !exists {
		return &PreconditionError{
			Message: fmt.Sprintf("indice '%s' does not exist", indice),
		}
	}

	if r.cfg.Flush {
		r.log.Infof("Flushing indice '%s'...", indice)
		shards, err := r.client.FlushIndex(indice)
		if err != nil {
			return err
		}
		if shards == nil || shards.Failed != 0 {
			return &MaintenanceError{
				Message: fmt.Sprintf("failed to flush indice '%s'", indice),
			}
		}
	}

	if r.cfg.BlocksWrite {
		r.log.Infof("Blocking writes on indice '%s'...", indice)
		acknowledged, err := r.client.UpdateIndexSettings(indice, map[string]interface{}{
			"index.blocks.write": true,
		})
		if err != nil {
			return err
		}
		if !acknowledged {
			return &MaintenanceError{
				Message: fmt.Sprintf("failed to update settings of indice '%s'", indice),
			}
		}
	}

	if r.cfg.MaxNumSegments != nil {
		r.log.Infof("Merging indice '%s' to %d segment(s)...", indice, *r.cfg.MaxNumSegments)
		shards, err := r.client.ForceMerge(indice, *r.cfg.MaxNumSegments)
		if err != nil {
			return err
		}
		if shards == nil || shards.Failed != 0 {
			return &MaintenanceError{
				Message: fmt.Sprintf("failed to merge indice '%s'", indice),
			}
		}
	}

	req := elasticsearch.SnapshotRequest{
		IgnoreUnavailable: r.cfg.IgnoreUnavailable != nil && *r.cfg.IgnoreUnavailable,
	}
	if !r.target.All() {
		req.Indices = indice
	}

	r.log.Infof("Creating snapshot '%s' of indice '%s' in repository '%s'...", r.snapshot, indice, r.cfg.Repository)
	result, err := r.client.CreateSnapshot(r.cfg.Repository, r.snapshot, req)
	if err != nil {
		return err
	}
	if result == nil || result.Snapshot == nil || result.Snapshot.State != "SUCCESS" {
		return &SnapshotError{Indice: indice}
	}

	r.log.Successf("Snapshot '%s' created successfully", r.snapshot)
	return nil
}
