// Package backup drives a snapshot-based backup of Elasticsearch indices:
// it resolves which indice to snapshot (including time-rotated naming and a
// strict completeness guard), runs the pre-snapshot maintenance sequence
// (flush, write-block, segment merge) and creates the snapshot through the
// cluster's snapshot API.
package backup

import "time"

// Rotation is the period encoded in a time-based indice name
type Rotation string

const (
	RotationDaily   Rotation = "daily"
	RotationWeekly  Rotation = "weekly"
	RotationMonthly Rotation = "monthly"
)

// IsValid reports whether the rotation is one of the supported periods
func (r Rotation) IsValid() bool {
	switch r {
	case RotationDaily, RotationWeekly, RotationMonthly:
		return true
	}
	return false
}

// IndiceAll is the sentinel indice name meaning "all indices". Outside
// time-based mode it maps to the cluster target "_all"; in time-based mode
// it acts as the literal name prefix like any other configured string.
const IndiceAll = "all"

// Defaults applied by WithDefaults for fields left unset
const (
	DefaultHost         = "localhost:9200"
	DefaultRepository   = "mybackup"
	DefaultTimeout      = 600
	DefaultAgo          = 1
	DefaultDateSplitter = "."
	DefaultScheme       = "http"

	// snapshotTimeLayout formats the generated default snapshot name suffix
	snapshotTimeLayout = "2006.01.02.15h04m05s"
)

// Config holds the user-supplied options for one backup run. Optional
// numeric and boolean fields are pointers so that an explicitly configured
// zero value can be told apart from an absent one.
type Config struct {
	// Connection
	Hosts       []string `yaml:"hosts"`
	Scheme      string   `yaml:"scheme"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	ValidateSSL *bool    `yaml:"validateSsl"`
	CACert      string   `yaml:"cacert"`
	Timeout     *int     `yaml:"timeout"`

	// Target
	Repository        string `yaml:"repository"`
	Indice            string `yaml:"indice"`
	Snapshot          string `yaml:"snapshot"`
	IgnoreUnavailable *bool  `yaml:"ignoreUnavailable"`

	// Time-based rotation
	TimeBased    Rotation `yaml:"timeBased"`
	DateSplitter string   `yaml:"dateSplitter"`
	Ago          *int     `yaml:"ago"`
	Strict       bool     `yaml:"strict"`

	// Pre-snapshot maintenance
	Flush          bool `yaml:"flush"`
	BlocksWrite    bool `yaml:"blocksWrite"`
	MaxNumSegments *int `yaml:"maxNumSegments"`
}

// WithDefaults returns a copy of the config with defaults filled in for
// unset fields. ValidateSSL defaults to true only for the https scheme.
func (c Config) WithDefaults() Config {
	if len(c.Hosts) == 0 {
		c.Hosts = []string{DefaultHost}
	}
	if c.Scheme == "" {
		c.Scheme = DefaultScheme
	}
	if c.Repository == "" {
		c.Repository = DefaultRepository
	}
	if c.Indice == "" {
		c.Indice = IndiceAll
	}
	if c.Timeout == nil {
		c.Timeout = intPtr(DefaultTimeout)
	}
	if c.DateSplitter == "" {
		c.DateSplitter = DefaultDateSplitter
	}
	if c.Ago == nil {
		c.Ago = intPtr(DefaultAgo)
	}
	if c.ValidateSSL == nil && c.Scheme == "https" {
		c.ValidateSSL = boolPtr(true)
	}
	return c
}

// validate checks the invariants of a defaulted config. It runs before any
// derived state is computed, so a bad config never reaches the network layer.
func (c Config) validate() error {
	if *c.Timeout < 1 {
		return &ConfigurationError{Option: "timeout", Constraint: "must be >= 1"}
	}
	if c.MaxNumSegments != nil && *c.MaxNumSegments < 1 {
		return &ConfigurationError{Option: "max_num_segments", Constraint: "must be >= 1"}
	}
	if *c.Ago < 1 {
		return &ConfigurationError{Option: "ago", Constraint: "must be >= 1"}
	}
	if c.TimeBased != "" && !c.TimeBased.IsValid() {
		return &ConfigurationError{Option: "time_based", Constraint: "must be one of daily, weekly or monthly"}
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return &ConfigurationError{Option: "scheme", Constraint: "must be http or https"}
	}
	return nil
}

// defaultSnapshotName generates the snapshot name used when none is
// configured, e.g. "snapshot2016.04.20.16h20m00s"
func defaultSnapshotName(now time.Time) string {
	return "snapshot" + now.Format(snapshotTimeLayout)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
