package elasticsearch

// Interface defines the contract for Elasticsearch client operations
// This interface allows for easy mocking in tests
type Interface interface {
	// Repository and snapshot operations
	VerifyRepository(repository string) error
	CreateSnapshot(repository, snapshot string, req SnapshotRequest) (*SnapshotResult, error)
	ListSnapshots(repository string) ([]Snapshot, error)
	GetSnapshot(repository, snapshotName string) (*Snapshot, error)

	// Index maintenance operations
	IndexExists(index string) (bool, error)
	FlushIndex(index string) (*ShardsResult, error)
	UpdateIndexSettings(index string, settings map[string]interface{}) (bool, error)
	ForceMerge(index string, maxNumSegments int) (*ShardsResult, error)

	// Index listing operations
	ListIndices(pattern string) ([]string, error)
	ListIndicesDetailed() ([]IndexInfo, error)
}

// Ensure *Client implements Interface
var _ Interface = (*Client)(nil)
