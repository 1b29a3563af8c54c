// Package elasticsearch wraps the official Elasticsearch client with the
// operations the backup tool needs: repository verification, indice
// maintenance (flush, settings, force-merge) and snapshot management.
package elasticsearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Settings parameterizes the wrapped client. No network I/O happens at
// construction; connectivity is validated lazily on the first call.
type Settings struct {
	// Hosts is the list of host:port pairs to connect to
	Hosts []string
	// Scheme is either "http" or "https"
	Scheme string
	// Username and Password enable HTTP basic auth when Username is set
	Username string
	Password string
	// VerifyTLS controls server certificate verification (https only)
	VerifyTLS bool
	// CACertPath optionally points at a PEM file used as the trust anchor
	// when verification is enabled
	CACertPath string
	// Timeout bounds every individual request
	Timeout time.Duration
}

// Client represents an Elasticsearch client
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

// ShardsResult reports per-shard success counts of a cluster operation
type ShardsResult struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// SnapshotRequest is the body of a snapshot create call. IgnoreUnavailable
// is always sent; Indices is omitted when the snapshot covers everything.
type SnapshotRequest struct {
	IgnoreUnavailable bool   `json:"ignore_unavailable"`
	Indices           string `json:"indices,omitempty"`
}

// SnapshotResult is the response of a snapshot create call. Snapshot is nil
// when the cluster did not report snapshot details.
type SnapshotResult struct {
	Snapshot *Snapshot `json:"snapshot"`
	Accepted bool      `json:"accepted"`
}

// Snapshot represents an Elasticsearch snapshot
type Snapshot struct {
	Snapshot         string       `json:"snapshot"`
	UUID             string       `json:"uuid"`
	Repository       string       `json:"repository"`
	State            string       `json:"state"`
	StartTime        string       `json:"start_time"`
	StartTimeMillis  int64        `json:"start_time_in_millis"`
	EndTime          string       `json:"end_time"`
	EndTimeMillis    int64        `json:"end_time_in_millis"`
	DurationInMillis int64        `json:"duration_in_millis"`
	Indices          []string     `json:"indices"`
	Failures         []string     `json:"failures"`
	Shards           ShardsResult `json:"shards"`
}

// SnapshotsResponse represents the response from the snapshots API
type SnapshotsResponse struct {
	Snapshots []Snapshot `json:"snapshots"`
	Total     int        `json:"total"`
	Remaining int        `json:"remaining"`
}

// IndexInfo represents detailed information about an Elasticsearch index
type IndexInfo struct {
	Health       string `json:"health"`
	Status       string `json:"status"`
	Index        string `json:"index"`
	UUID         string `json:"uuid"`
	Pri          string `json:"pri"`
	Rep          string `json:"rep"`
	DocsCount    string `json:"docs.count"`
	DocsDeleted  string `json:"docs.deleted"`
	StoreSize    string `json:"store.size"`
	PriStoreSize string `json:"pri.store.size"`
	DatasetSize  string `json:"dataset.size"`
}

// NewClient creates a new Elasticsearch client from connection settings
func NewClient(s Settings) (*Client, error) {
	addresses := make([]string, len(s.Hosts))
	for i, host := range s.Hosts {
		addresses[i] = fmt.Sprintf("%s://%s", s.Scheme, host)
	}

	cfg := elasticsearch.Config{
		Addresses:     addresses,
		Username:      s.Username,
		Password:      s.Password,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
	}

	if s.Scheme == "https" {
		switch {
		case !s.VerifyTLS:
			cfg.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			}
		case s.CACertPath != "":
			cert, err := os.ReadFile(s.CACertPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			cfg.CACert = cert
		}
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Client{
		es:      es,
		timeout: s.Timeout,
	}, nil
}

// requestContext returns the context bounding a single cluster call
func (c *Client) requestContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(context.Background(), c.timeout)
	}
	return context.Background(), func() {}
}

// VerifyRepository checks that a snapshot repository exists and that all
// cluster nodes can access its storage
func (c *Client) VerifyRepository(repository string) error {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Snapshot.VerifyRepository(
		repository,
		c.es.Snapshot.VerifyRepository.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to verify repository: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	return nil
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(index string) (bool, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Indices.Exists(
		[]string{index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if res.IsError() {
		return false, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	return true, nil
}

// FlushIndex flushes an index to disk and returns the per-shard result.
// The result is nil when the response carries no shard counts.
func (c *Client) FlushIndex(index string) (*ShardsResult, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Indices.Flush(
		c.es.Indices.Flush.WithContext(ctx),
		c.es.Indices.Flush.WithIndex(index),
		c.es.Indices.Flush.WithWaitIfOngoing(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to flush index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var flushResp struct {
		Shards *ShardsResult `json:"_shards"`
	}
	if err := json.NewDecoder(res.Body).Decode(&flushResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return flushResp.Shards, nil
}

// UpdateIndexSettings updates dynamic settings of an index and reports
// whether the cluster acknowledged the change
func (c *Client) UpdateIndexSettings(index string, settings map[string]interface{}) (bool, error) {
	bodyJSON, err := json.Marshal(settings)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request body: %w", err)
	}

	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Indices.PutSettings(
		strings.NewReader(string(bodyJSON)),
		c.es.Indices.PutSettings.WithContext(ctx),
		c.es.Indices.PutSettings.WithIndex(index),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update index settings: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var ackResp struct {
		Acknowledged bool `json:"acknowledged"`
	}
	if err := json.NewDecoder(res.Body).Decode(&ackResp); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return ackResp.Acknowledged, nil
}

// ForceMerge merges the segments of an index down to maxNumSegments and
// returns the per-shard result, nil when the response carries no counts
func (c *Client) ForceMerge(index string, maxNumSegments int) (*ShardsResult, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Indices.Forcemerge(
		c.es.Indices.Forcemerge.WithContext(ctx),
		c.es.Indices.Forcemerge.WithIndex(index),
		c.es.Indices.Forcemerge.WithMaxNumSegments(maxNumSegments),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to merge segments: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var mergeResp struct {
		Shards *ShardsResult `json:"_shards"`
	}
	if err := json.NewDecoder(res.Body).Decode(&mergeResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return mergeResp.Shards, nil
}

// CreateSnapshot creates a snapshot in a repository and waits for it to
// complete. The returned result carries the final snapshot state.
func (c *Client) CreateSnapshot(repository, snapshot string, req SnapshotRequest) (*SnapshotResult, error) {
	bodyJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Snapshot.Create(
		repository,
		snapshot,
		c.es.Snapshot.Create.WithContext(ctx),
		c.es.Snapshot.Create.WithBody(strings.NewReader(string(bodyJSON))),
		c.es.Snapshot.Create.WithWaitForCompletion(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var result SnapshotResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// ListSnapshots retrieves all snapshots from a repository
func (c *Client) ListSnapshots(repository string) ([]Snapshot, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Snapshot.Get(
		repository,
		[]string{"_all"},
		c.es.Snapshot.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var snapshotsResp SnapshotsResponse
	if err := json.NewDecoder(res.Body).Decode(&snapshotsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return snapshotsResp.Snapshots, nil
}

// GetSnapshot retrieves details of a specific snapshot including its indices
func (c *Client) GetSnapshot(repository, snapshotName string) (*Snapshot, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Snapshot.Get(
		repository,
		[]string{snapshotName},
		c.es.Snapshot.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var snapshotsResp SnapshotsResponse
	if err := json.NewDecoder(res.Body).Decode(&snapshotsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(snapshotsResp.Snapshots) == 0 {
		return nil, fmt.Errorf("snapshot %s not found", snapshotName)
	}

	return &snapshotsResp.Snapshots[0], nil
}

// ListIndices retrieves the names of all indices matching a pattern
func (c *Client) ListIndices(pattern string) ([]string, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Cat.Indices(
		c.es.Cat.Indices.WithContext(ctx),
		c.es.Cat.Indices.WithIndex(pattern),
		c.es.Cat.Indices.WithH("index"),
		c.es.Cat.Indices.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var indices []struct {
		Index string `json:"index"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := make([]string, len(indices))
	for i, idx := range indices {
		result[i] = idx.Index
	}

	return result, nil
}

// ListIndicesDetailed retrieves detailed information about all indices
func (c *Client) ListIndicesDetailed() ([]IndexInfo, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	res, err := c.es.Cat.Indices(
		c.es.Cat.Indices.WithContext(ctx),
		c.es.Cat.Indices.WithH("health,status,index,uuid,pri,rep,docs.count,docs.deleted,store.size,pri.store.size,dataset.size"),
		c.es.Cat.Indices.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	var indices []IndexInfo
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return indices, nil
}
