package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const invalidConfigYAML = `
elasticsearch:
  service:
    name: elasticsearch-master
    port: 999999
`

// loadTestData loads test configuration from testdata files
func loadTestData(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err, "failed to read test data file: %s", filename)
	return string(data)
}

func TestLoadFile(t *testing.T) {
	config, err := LoadFile(filepath.Join("testdata", "validFileConfig.yaml"))
	require.NoError(t, err)

	backupCfg := config.Elasticsearch.Backup
	assert.Equal(t, []string{"es1.example.com:9200", "es2.example.com:9200"}, backupCfg.Hosts)
	assert.Equal(t, "https", backupCfg.Scheme)
	require.NotNil(t, backupCfg.ValidateSSL)
	assert.False(t, *backupCfg.ValidateSSL)
	assert.Equal(t, "offsite", backupCfg.Repository)
	assert.Equal(t, "all", backupCfg.Indice)
	assert.Equal(t, "weekly", string(backupCfg.TimeBased))
	require.NotNil(t, backupCfg.Ago)
	assert.Equal(t, 2, *backupCfg.Ago)
	assert.Equal(t, "backup", backupCfg.Username)
	assert.Equal(t, "hunter2", backupCfg.Password)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elasticsearch: ["), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadCluster_FromConfigMapOnly(t *testing.T) {
	fakeClient := fake.NewSimpleClientset()
	validConfigYAML := loadTestData(t, "validConfigMapOnly.yaml")

	// Create ConfigMap
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backup-config",
			Namespace: "test-ns",
		},
		Data: map[string]string{
			"config": validConfigYAML,
		},
	}
	_, err := fakeClient.CoreV1().ConfigMaps("test-ns").Create(
		context.Background(), cm, metav1.CreateOptions{},
	)
	require.NoError(t, err)

	// Load config
	config, err := LoadCluster(fakeClient, "test-ns", "backup-config", "")

	// Assertions
	require.NoError(t, err)
	assert.NotNil(t, config)
	assert.Equal(t, "elasticsearch-master", config.Elasticsearch.Service.Name)
	assert.Equal(t, 9200, config.Elasticsearch.Service.Port)
	assert.Equal(t, "nightly-backup", config.Elasticsearch.Backup.Repository)
	assert.Equal(t, "configmap-user", config.Elasticsearch.Backup.Username)
	assert.Equal(t, "configmap-pass", config.Elasticsearch.Backup.Password)
	require.NotNil(t, config.Elasticsearch.Backup.Timeout)
	assert.Equal(t, 900, *config.Elasticsearch.Backup.Timeout)
}

func TestLoadCluster_SecretOverridesConfigMap(t *testing.T) {
	fakeClient := fake.NewSimpleClientset()
	validConfigYAML := loadTestData(t, "validConfigMapConfig.yaml")
	secretOverrideYAML := loadTestData(t, "validSecretConfig.yaml")

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backup-config",
			Namespace: "test-ns",
		},
		Data: map[string]string{
			"config": validConfigYAML,
		},
	}
	_, err := fakeClient.CoreV1().ConfigMaps("test-ns").Create(
		context.Background(), cm, metav1.CreateOptions{},
	)
	require.NoError(t, err)

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backup-secret",
			Namespace: "test-ns",
		},
		Data: map[string][]byte{
			"config": []byte(secretOverrideYAML),
		},
	}
	_, err = fakeClient.CoreV1().Secrets("test-ns").Create(
		context.Background(), secret, metav1.CreateOptions{},
	)
	require.NoError(t, err)

	config, err := LoadCluster(fakeClient, "test-ns", "backup-config", "backup-secret")
	require.NoError(t, err)

	// Credentials come from the Secret, the rest from the ConfigMap
	assert.Equal(t, "secret-user", config.Elasticsearch.Backup.Username)
	assert.Equal(t, "secret-pass", config.Elasticsearch.Backup.Password)
	assert.Equal(t, "nightly-backup", config.Elasticsearch.Backup.Repository)
	assert.Equal(t, "https", config.Elasticsearch.Backup.Scheme)
	assert.Equal(t, "/etc/ssl/es/ca.pem", config.Elasticsearch.Backup.CACert)
}

func TestLoadCluster_MissingConfigMap(t *testing.T) {
	fakeClient := fake.NewSimpleClientset()

	_, err := LoadCluster(fakeClient, "test-ns", "missing-config", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get ConfigMap")
}

func TestLoadCluster_ConfigMapWithoutConfigKey(t *testing.T) {
	fakeClient := fake.NewSimpleClientset()

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backup-config",
			Namespace: "test-ns",
		},
		Data: map[string]string{
			"other": "value",
		},
	}
	_, err := fakeClient.CoreV1().ConfigMaps("test-ns").Create(
		context.Background(), cm, metav1.CreateOptions{},
	)
	require.NoError(t, err)

	_, err = LoadCluster(fakeClient, "test-ns", "backup-config", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not contain 'config' key")
}

func TestLoadCluster_MissingSecretFallsBackToConfigMap(t *testing.T) {
	fakeClient := fake.NewSimpleClientset()
	validConfigYAML := loadTestData(t, "validConfigMapOnly.yaml")

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backup-config",
			Namespace: "test-ns",
		},
		Data: map[string]string{
			"config": validConfigYAML,
		},
	}
	_, err := fakeClient.CoreV1().ConfigMaps("test-ns").Create(
		context.Background(), cm, metav1.CreateOptions{},
	)
	require.NoError(t, err)

	config, err := LoadCluster(fakeClient, "test-ns", "backup-config", "missing-secret")
	require.NoError(t, err)
	assert.Equal(t, "configmap-user", config.Elasticsearch.Backup.Username)
}

func TestLoadCluster_InvalidConfiguration(t *testing.T) {
	fakeClient := fake.NewSimpleClientset()

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "backup-config",
			Namespace: "test-ns",
		},
		Data: map[string]string{
			"config": invalidConfigYAML,
		},
	}
	_, err := fakeClient.CoreV1().ConfigMaps("test-ns").Create(
		context.Background(), cm, metav1.CreateOptions{},
	)
	require.NoError(t, err)

	_, err = LoadCluster(fakeClient, "test-ns", "backup-config", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestNewContext(t *testing.T) {
	ctx := NewContext()
	require.NotNil(t, ctx)
	require.NotNil(t, ctx.Config)
	assert.Empty(t, ctx.Config.Namespace)
	assert.Empty(t, ctx.Config.ConfigFile)
}
