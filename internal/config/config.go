// Package config provides configuration management for the backup CLI tool.
// Configuration is loaded either from a local YAML file or from a Kubernetes
// ConfigMap and Secret pair, with a merge strategy that allows the ConfigMap
// to be overridden by the Secret (credentials live in the Secret).
package config

import (
	"context"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/essnap/essnap/internal/backup"
)

// Config represents the merged configuration
type Config struct {
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch" validate:"required"`
}

// ElasticsearchConfig holds Elasticsearch-specific configuration
type ElasticsearchConfig struct {
	// Service describes the in-cluster Elasticsearch service; only needed
	// when connecting through a Kubernetes port-forward
	Service ServiceConfig `yaml:"service"`
	// Backup holds the snapshot backup options
	Backup backup.Config `yaml:"backup"`
}

// ServiceConfig holds service connection details for the port-forward mode
type ServiceConfig struct {
	Name                 string `yaml:"name"`
	Port                 int    `yaml:"port" validate:"omitempty,min=1,max=65535"`
	LocalPortForwardPort int    `yaml:"localPortForwardPort" validate:"omitempty,min=1,max=65535"`
}

// LoadFile loads configuration from a local YAML file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadCluster loads and merges configuration from a ConfigMap and a Secret.
// The ConfigMap provides base configuration, the Secret overrides it; both
// carry the YAML document under the "config" key.
func LoadCluster(clientset kubernetes.Interface, namespace, configMapName, secretName string) (*Config, error) {
	ctx := context.Background()
	config := &Config{}

	if configMapName != "" {
		cm, err := clientset.CoreV1().ConfigMaps(namespace).Get(ctx, configMapName, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get ConfigMap '%s': %w", configMapName, err)
		}

		configData, ok := cm.Data["config"]
		if !ok {
			return nil, fmt.Errorf("ConfigMap '%s' does not contain 'config' key", configMapName)
		}
		if err := yaml.Unmarshal([]byte(configData), config); err != nil {
			return nil, fmt.Errorf("failed to parse ConfigMap config: %w", err)
		}
	}

	if secretName != "" {
		secret, err := clientset.CoreV1().Secrets(namespace).Get(ctx, secretName, metav1.GetOptions{})
		if err != nil {
			// Secret is optional - only used for overrides
			fmt.Fprintf(os.Stderr, "Warning: Secret '%s' not found, using ConfigMap only\n", secretName)
		} else if configData, ok := secret.Data["config"]; ok {
			var secretConfig Config
			if err := yaml.Unmarshal(configData, &secretConfig); err != nil {
				return nil, fmt.Errorf("failed to parse Secret config: %w", err)
			}
			// Merge Secret config into base config (non-zero values override)
			if err := mergo.Merge(config, secretConfig, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("failed to merge Secret config: %w", err)
			}
		}
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Context carries the CLI-level configuration through command construction
type Context struct {
	Config *CLIConfig
}

// CLIConfig holds the flag-provided settings shared by all commands
type CLIConfig struct {
	ConfigFile    string
	Namespace     string
	Kubeconfig    string
	Debug         bool
	Quiet         bool
	ConfigMapName string
	SecretName    string
	OutputFormat  string // table, json, yaml
}

func NewContext() *Context {
	return &Context{
		Config: &CLIConfig{},
	}
}
