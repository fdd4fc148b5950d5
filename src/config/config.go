// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	x509ext "github.com/slcs/org.glite.slcs.common/src/internal/x509/extension"
	x509provider "github.com/slcs/org.glite.slcs.common/src/internal/x509/provider"
)

const (
	// EnvConfigFile names the configuration file when no path is given.
	EnvConfigFile = "SLCS_CONFIG_FILE"
	// EnvTrustStorePassword overrides the configured trust store password.
	EnvTrustStorePassword = "SLCS_TRUSTSTORE_PASSWORD"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config is the client configuration.
//
// It is loaded from a JSON or YAML file named by the caller or by the
// SLCS_CONFIG_FILE environment variable, with defaults applied for any
// missing values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Key: private key generation and storage
	Key struct {
		// Bits: RSA modulus size for new keys
		Bits int `json:"bits" yaml:"bits"`
		// MinBits: smallest modulus accepted from the command line
		MinBits int `json:"minBits" yaml:"minBits"`
		// Cipher: PEM cipher for password protected keys (e.g. AES-256-CBC)
		Cipher string `json:"cipher" yaml:"cipher"`
	} `json:"key" yaml:"key"`

	// Request: certificate request construction
	Request struct {
		// SignatureAlgorithm: algorithm that signs new requests (e.g. SHA256-RSA)
		SignatureAlgorithm string `json:"signatureAlgorithm" yaml:"signatureAlgorithm"`
		// Extensions: extensions added to every request
		Extensions []x509ext.Definition `json:"extensions,omitempty" yaml:"extensions,omitempty"`
		// FoldAccents: replace accented subject characters with ASCII
		FoldAccents bool `json:"foldAccents,omitempty" yaml:"foldAccents,omitempty"`
	} `json:"request" yaml:"request"`

	// Trust: locally trusted issuers for the SLCS server connection
	Trust struct {
		// Store: path of the trust store, empty for none
		Store string `json:"store,omitempty" yaml:"store,omitempty"`
		// Type: pem, jks or pkcs12, detected from the file extension when empty
		Type string `json:"type,omitempty" yaml:"type,omitempty"`
		// Password: trust store password (can also be set via SLCS_TRUSTSTORE_PASSWORD)
		Password string `json:"password,omitempty" yaml:"password,omitempty"`
	} `json:"trust" yaml:"trust"`
}

// Default returns a configuration holding only default values.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Key.Bits <= 0 {
		c.Key.Bits = x509provider.DefaultKeyBits
	}
	if c.Key.MinBits <= 0 {
		c.Key.MinBits = x509provider.DefaultMinKeyBits
	}
	if c.Key.Cipher == "" {
		c.Key.Cipher = "AES-256-CBC"
	}
	if c.Request.SignatureAlgorithm == "" {
		c.Request.SignatureAlgorithm = "SHA256-RSA"
	}
}

// detectConfigFormat determines the configuration file format based on file extension.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// Load loads the configuration from a JSON or YAML file or applies defaults.
//
// Configuration Priority:
//  1. SLCS_CONFIG_FILE environment variable is checked if configPath is empty
//  2. Config file values override defaults (if a path is known)
//  3. Missing or invalid values are reset to defaults
//  4. SLCS_TRUSTSTORE_PASSWORD overrides the trust store password when set
func Load(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
			return nil, err
		}
	}

	config.applyDefaults()

	if password := os.Getenv(EnvTrustStorePassword); password != "" {
		config.Trust.Password = password
	}

	return config, nil
}

// Provider builds the algorithm registry described by the configuration.
func (c *Config) Provider() (*x509provider.Provider, error) {
	sigAlg, err := x509provider.ParseSignatureAlgorithm(c.Request.SignatureAlgorithm)
	if err != nil {
		return nil, err
	}
	cipher, err := x509provider.ParsePEMCipher(c.Key.Cipher)
	if err != nil {
		return nil, err
	}

	p := x509provider.Default()
	p.KeyBits = c.Key.Bits
	p.MinKeyBits = c.Key.MinBits
	p.SignatureAlgorithm = sigAlg
	p.PEMCipher = cipher

	if _, err := p.ResolveKeyBits(0); err != nil {
		return nil, err
	}
	return p, nil
}
