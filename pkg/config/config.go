// Copyright 2026 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sigstore/appidentity/pkg/crypt"
	"github.com/sigstore/appidentity/pkg/crypt/provider"
	"github.com/sigstore/appidentity/pkg/idtoken"
	"github.com/sigstore/appidentity/pkg/log"
	"gopkg.in/yaml.v3"
)

type AppIdentityConfig struct {
	// Provider names the crypt provider, see provider.Select.
	Provider string `yaml:"provider"`
	// Audience expected in verified tokens. Empty disables the check.
	Audience string `yaml:"audience"`
	// CertsPath points at the identity provider's published certificates,
	// a JSON object of key id to PEM certificate.
	CertsPath        string        `yaml:"certs-path"`
	ClockSkew        time.Duration `yaml:"clock-skew"`
	MaxTokenLifetime time.Duration `yaml:"max-token-lifetime"`
	// CacheSize is the number of parsed certificates kept by the provider.
	CacheSize int `yaml:"cache-size"`
}

var DefaultConfig = AppIdentityConfig{
	Provider:         provider.NameDefault,
	ClockSkew:        idtoken.DefaultClockSkew,
	MaxTokenLifetime: idtoken.DefaultMaxTokenLifetime,
	CacheSize:        64,
}

func ParseConfig(b []byte) (AppIdentityConfig, error) {
	cfg := DefaultConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return AppIdentityConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppIdentityConfig{}, err
	}
	return cfg, nil
}

func (c AppIdentityConfig) Validate() error {
	if c.ClockSkew < 0 {
		return errors.New("clock-skew must not be negative")
	}
	if c.MaxTokenLifetime <= 0 {
		return errors.New("max-token-lifetime must be positive")
	}
	if c.CacheSize < 0 {
		return errors.New("cache-size must not be negative")
	}
	return nil
}

// Load a config from disk, or use defaults
func Load(configPath string) (*AppIdentityConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Logger.Infof("No config at %s, using defaults: %+v", configPath, DefaultConfig)
		cfg := DefaultConfig
		return &cfg, nil
	}
	b, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	log.Logger.Infof("Loaded config %+v from %s", cfg, configPath)
	return &cfg, nil
}

// NewProvider resolves the configured crypt provider. It is meant to be
// called once at startup.
func (c AppIdentityConfig) NewProvider() (crypt.Provider, error) {
	return provider.Select(c.Provider, provider.WithCacheSize(c.CacheSize))
}

// NewVerifier returns a token verifier using p and the configured limits.
func (c AppIdentityConfig) NewVerifier(p crypt.Provider) *idtoken.Verifier {
	v := idtoken.NewVerifier(p)
	v.ClockSkew = c.ClockSkew
	v.MaxTokenLifetime = c.MaxTokenLifetime
	return v
}

// ParseCertSet decodes an identity provider's certificate document, a JSON
// object mapping key ids to PEM certificates.
func ParseCertSet(b []byte) (crypt.CertSet, error) {
	var certs map[string]string
	if err := json.Unmarshal(b, &certs); err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, errors.New("certificate document is empty")
	}
	return crypt.NewCertSet(certs), nil
}

func LoadCertSet(path string) (crypt.CertSet, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	certs, err := ParseCertSet(b)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return certs, nil
}
