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

// Package provider contains the crypt.Provider implementations. Pick one
// with Select at startup and pass it around; providers are immutable.
package provider

import (
	"crypto"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sigstore/appidentity/pkg/crypt"
)

const (
	// NameDefault selects the full provider.
	NameDefault = "default"
	// NameNoPKCS12 selects a provider that verifies signatures but cannot
	// convert PKCS#12 keys.
	NameNoPKCS12 = "no-pkcs12"
)

type options struct {
	hashFunc  crypto.Hash
	cacheSize int
}

// Option configures the default provider.
type Option func(*options)

// WithHashFunc sets the digest used when verifying signatures. The default
// is SHA-256, as used by RS256 tokens.
func WithHashFunc(h crypto.Hash) Option {
	return func(o *options) {
		o.hashFunc = h
	}
}

// WithCacheSize keeps up to size parsed verifiers in an LRU keyed by the
// certificate value. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

type defaultProvider struct {
	hashFunc crypto.Hash
	cache    *lru.Cache
}

// Default returns the provider backed by x/crypto/pkcs12, step's pemutil and
// sigstore's signature verifiers.
func Default(opts ...Option) (crypt.Provider, error) {
	o := options{hashFunc: crypto.SHA256}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hashFunc.Available() {
		return nil, fmt.Errorf("hash function %v is not available", o.hashFunc)
	}

	p := &defaultProvider{hashFunc: o.hashFunc}
	if o.cacheSize > 0 {
		cache, err := lru.New(o.cacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

type noPKCS12 struct {
	crypt.Provider
}

// NoPKCS12 wraps base so that PKCS#12 conversion always fails with
// crypt.UnsupportedOperationError. Signature verification is delegated.
func NoPKCS12(base crypt.Provider) crypt.Provider {
	return noPKCS12{Provider: base}
}

func (noPKCS12) PKCS12KeyAsPEM(key, passphrase []byte) ([]byte, error) {
	return BadPKCS12KeyAsPEM(key, passphrase)
}

// BadPKCS12KeyAsPEM is the PKCS#12 conversion used when no backend supports
// the format. It never looks at its arguments.
func BadPKCS12KeyAsPEM(_, _ []byte) ([]byte, error) {
	return nil, &crypt.UnsupportedOperationError{Op: "pkcs12 key conversion"}
}

// Select resolves a provider by name.
func Select(name string, opts ...Option) (crypt.Provider, error) {
	switch name {
	case NameDefault, "":
		return Default(opts...)
	case NameNoPKCS12:
		base, err := Default(opts...)
		if err != nil {
			return nil, err
		}
		return NoPKCS12(base), nil
	default:
		return nil, fmt.Errorf("unknown crypto provider %q", name)
	}
}
