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

package provider

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"

	"github.com/sigstore/appidentity/pkg/crypt"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/signature"
)

type cacheKey struct {
	value      string
	isX509Cert bool
}

// NewVerifier parses value as a PEM or DER encoded certificate (isX509Cert)
// or public key. The certificate is used only as a carrier for its key; its
// validity period and issuer are not checked.
func (p *defaultProvider) NewVerifier(value []byte, isX509Cert bool) (crypt.Verifier, error) {
	key := cacheKey{value: string(value), isX509Cert: isX509Cert}
	if p.cache != nil {
		if v, ok := p.cache.Get(key); ok {
			return v.(crypt.Verifier), nil
		}
	}

	pub, err := parsePublicKey(value, isX509Cert)
	if err != nil {
		return nil, err
	}
	sv, err := signature.LoadVerifier(pub, p.hashFunc)
	if err != nil {
		return nil, err
	}

	v := sigstoreVerifier{sv}
	if p.cache != nil {
		p.cache.Add(key, v)
	}
	return v, nil
}

func parsePublicKey(value []byte, isX509Cert bool) (crypto.PublicKey, error) {
	isPEM := bytes.HasPrefix(bytes.TrimSpace(value), []byte("-----BEGIN"))

	if !isX509Cert {
		if isPEM {
			return cryptoutils.UnmarshalPEMToPublicKey(value)
		}
		return x509.ParsePKIXPublicKey(value)
	}

	if !isPEM {
		cert, err := x509.ParseCertificate(value)
		if err != nil {
			return nil, err
		}
		return cert.PublicKey, nil
	}

	block, _ := pem.Decode(value)
	if block == nil || block.Type != string(cryptoutils.CertificatePEMType) {
		return nil, errors.New("value is not a PEM encoded certificate")
	}
	certs, err := cryptoutils.UnmarshalCertificatesFromPEM(value)
	if err != nil {
		return nil, err
	}
	if len(certs) != 1 {
		return nil, errors.New("expected exactly one certificate")
	}
	return certs[0].PublicKey, nil
}

type sigstoreVerifier struct {
	signature.Verifier
}

func (v sigstoreVerifier) Verify(message, sig []byte) bool {
	return v.VerifySignature(bytes.NewReader(sig), bytes.NewReader(message)) == nil
}
