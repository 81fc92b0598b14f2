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

// Package crypt holds the trust decisions for identity assertions: checking
// a signature against the certificates an identity provider currently
// publishes, checking the audience claim, and turning PKCS#12 service
// account keys into PEM for signing.
//
// Every function here is stateless. Certificates passed in are assumed to
// come from an authenticated channel; no chain is built or validated.
package crypt

import "github.com/sigstore/appidentity/pkg/log"

// DefaultPassphrase is the passphrase identity providers use for the PKCS#12
// service account keys they hand out.
const DefaultPassphrase = "notasecret"

// AudienceClaim is the payload key checked by CheckAudience.
const AudienceClaim = "aud"

// Payload is a decoded set of token claims.
type Payload map[string]interface{}

// Verifier checks a signature with one certificate or public key.
type Verifier interface {
	Verify(message, signature []byte) bool
}

// Provider is the cryptographic backend the trust decisions are made with.
type Provider interface {
	// PKCS12KeyAsPEM decodes a PKCS#12 container and returns its private
	// key as unencrypted PEM.
	PKCS12KeyAsPEM(key, passphrase []byte) ([]byte, error)

	// NewVerifier builds a Verifier from value. When isX509Cert is set
	// value is an X.509 certificate, otherwise a public key.
	NewVerifier(value []byte, isX509Cert bool) (Verifier, error)
}

// Passphrase is either textual or raw passphrase material.
type Passphrase interface {
	~string | ~[]byte
}

// PKCS12KeyAsPEM converts a PKCS#12 private key into PEM. Text passphrases
// are taken as UTF-8. Decoding errors come straight from the provider.
func PKCS12KeyAsPEM[P Passphrase](p Provider, key []byte, passphrase P) ([]byte, error) {
	return p.PKCS12KeyAsPEM(key, []byte(passphrase))
}

// VerifySignature checks signature over message against each certificate in
// certs, in order, and returns nil as soon as one of them matches. A
// certificate that cannot be parsed is skipped. If nothing matches,
// including when certs is empty, an *AppIdentityError is returned.
func VerifySignature(p Provider, message, signature []byte, certs CertSet) error {
	for _, c := range certs {
		v, err := p.NewVerifier(c.Value, true)
		if err != nil {
			log.Logger.Debugw("skipping certificate that could not be loaded", "kid", c.KeyID, "error", err)
			continue
		}
		if v.Verify(message, signature) {
			return nil
		}
	}
	return appIdentityErrorf("invalid token signature")
}

// CheckAudience requires the aud claim of payload to be exactly audience.
// An empty audience disables the check.
func CheckAudience(payload Payload, audience string) error {
	if audience == "" {
		return nil
	}

	aud, ok := payload[AudienceClaim]
	if !ok {
		return appIdentityErrorf("no %s field in token", AudienceClaim)
	}
	if s, isString := aud.(string); !isString || s != audience {
		return appIdentityErrorf("wrong recipient, %v != %s", aud, audience)
	}
	return nil
}
