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

package idtoken

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/sigstore/appidentity/pkg/crypt"
	"go.step.sm/crypto/pemutil"
	jose "gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

// Signer produces RS256 compact JWTs, such as the assertions a service
// account presents to a token endpoint.
type Signer struct {
	signer jose.Signer
	keyID  string
}

// NewSignerFromPEM builds a Signer from an unencrypted PEM private key, for
// example the output of crypt.PKCS12KeyAsPEM. A non-empty keyID is written
// to the kid header.
func NewSignerFromPEM(keyPEM []byte, keyID string) (*Signer, error) {
	key, err := pemutil.ParseKey(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing signing key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("only RSA keys can sign RS256 assertions")
	}

	opts := (&jose.SignerOptions{}).WithType("JWT")
	if keyID != "" {
		opts = opts.WithHeader("kid", keyID)
	}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: rsaKey}, opts)
	if err != nil {
		return nil, err
	}
	return &Signer{signer: signer, keyID: keyID}, nil
}

// KeyID returns the kid written into signed tokens.
func (s *Signer) KeyID() string {
	return s.keyID
}

// Sign serializes payload and signs it.
func (s *Signer) Sign(payload crypt.Payload) (string, error) {
	token, err := jwt.Signed(s.signer).Claims(map[string]interface{}(payload)).CompactSerialize()
	if err != nil {
		return "", err
	}
	metricAssertionsSigned.Inc()
	return token, nil
}

// AssertionClaims returns the iss, aud, iat and exp claims of an assertion
// issued at now and valid for lifetime.
func AssertionClaims(issuer, audience string, now time.Time, lifetime time.Duration) crypt.Payload {
	iat := now.Unix()
	return crypt.Payload{
		"iss": issuer,
		"aud": audience,
		"iat": iat,
		"exp": iat + int64(lifetime/time.Second),
	}
}
