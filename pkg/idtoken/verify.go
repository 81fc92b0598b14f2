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

// Package idtoken verifies and signs compact JWT identity assertions using
// the trust decisions in package crypt.
package idtoken

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sigstore/appidentity/pkg/crypt"
	"github.com/sigstore/appidentity/pkg/log"
)

const (
	// DefaultClockSkew is how far iat and exp may be off from the local clock.
	DefaultClockSkew = 300 * time.Second
	// DefaultAuthTokenLifetime is the lifetime of assertions built by
	// AssertionClaims.
	DefaultAuthTokenLifetime = 300 * time.Second
	// DefaultMaxTokenLifetime bounds how far in the future exp may be.
	DefaultMaxTokenLifetime = 86400 * time.Second
)

// Verifier checks compact JWTs issued by an identity provider.
type Verifier struct {
	Provider         crypt.Provider
	ClockSkew        time.Duration
	MaxTokenLifetime time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewVerifier returns a Verifier with the default time limits.
func NewVerifier(p crypt.Provider) *Verifier {
	return &Verifier{
		Provider:         p,
		ClockSkew:        DefaultClockSkew,
		MaxTokenLifetime: DefaultMaxTokenLifetime,
		Clock:            time.Now,
	}
}

// VerifySignedJWTWithCerts verifies token with the default time limits.
func VerifySignedJWTWithCerts(p crypt.Provider, token string, certs crypt.CertSet, audience string) (crypt.Payload, error) {
	return NewVerifier(p).Verify(token, certs, audience)
}

// Verify checks the signature of token against certs, the iat and exp
// claims against the clock and the aud claim against audience, and returns
// the decoded claims. Every rejection is a *crypt.AppIdentityError.
func (v *Verifier) Verify(token string, certs crypt.CertSet, audience string) (crypt.Payload, error) {
	payload, err := v.verify(token, certs, audience)
	if err != nil {
		metricVerifications.WithLabelValues(resultRejected).Inc()
		log.Logger.Debugw("rejected identity token", "error", err)
		return nil, err
	}
	metricVerifications.WithLabelValues(resultAccepted).Inc()
	return payload, nil
}

func (v *Verifier) verify(token string, certs crypt.CertSet, audience string) (crypt.Payload, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, rejectf("wrong number of segments in token: %d", len(segments))
	}

	signature, err := decodeSegment(segments[2])
	if err != nil {
		return nil, rejectf("malformed token signature: %v", err)
	}
	payloadBytes, err := decodeSegment(segments[1])
	if err != nil {
		return nil, rejectf("malformed token payload: %v", err)
	}
	payload, err := parsePayload(payloadBytes)
	if err != nil {
		return nil, rejectf("can't parse token payload: %v", err)
	}

	signed := []byte(segments[0] + "." + segments[1])
	if err := crypt.VerifySignature(v.Provider, signed, signature, certs); err != nil {
		return nil, err
	}
	if err := v.checkTimeRange(payload); err != nil {
		return nil, err
	}
	if err := crypt.CheckAudience(payload, audience); err != nil {
		return nil, err
	}
	return payload, nil
}

func (v *Verifier) checkTimeRange(payload crypt.Payload) error {
	iat, err := numericClaim(payload, "iat")
	if err != nil {
		return err
	}
	exp, err := numericClaim(payload, "exp")
	if err != nil {
		return err
	}

	clock := v.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock().Unix()
	skew := int64(v.ClockSkew / time.Second)
	maxLifetime := int64(v.MaxTokenLifetime / time.Second)

	if exp >= now+maxLifetime {
		return rejectf("exp field too far in future")
	}
	if earliest := iat - skew; now < earliest {
		return rejectf("token used too early, %d < %d", now, earliest)
	}
	if latest := exp + skew; now > latest {
		return rejectf("token used too late, %d > %d", now, latest)
	}
	return nil
}

func numericClaim(payload crypt.Payload, name string) (int64, error) {
	raw, ok := payload[name]
	if !ok {
		return 0, rejectf("no %s field in token", name)
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, rejectf("%s field is not a number", name)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, rejectf("%s field is not a number", name)
	}
	return int64(f), nil
}

func parsePayload(b []byte) (crypt.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var payload crypt.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	return payload, nil
}

// decodeSegment accepts base64url with or without padding.
func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}

func rejectf(format string, args ...interface{}) error {
	return &crypt.AppIdentityError{Reason: fmt.Sprintf(format, args...)}
}
