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

package crypt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type newVerifierCall struct {
	Value      string
	IsX509Cert bool
}

type verifyCall struct {
	Message   string
	Signature string
}

// fakeProvider answers Verify from results, one entry per call. Values in
// broken fail NewVerifier.
type fakeProvider struct {
	results []bool
	broken  map[string]bool

	newVerifierCalls []newVerifierCall
	verifyCalls      []verifyCall

	pkcs12Passphrases [][]byte
}

func (f *fakeProvider) PKCS12KeyAsPEM(key, passphrase []byte) ([]byte, error) {
	f.pkcs12Passphrases = append(f.pkcs12Passphrases, passphrase)
	if string(key) == "NOT_A_KEY" {
		return nil, errMalformed
	}
	return []byte("PEM:" + string(key)), nil
}

func (f *fakeProvider) NewVerifier(value []byte, isX509Cert bool) (Verifier, error) {
	f.newVerifierCalls = append(f.newVerifierCalls, newVerifierCall{Value: string(value), IsX509Cert: isX509Cert})
	if f.broken[string(value)] {
		return nil, errors.New("malformed certificate")
	}
	return fakeVerifier{f}, nil
}

type fakeVerifier struct {
	f *fakeProvider
}

func (v fakeVerifier) Verify(message, signature []byte) bool {
	v.f.verifyCalls = append(v.f.verifyCalls, verifyCall{Message: string(message), Signature: string(signature)})
	i := len(v.f.verifyCalls) - 1
	if i >= len(v.f.results) {
		return false
	}
	return v.f.results[i]
}

var errMalformed = errors.New("pkcs12: error reading P12 data")

func TestVerifySignatureSingleCert(t *testing.T) {
	p := &fakeProvider{results: []bool{true}}
	certs := CertSet{}.Add(NoKeyID, []byte("cert-value"))

	if err := VerifySignature(p, []byte("message"), []byte("signature"), certs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNew := []newVerifierCall{{Value: "cert-value", IsX509Cert: true}}
	if d := cmp.Diff(wantNew, p.newVerifierCalls); d != "" {
		t.Errorf("NewVerifier calls (-want +got):\n%s", d)
	}
	wantVerify := []verifyCall{{Message: "message", Signature: "signature"}}
	if d := cmp.Diff(wantVerify, p.verifyCalls); d != "" {
		t.Errorf("Verify calls (-want +got):\n%s", d)
	}
}

func TestVerifySignatureMultipleCerts(t *testing.T) {
	tests := []struct {
		name        string
		results     []bool
		wantErr     bool
		wantAttempt int
	}{
		{name: "third matches", results: []bool{false, false, true}, wantAttempt: 3},
		{name: "first matches", results: []bool{true, true, true}, wantAttempt: 1},
		{name: "second matches", results: []bool{false, true, false}, wantAttempt: 2},
		{name: "none match", results: []bool{false, false, false}, wantErr: true, wantAttempt: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakeProvider{results: tc.results}
			certs := CertSet{}.
				Add("kid1", []byte("cert-value1")).
				Add("kid2", []byte("cert-value2")).
				Add("kid3", []byte("cert-value3"))

			err := VerifySignature(p, []byte("message"), []byte("signature"), certs)
			if (err != nil) != tc.wantErr {
				t.Fatalf("VerifySignature() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !IsAppIdentityError(err) {
				t.Errorf("expected AppIdentityError, got %T", err)
			}
			if len(p.verifyCalls) != tc.wantAttempt {
				t.Errorf("got %d verify attempts, want %d", len(p.verifyCalls), tc.wantAttempt)
			}

			var wantNew []newVerifierCall
			for _, c := range certs[:tc.wantAttempt] {
				wantNew = append(wantNew, newVerifierCall{Value: string(c.Value), IsX509Cert: true})
			}
			if d := cmp.Diff(wantNew, p.newVerifierCalls); d != "" {
				t.Errorf("NewVerifier calls (-want +got):\n%s", d)
			}
		})
	}
}

func TestVerifySignatureFailure(t *testing.T) {
	p := &fakeProvider{results: []bool{false}}
	certs := CertSet{}.Add(NoKeyID, []byte("cert-value"))

	err := VerifySignature(p, []byte("message"), []byte("signature"), certs)
	if !IsAppIdentityError(err) {
		t.Fatalf("expected AppIdentityError, got %v", err)
	}
	if len(p.newVerifierCalls) != 1 || len(p.verifyCalls) != 1 {
		t.Errorf("expected exactly one attempt, got %d/%d", len(p.newVerifierCalls), len(p.verifyCalls))
	}
}

func TestVerifySignatureEmptySet(t *testing.T) {
	p := &fakeProvider{}
	for _, certs := range []CertSet{nil, {}} {
		err := VerifySignature(p, []byte("message"), []byte("signature"), certs)
		if !IsAppIdentityError(err) {
			t.Fatalf("expected AppIdentityError for empty set, got %v", err)
		}
	}
	if len(p.newVerifierCalls) != 0 {
		t.Errorf("unexpected NewVerifier calls: %v", p.newVerifierCalls)
	}
}

func TestVerifySignatureSkipsMalformedCert(t *testing.T) {
	p := &fakeProvider{
		results: []bool{true},
		broken:  map[string]bool{"garbage": true},
	}
	certs := CertSet{}.
		Add("kid1", []byte("garbage")).
		Add("kid2", []byte("cert-value"))

	if err := VerifySignature(p, []byte("message"), []byte("signature"), certs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.newVerifierCalls) != 2 {
		t.Errorf("expected both certs to be tried, got %d", len(p.newVerifierCalls))
	}
	if len(p.verifyCalls) != 1 {
		t.Errorf("expected one verify call, got %d", len(p.verifyCalls))
	}
}

func TestVerifySignatureErrorDoesNotNameCerts(t *testing.T) {
	p := &fakeProvider{broken: map[string]bool{"cert-secret-a": true}}
	certs := CertSet{}.
		Add("kid-a", []byte("cert-secret-a")).
		Add("kid-b", []byte("cert-secret-b"))

	err := VerifySignature(p, []byte("message"), []byte("signature"), certs)
	if err == nil {
		t.Fatal("expected an error")
	}
	if d := cmp.Diff("invalid token signature", err.Error()); d != "" {
		t.Errorf("error message (-want +got):\n%s", d)
	}
}

func TestCheckAudience(t *testing.T) {
	tests := []struct {
		name     string
		payload  Payload
		audience string
		wantErr  bool
	}{
		{name: "null audience", payload: nil, audience: ""},
		{name: "null audience ignores claim", payload: Payload{"aud": "other"}, audience: ""},
		{name: "success", payload: Payload{"aud": "audience"}, audience: "audience"},
		{name: "missing aud", payload: Payload{}, audience: "audience", wantErr: true},
		{name: "nil payload", payload: nil, audience: "audience", wantErr: true},
		{name: "wrong aud", payload: Payload{"aud": "audience1"}, audience: "audience2", wantErr: true},
		{name: "case sensitive", payload: Payload{"aud": "Audience"}, audience: "audience", wantErr: true},
		{name: "no normalization", payload: Payload{"aud": "https://example.com/"}, audience: "https://example.com", wantErr: true},
		{name: "list aud", payload: Payload{"aud": []interface{}{"audience"}}, audience: "audience", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckAudience(tc.payload, tc.audience)
			if (err != nil) != tc.wantErr {
				t.Fatalf("CheckAudience() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !IsAppIdentityError(err) {
				t.Errorf("expected AppIdentityError, got %T", err)
			}
		})
	}
}

func TestCheckAudienceMismatchMessage(t *testing.T) {
	err := CheckAudience(Payload{"aud": "audience1"}, "audience2")
	if d := cmp.Diff("wrong recipient, audience1 != audience2", err.Error()); d != "" {
		t.Errorf("error message (-want +got):\n%s", d)
	}
}

func TestPKCS12KeyAsPEMPassphraseTypes(t *testing.T) {
	p := &fakeProvider{}

	fromString, err := PKCS12KeyAsPEM(p, []byte("key"), DefaultPassphrase)
	if err != nil {
		t.Fatal(err)
	}
	fromBytes, err := PKCS12KeyAsPEM(p, []byte("key"), []byte(DefaultPassphrase))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(fromString, fromBytes); d != "" {
		t.Errorf("output differs by passphrase type (-string +bytes):\n%s", d)
	}

	want := [][]byte{[]byte("notasecret"), []byte("notasecret")}
	if d := cmp.Diff(want, p.pkcs12Passphrases); d != "" {
		t.Errorf("passphrases (-want +got):\n%s", d)
	}
}

func TestPKCS12KeyAsPEMUTF8(t *testing.T) {
	p := &fakeProvider{}
	if _, err := PKCS12KeyAsPEM(p, []byte("key"), "pässwörd"); err != nil {
		t.Fatal(err)
	}
	want := []byte{'p', 0xc3, 0xa4, 's', 's', 'w', 0xc3, 0xb6, 'r', 'd'}
	if d := cmp.Diff(want, p.pkcs12Passphrases[0]); d != "" {
		t.Errorf("passphrase encoding (-want +got):\n%s", d)
	}
}

func TestPKCS12KeyAsPEMErrorUnwrapped(t *testing.T) {
	p := &fakeProvider{}
	_, err := PKCS12KeyAsPEM(p, []byte("NOT_A_KEY"), DefaultPassphrase)
	if err != errMalformed { //nolint:errorlint
		t.Fatalf("expected provider error unchanged, got %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	unsupported := &UnsupportedOperationError{Op: "pkcs12"}
	if !errors.Is(unsupported, ErrUnsupported) {
		t.Error("UnsupportedOperationError should match ErrUnsupported")
	}
	if IsAppIdentityError(unsupported) {
		t.Error("UnsupportedOperationError must not be an AppIdentityError")
	}
	if errors.Is(&AppIdentityError{Reason: "x"}, ErrUnsupported) {
		t.Error("AppIdentityError must not match ErrUnsupported")
	}
}
