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
	"encoding/pem"

	"go.step.sm/crypto/pemutil"
	"golang.org/x/crypto/pkcs12"
)

// PKCS12KeyAsPEM returns the private key held in a PKCS#12 container as an
// unencrypted PEM block in the traditional format for its algorithm
// ("RSA PRIVATE KEY", "EC PRIVATE KEY"). Errors from pkcs12.Decode, such as
// pkcs12.ErrIncorrectPassword, are returned as is.
func (p *defaultProvider) PKCS12KeyAsPEM(key, passphrase []byte) ([]byte, error) {
	priv, _, err := pkcs12.Decode(key, string(passphrase))
	if err != nil {
		return nil, err
	}

	block, err := pemutil.Serialize(priv)
	if err != nil {
		return nil, err
	}
	defer zero(block.Bytes)

	return pem.EncodeToMemory(block), nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
