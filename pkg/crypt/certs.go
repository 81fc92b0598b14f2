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

import "sort"

// NoKeyID is the key id of a certificate published without one.
const NoKeyID = ""

// Cert is a single certificate value (PEM or DER) published by an identity
// provider under a key id.
type Cert struct {
	KeyID string
	Value []byte
}

// CertSet is the ordered set of certificates currently valid for an
// identity provider. Providers rotate keys, so several entries are normally
// live at once. Iteration follows slice order.
type CertSet []Cert

// NewCertSet builds a CertSet from a key id to PEM mapping, such as the
// JSON document an identity provider publishes. Entries are sorted by key
// id so that iteration does not depend on map order.
func NewCertSet(certs map[string]string) CertSet {
	kids := make([]string, 0, len(certs))
	for kid := range certs {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	set := make(CertSet, 0, len(kids))
	for _, kid := range kids {
		set = set.Add(kid, []byte(certs[kid]))
	}
	return set
}

// Add appends a certificate, preserving insertion order.
func (s CertSet) Add(kid string, value []byte) CertSet {
	return append(s, Cert{KeyID: kid, Value: value})
}

// Get returns the first certificate published under kid.
func (s CertSet) Get(kid string) (Cert, bool) {
	for _, c := range s {
		if c.KeyID == kid {
			return c, true
		}
	}
	return Cert{}, false
}
