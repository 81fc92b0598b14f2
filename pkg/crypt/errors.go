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
	"fmt"
)

// ErrUnsupported is matched by every UnsupportedOperationError.
var ErrUnsupported = errors.New("operation not supported by the configured crypto provider")

// AppIdentityError reports that a token must not be trusted. Signature
// failures and audience failures share this type so callers that only need
// a trust decision can test for it with IsAppIdentityError.
type AppIdentityError struct {
	Reason string
}

func (e *AppIdentityError) Error() string {
	return e.Reason
}

func appIdentityErrorf(format string, args ...interface{}) error {
	return &AppIdentityError{Reason: fmt.Sprintf(format, args...)}
}

// IsAppIdentityError reports whether any error in err's chain is an
// *AppIdentityError.
func IsAppIdentityError(err error) bool {
	var aie *AppIdentityError
	return errors.As(err, &aie)
}

// UnsupportedOperationError means the operation was never attempted because
// the active provider lacks the capability. It is a configuration problem,
// not a verification outcome.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrUnsupported)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}
