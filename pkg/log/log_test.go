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

package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfigureLogger(t *testing.T) {
	t.Cleanup(func() { _ = ConfigureLogger("dev", "") })

	if err := ConfigureLogger("prod", "warn"); err != nil {
		t.Fatal(err)
	}
	if Logger.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !Logger.Desugar().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}

	if err := ConfigureLogger("dev", ""); err != nil {
		t.Fatal(err)
	}
	if !Logger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("dev logger should log debug")
	}
}

func TestConfigureLoggerBadLevel(t *testing.T) {
	if err := ConfigureLogger("dev", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
