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
//

package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sigstore/appidentity/pkg/crypt"
	"github.com/sigstore/appidentity/pkg/log"
)

func newPKCS12Cmd() *cobra.Command {
	var keyPath, passphrase, outPath string

	cmd := &cobra.Command{
		Use:   "pkcs12-to-pem",
		Short: "convert a PKCS#12 service account key to PEM",
		Long: `Decodes a PKCS#12 service account key and writes its private key as
unencrypted PEM, either to --out (mode 0600) or to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := newProvider()
			if err != nil {
				return err
			}

			key, err := os.ReadFile(filepath.Clean(keyPath))
			if err != nil {
				return err
			}
			pemBytes, err := crypt.PKCS12KeyAsPEM(p, key, passphrase)
			if errors.Is(err, crypt.ErrUnsupported) {
				return fmt.Errorf("%w; select a provider with PKCS#12 support", err)
			}
			if err != nil {
				return fmt.Errorf("converting %s: %w", keyPath, err)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(pemBytes)
				return err
			}
			if err := os.WriteFile(outPath, pemBytes, 0600); err != nil {
				return err
			}
			log.Logger.Infof("wrote PEM private key to %s", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "path to the PKCS#12 key")
	cmd.Flags().StringVar(&passphrase, "passphrase", crypt.DefaultPassphrase, "PKCS#12 passphrase")
	cmd.Flags().StringVar(&outPath, "out", "", "write the PEM key here instead of stdout")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
