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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigstore/appidentity/pkg/crypt"
	"github.com/sigstore/appidentity/pkg/idtoken"
)

func newSignCmd() *cobra.Command {
	var (
		keyPath, kid, claims string
		issuer, audience     string
		lifetime             time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "sign an assertion with a PEM private key",
		Long: `Signs an RS256 assertion with iss, aud, iat and exp claims and prints the
compact token. Extra claims can be given as a JSON object with --claims.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPEM, err := os.ReadFile(filepath.Clean(keyPath))
			if err != nil {
				return err
			}
			signer, err := idtoken.NewSignerFromPEM(keyPEM, kid)
			if err != nil {
				return err
			}

			payload := idtoken.AssertionClaims(issuer, audience, time.Now(), lifetime)
			if claims != "" {
				var extra crypt.Payload
				if err := json.Unmarshal([]byte(claims), &extra); err != nil {
					return fmt.Errorf("parsing --claims: %w", err)
				}
				for k, v := range extra {
					payload[k] = v
				}
			}

			token, err := signer.Sign(payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "path to the PEM private key")
	cmd.Flags().StringVar(&kid, "kid", "", "key id written to the token header")
	cmd.Flags().StringVar(&issuer, "issuer", "", "iss claim")
	cmd.Flags().StringVar(&audience, "audience", "", "aud claim")
	cmd.Flags().DurationVar(&lifetime, "lifetime", idtoken.DefaultAuthTokenLifetime, "token lifetime")
	cmd.Flags().StringVar(&claims, "claims", "", "additional claims as a JSON object")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
