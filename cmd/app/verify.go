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
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigstore/appidentity/pkg/config"
)

func newVerifyCmd() *cobra.Command {
	var certsPath, audience string

	cmd := &cobra.Command{
		Use:   "verify <token|->",
		Short: "verify an identity token",
		Long: `Verifies a compact JWT identity token against the identity provider's
certificate document (a JSON object of key id to PEM certificate) and prints
its claims. Pass - to read the token from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := newProvider()
			if err != nil {
				return err
			}
			if certsPath == "" {
				certsPath = cfg.CertsPath
			}
			if certsPath == "" {
				return errors.New("no certificates configured, set --certs or certs-path")
			}
			if !cmd.Flags().Changed("audience") {
				audience = cfg.Audience
			}

			token := args[0]
			if token == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = string(b)
			}
			token = strings.TrimSpace(token)

			certs, err := config.LoadCertSet(certsPath)
			if err != nil {
				return err
			}
			payload, err := cfg.NewVerifier(p).Verify(token, certs, audience)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}

	cmd.Flags().StringVar(&certsPath, "certs", "", "identity provider certificate document, overrides certs-path")
	cmd.Flags().StringVar(&audience, "audience", "", "expected aud claim, overrides the config file; empty skips the check")
	return cmd
}
