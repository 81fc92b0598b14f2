// Copyright 2021 The Sigstore Authors.
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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sigstore/appidentity/pkg/config"
	"github.com/sigstore/appidentity/pkg/crypt"
	"github.com/sigstore/appidentity/pkg/log"
)

// New returns the root command. Tests build a fresh tree per run so flag
// state does not leak between them.
func New() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "appidentity",
		Short: "Verify identity tokens and prepare service account keys",
		Long: `appidentity verifies signed identity tokens against the certificates an
identity provider publishes, and converts PKCS#12 service account keys to PEM
for signing outbound assertions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.ConfigureLogger(viper.GetString("log_type"), viper.GetString("log_level"))
		},
	}

	addGlobalFlags(rootCmd.PersistentFlags())
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Logger.Fatal(err)
	}

	rootCmd.AddCommand(newPKCS12Cmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newSignCmd())
	return rootCmd
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("log_type", "dev", "logger type to use (dev/prod)")
	fs.String("log_level", "", "minimum log level (debug/info/warn/error)")
	fs.String("config-path", "/etc/appidentity/config.yaml", "path to appidentity config yaml")
	fs.String("provider", "", "crypto provider to use (default/no-pkcs12), overrides the config file")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := New().Execute(); err != nil {
		log.Logger.Error(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.AppIdentityConfig, error) {
	cfg, err := config.Load(viper.GetString("config-path"))
	if err != nil {
		return nil, err
	}
	if p := viper.GetString("provider"); p != "" {
		cfg.Provider = p
	}
	return cfg, nil
}

func newProvider() (*config.AppIdentityConfig, crypt.Provider, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := cfg.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}
