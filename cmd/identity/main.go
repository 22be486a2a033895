// Command identity runs the identity session service: the gRPC session API
// (login, logout, signup) and an ops HTTP server for probes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/identity/bootstrap"
	"github.com/kbukum/identity/config"
	"github.com/kbukum/identity/version"
)

const serviceName = "identity"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configFile, envFile string
	var showVersion bool

	flags := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	flags.StringVarP(&configFile, "config", "c", "", "path to config.yml (default: ./cmd/identity/config.yml or ./config.yml)")
	flags.StringVar(&envFile, "env-file", "", "path to a .env file")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Println(serviceName, version.Short())
		return nil
	}

	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := wire(ctx, app); err != nil {
		return fmt.Errorf("wire: %w", err)
	}
	return app.Run(ctx)
}
