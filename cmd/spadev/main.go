// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// spadev serves a pre-built single page application bundle from
// "build/web" for local development, falling back to the index document for
// all client-side routes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thediveo/spadev"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spadev",
		Short: "Serve a built single page application for local development",
		Long: `spadev serves the SPA bundle found in build/web below the current
directory on http://localhost:8082. Static assets are served as is, all other
paths get index.html so that client-side routing works.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), cwd)
		},
	}
}

// run serves the SPA bundle below cwd until ctx gets cancelled, printing
// operator messages to out.
func run(ctx context.Context, out io.Writer, cwd string) error {
	cfg, err := spadev.LoadConfig(cwd)
	if err != nil {
		return err
	}
	log, err := spadev.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("cannot create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := spadev.NewServer(*cfg, cwd, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Serving files from: %s\n", srv.DocumentRoot())
	if err := srv.Listen(); err != nil {
		return err
	}
	fmt.Fprintf(out, "SPA server running at: %s\n", srv.URL())
	fmt.Fprintln(out, "Press Ctrl+C to stop")
	if err := srv.Serve(ctx); err != nil {
		log.Error("server failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, "\nServer stopped")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stdout, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
