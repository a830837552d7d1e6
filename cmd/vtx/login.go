// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	vtxlog "github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/session"
	"github.com/vtx/vtx/internal/translator"
)

func runLogin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (YAML)")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *email == "" {
		fmt.Fprintln(os.Stderr, "login: -email is required")
		return 2
	}

	cfg, err := bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		return 1
	}
	logger := vtxlog.WithComponent("cli")

	client := translator.New(cfg.BaseURL, translator.WithTimeout(cfg.RequestTimeout))
	res, err := client.Login(ctx, *email, *password)
	if err != nil {
		logger.Error().Err(err).Str("event", "login.failed").Msg("login failed")
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		return 1
	}

	store, err := session.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open session store: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	if err := store.PutSession(ctx, session.Session{Token: res.Token, UserID: res.UserID}); err != nil {
		fmt.Fprintf(os.Stderr, "store session: %v\n", err)
		return 1
	}

	logger.Info().Str("event", "login.ok").Str("user_id", res.UserID).Msg("logged in")
	fmt.Printf("Logged in as %s\n", res.UserID)
	return 0
}

func runLanguages(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("languages", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (YAML)")
	_ = fs.Parse(args)

	cfg, err := bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "languages: %v\n", err)
		return 1
	}

	client := translator.New(cfg.BaseURL, translator.WithTimeout(cfg.RequestTimeout))
	opts, err := client.Languages(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch languages: %v\n", err)
		return 1
	}
	for _, o := range opts {
		fmt.Printf("%-8s %s\n", o.Code, o.Label)
	}
	return 0
}
