// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vtx/vtx/internal/history"
	vtxlog "github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/session"
	"github.com/vtx/vtx/internal/translator"
)

func runDashboard(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (YAML)")
	offline := fs.Bool("offline", false, "render from local history without contacting the service")
	_ = fs.Parse(args)

	cfg, err := bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		return 1
	}
	logger := vtxlog.WithComponent("cli")

	store, err := session.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open session store: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	sess, err := store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "not logged in; run: vtx login -email <addr>")
		} else {
			fmt.Fprintf(os.Stderr, "read session: %v\n", err)
		}
		return 1
	}

	hist, err := history.OpenStore(filepath.Join(cfg.DataDir, "history.sqlite"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open history: %v\n", err)
		return 1
	}
	defer func() { _ = hist.Close() }()

	if !*offline {
		client := translator.New(cfg.BaseURL,
			translator.WithToken(sess.Token),
			translator.WithTimeout(cfg.RequestTimeout))
		data, err := client.Dashboard(ctx, sess.UserID)
		if err != nil {
			logger.Warn().Err(err).Str("event", "dashboard.fetch_failed").Msg("falling back to local history")
			fmt.Fprintln(os.Stderr, "service unreachable, showing local history")
		} else if err := hist.MirrorDashboard(ctx, sess.UserID, data); err != nil {
			logger.Warn().Err(err).Str("event", "dashboard.mirror_failed").Msg("could not update local history")
		}
	}

	entries, err := hist.List(ctx, sess.UserID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read history: %v\n", err)
		return 1
	}

	sum := history.Aggregate(entries, time.Now())
	fmt.Printf("Videos: %d   Words: %d   Time: %s\n",
		sum.TotalVideos, sum.TotalWords, (time.Duration(sum.TotalTimeSec) * time.Second).String())
	fmt.Printf("Success rate: %.1f%%   Weekly growth: %+.1f%%\n", sum.SuccessRatePct, sum.WeekGrowthPct)

	if len(sum.VideosPerLanguage) > 0 {
		langs := make([]string, 0, len(sum.VideosPerLanguage))
		for code := range sum.VideosPerLanguage {
			langs = append(langs, code)
		}
		sort.Strings(langs)
		fmt.Println("By language:")
		for _, code := range langs {
			fmt.Printf("  %-8s %d\n", code, sum.VideosPerLanguage[code])
		}
	}

	if len(entries) > 0 {
		fmt.Println("Recent jobs:")
		limit := len(entries)
		if limit > 10 {
			limit = 10
		}
		for _, e := range entries[:limit] {
			created := ""
			if !e.CreatedAt.IsZero() {
				created = e.CreatedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("  %-36s %-6s %-10s %s\n", e.JobID, e.TargetLanguage, e.Status, created)
		}
	}
	return 0
}
