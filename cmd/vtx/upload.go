// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vtx/vtx/internal/config"
	vtxlog "github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/metrics"
	"github.com/vtx/vtx/internal/poll"
	"github.com/vtx/vtx/internal/results"
	"github.com/vtx/vtx/internal/session"
	"github.com/vtx/vtx/internal/translator"
	"github.com/vtx/vtx/internal/validate"
)

// extTypes pins the MIME types the validator and the service expect.
// mime.TypeByExtension appends charset parameters and misses a few of the
// accepted types, hence the explicit table.
var extTypes = map[string]string{
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/x-m4a",
	".ogg":  "audio/ogg",
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := extTypes[ext]; ok {
		return ct
	}
	ct := mime.TypeByExtension(ext)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

func validateLocalFile(path string, kind validate.MediaKind) (validate.MediaFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return validate.MediaFile{}, err
	}
	f := validate.MediaFile{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentTypeFor(path),
	}
	if verr := validate.Media(f, kind); verr != nil {
		metrics.ValidationRejectsTotal.WithLabelValues(string(verr.Violation)).Inc()
		return validate.MediaFile{}, verr
	}
	return f, nil
}

func runUpload(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (YAML)")
	filePath := fs.String("file", "", "video file to translate")
	lang := fs.String("lang", "", "target language code")
	voicePath := fs.String("voice", "", "optional voice sample (audio file)")
	outDir := fs.String("out", "", "artifact output directory (default <data_dir>/artifacts)")
	noDownload := fs.Bool("no-download", false, "skip downloading artifacts after completion")
	_ = fs.Parse(args)

	if *filePath == "" || *lang == "" {
		fmt.Fprintln(os.Stderr, "upload: -file and -lang are required")
		return 2
	}

	cfg, err := bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "upload: %v\n", err)
		return 1
	}
	logger := vtxlog.WithComponent("cli")

	media, err := validateLocalFile(*filePath, validate.KindVideo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	var voice validate.MediaFile
	if *voicePath != "" {
		voice, err = validateLocalFile(*voicePath, validate.KindAudio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}

	store, err := session.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open session store: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	sess, err := store.GetSession(ctx)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "read session: %v\n", err)
		return 1
	}
	if sess.UserID == "" {
		fmt.Fprintln(os.Stderr, "not logged in; run: vtx login -email <addr>")
		return 1
	}

	client := translator.New(cfg.BaseURL,
		translator.WithToken(sess.Token),
		translator.WithTimeout(cfg.RequestTimeout))

	mediaFile, err := os.Open(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open media: %v\n", err)
		return 1
	}
	defer func() { _ = mediaFile.Close() }()

	req := translator.UploadRequest{
		FileName:       media.Name,
		ContentType:    media.ContentType,
		TargetLanguage: *lang,
		UserID:         sess.UserID,
	}

	var voiceFile *os.File
	if *voicePath != "" {
		voiceFile, err = os.Open(*voicePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open voice sample: %v\n", err)
			return 1
		}
		defer func() { _ = voiceFile.Close() }()
		req.VoiceSampleName = voice.Name
		req.VoiceSampleContentType = voice.ContentType
	}

	var voiceReader io.Reader
	if voiceFile != nil {
		voiceReader = voiceFile
	}
	up, err := client.Upload(ctx, req, mediaFile, voiceReader)
	if err != nil {
		logger.Error().Err(err).Str("event", "upload.failed").Msg("upload failed")
		fmt.Fprintf(os.Stderr, "upload failed: %v\n", err)
		return 1
	}

	meta := session.NewJobMeta(up.JobID, *lang, *voicePath != "", time.Now().UTC())
	if err := store.PutJobMeta(ctx, meta); err != nil {
		logger.Warn().Err(err).Str("event", "jobmeta.store_failed").Msg("could not persist job metadata")
	}

	fmt.Printf("Job %s accepted: %s\n", up.JobID, up.Message)

	outcome, code := watchJob(ctx, cfg, client, up.JobID)
	if code != 0 || outcome == nil {
		return code
	}

	if !outcome.Completed() {
		fmt.Fprintf(os.Stderr, "Translation failed: %s\n", outcome.FailureMessage)
		return 1
	}

	fmt.Println("Translation completed successfully!")
	printJobMeta(ctx, store, up.JobID)

	if *noDownload {
		fmt.Printf("Preview:   %s\n", outcome.Refs.PreviewURL)
		fmt.Printf("Download:  %s\n", outcome.Refs.DownloadURL)
		fmt.Printf("Subtitles: %s | %s\n", outcome.Refs.SubtitleSRTURL, outcome.Refs.SubtitleVTTURL)
		return 0
	}

	dir := *outDir
	if dir == "" {
		dir = filepath.Join(cfg.DataDir, "artifacts")
	}
	d := results.NewDownloader(client)
	paths, err := d.DownloadAll(ctx, outcome.Refs, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "artifact download failed: %v\n", err)
		return 1
	}
	for kind, p := range paths {
		fmt.Printf("%-8s %s\n", kind, p)
	}
	return 0
}

// watchJob polls the job to a terminal state, streaming log lines to stdout.
func watchJob(ctx context.Context, cfg config.AppConfig, client *translator.Client, jobID string) (*results.Outcome, int) {
	w := poll.NewWatcher(client, poll.Config{
		Interval:               cfg.PollInterval,
		ActivityInterval:       cfg.ActivityInterval,
		Timeout:                cfg.WatchTimeout,
		LogBuffer:              cfg.LogBufferSize,
		MaxConsecutiveFailures: cfg.MaxPollFailures,
		CompletionDelay:        time.Second,
	})
	s := w.Watch(ctx, jobID)

	var seen []string
	for {
		select {
		case u := <-s.Updates():
			for _, line := range newLogLines(seen, u.Logs) {
				fmt.Printf("  [%3d%%] %s\n", u.Job.Progress, line)
			}
			seen = u.Logs
		case res := <-s.Done():
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "watch aborted: %v\n", res.Err)
				return nil, 1
			}
			for _, line := range newLogLines(seen, res.Logs) {
				fmt.Printf("  [%3d%%] %s\n", res.Job.Progress, line)
			}
			outcome := results.FromJob(client.BaseURL(), res.Job)
			return &outcome, 0
		}
	}
}

// newLogLines returns the entries of cur that were appended after prev. Both
// are trailing windows of the same stream, so the overlap is the longest
// suffix of prev that prefixes cur.
func newLogLines(prev, cur []string) []string {
	for start := 0; start < len(prev); start++ {
		overlap := prev[start:]
		if len(overlap) > len(cur) {
			continue
		}
		match := true
		for i, line := range overlap {
			if cur[i] != line {
				match = false
				break
			}
		}
		if match {
			return cur[len(overlap):]
		}
	}
	return cur
}

func printJobMeta(ctx context.Context, store session.Store, jobID string) {
	meta, err := store.GetJobMeta(ctx, jobID)
	if err != nil {
		return
	}
	fmt.Printf("  Language:     %s -> %s\n", meta.SourceLanguage, meta.TargetLanguage)
	fmt.Printf("  Accuracy:     %s   Lip sync: %s\n", meta.Accuracy, meta.LipSyncConfidence)
	fmt.Printf("  Voice match:  %s   Subtitles: %s segments\n", meta.VoiceMatch, meta.SubtitleCount)
}
