// Package downloader runs the external hytale-downloader CLI to fetch the
// server jar and asset bundle into a profile directory.
package downloader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"hyserve/internal/auth"
	"hyserve/internal/domain"
)

// BinaryName is the downloader executable resolved from PATH.
const BinaryName = "hytale-downloader"

var percentPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)

type Runner struct {
	log  zerolog.Logger
	auth *auth.Coordinator

	mu      sync.Mutex
	running bool
}

func NewRunner(log zerolog.Logger, coordinator *auth.Coordinator) *Runner {
	return &Runner{log: log, auth: coordinator}
}

// Running reports whether a download is currently in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Download invokes the downloader CLI with destDir as the output directory
// and blocks until it exits. Output lines are fed to the auth coordinator,
// which handles any device-code login the downloader requires, and progress
// lines are forwarded to onProgress when it is non-nil.
func (r *Runner) Download(ctx context.Context, destDir string, onProgress func(domain.ProgressEvent)) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("a download is already in progress")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	bin, err := exec.LookPath(BinaryName)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", BinaryName, err)
	}

	cmd := exec.CommandContext(ctx, bin, "--output", destDir)
	cmd.Dir = destDir

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error starting downloader: %w", err)
	}

	r.log.Info().Str("dir", destDir).Msg("downloader started")

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		done <- err
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.routeLine(scanner.Text(), onProgress)
	}

	if err := <-done; err != nil {
		return fmt.Errorf("downloader failed: %w", err)
	}
	return nil
}

func (r *Runner) routeLine(line string, onProgress func(domain.ProgressEvent)) {
	r.log.Debug().Str("line", line).Msg("downloader output")

	if r.auth != nil {
		r.auth.ParseDownloaderLine(line)
	}

	if onProgress == nil {
		return
	}
	if m := percentPattern.FindStringSubmatch(line); m != nil {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil && pct <= 100 {
			onProgress(domain.ProgressEvent{Message: line, Progress: pct})
		}
	}
}
