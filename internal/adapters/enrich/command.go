// Package enrich invokes the external summarizer that annotates session
// records with human-readable progress fields.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/ports"
)

// maxTailBytes bounds how much transcript context is fed to the summarizer
const maxTailBytes = 64 * 1024

// CommandEnricher runs a configured command with recent transcript context
// on stdin and expects a JSON object with working_on/next_step on stdout.
// Everything about it is best-effort: failures and timeouts just mean the
// record goes unenriched.
type CommandEnricher struct {
	command []string
	timeout time.Duration
}

// Compile-time interface verification
var _ ports.Enricher = (*CommandEnricher)(nil)

// NewCommandEnricher creates an enricher for the given command line
func NewCommandEnricher(command []string, timeout time.Duration) *CommandEnricher {
	return &CommandEnricher{
		command: command,
		timeout: timeout,
	}
}

// Summarize feeds the transcript tail to the summarizer command
func (e *CommandEnricher) Summarize(ctx context.Context, transcriptPath string) (domain.Enrichment, error) {
	if len(e.command) == 0 {
		return domain.Enrichment{}, fmt.Errorf("no enrichment command configured")
	}

	tail, err := readTail(transcriptPath, maxTailBytes)
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("failed to read transcript: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command[0], e.command[1:]...)
	cmd.Stdin = bytes.NewReader(tail)

	out, err := cmd.Output()
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("summarizer failed: %w", err)
	}

	var enr domain.Enrichment
	if err := json.Unmarshal(bytes.TrimSpace(out), &enr); err != nil {
		return domain.Enrichment{}, fmt.Errorf("summarizer output unparsable: %w", err)
	}
	return enr, nil
}

// readTail returns up to limit bytes from the end of a file
func readTail(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if info.Size() > limit {
		if _, err := f.Seek(-limit, io.SeekEnd); err != nil {
			return nil, err
		}
	}
	return io.ReadAll(f)
}
