// Package render executes synthesized DOT source through the external
// Graphviz toolchain and manages the resulting image artifacts.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"diagen/internal/diagram"
)

// Cause classifies a render failure coarsely so callers can branch on it.
type Cause string

const (
	CauseToolchainMissing Cause = "toolchain-missing"
	CauseSyntax           Cause = "syntax"
	CauseTimeout          Cause = "timeout"
	CauseUnknown          Cause = "unknown"
)

// Error is a fatal, caller-visible render failure. It carries the attempted
// source so the caller can display "generated code with errors".
type Error struct {
	Message string
	Source  string
	Cause   Cause
}

func (e *Error) Error() string { return fmt.Sprintf("render (%s): %s", e.Cause, e.Message) }

// Artifact identifies one rendered image in the output directory.
type Artifact struct {
	Filename string
	Path     string
	Size     int64
}

const cacheEntries = 256

// runDot is injectable in tests.
var runDot = func(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "dot", args...)
	return cmd.CombinedOutput()
}

// Renderer turns DOT source into image files. Every successful call writes
// exactly one uniquely named file, so concurrent renders never collide.
type Renderer struct {
	outDir  string
	timeout time.Duration
	log     *zap.Logger
	cache   *lru.Cache[string, []byte]
}

func New(outDir string, timeout time.Duration, log *zap.Logger) (*Renderer, error) {
	outDir = strings.TrimSpace(outDir)
	if outDir == "" {
		return nil, errors.New("render: output directory is required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("render: mkdir output dir: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	cache, err := lru.New[string, []byte](cacheEntries)
	if err != nil {
		return nil, err
	}
	return &Renderer{outDir: outDir, timeout: timeout, log: log, cache: cache}, nil
}

// OutDir returns the directory artifacts are written to.
func (r *Renderer) OutDir() string {
	if r == nil {
		return ""
	}
	return r.outDir
}

// Render executes the source and produces an image in the requested format.
// Identical source+format pairs are served from an in-memory cache of the
// rendered bytes, but each call still materializes its own uniquely named
// file. Execution is bounded by the configured timeout and never retried.
func (r *Renderer) Render(ctx context.Context, source string, format diagram.Format) (*Artifact, error) {
	if r == nil {
		return nil, errors.New("render: renderer is nil")
	}
	if _, err := diagram.ParseFormat(string(format)); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("diagram_%s.%s", uuid.NewString()[:8], format.Ext())
	outPath := filepath.Join(r.outDir, filename)

	key := cacheKey(source, format)
	if data, ok := r.cache.Get(key); ok {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("render: write cached artifact: %w", err)
		}
		r.log.Debug("render cache hit", zap.String("file", filename))
		return &Artifact{Filename: filename, Path: outPath, Size: int64(len(data))}, nil
	}

	src, err := os.CreateTemp(r.outDir, "source-*.dot")
	if err != nil {
		return nil, fmt.Errorf("render: create source file: %w", err)
	}
	srcPath := src.Name()
	defer os.Remove(srcPath)
	if _, err := src.WriteString(source); err != nil {
		src.Close()
		return nil, fmt.Errorf("render: write source file: %w", err)
	}
	if err := src.Close(); err != nil {
		return nil, fmt.Errorf("render: close source file: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	out, runErr := runDot(execCtx, "-T"+format.Ext(), srcPath, "-o", outPath)
	if runErr != nil {
		rerr := classify(execCtx, runErr, strings.TrimSpace(string(out)), source)
		r.log.Warn("render failed",
			zap.String("cause", string(rerr.Cause)), zap.String("message", rerr.Message))
		return nil, rerr
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, &Error{
			Message: "toolchain reported success but produced no output: " + err.Error(),
			Source:  source,
			Cause:   CauseUnknown,
		}
	}
	if data, err := os.ReadFile(outPath); err == nil {
		r.cache.Add(key, data)
	}
	r.log.Info("rendered diagram",
		zap.String("file", filename),
		zap.Int64("bytes", info.Size()),
		zap.Duration("took", time.Since(start)))
	return &Artifact{Filename: filename, Path: outPath, Size: info.Size()}, nil
}

func classify(ctx context.Context, err error, output, source string) *Error {
	msg := err.Error()
	if output != "" {
		msg = output
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Message: "rendering toolchain timed out", Source: source, Cause: CauseTimeout}
	case errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), "executable file not found"):
		return &Error{Message: "graphviz 'dot' binary is not installed or not on PATH", Source: source, Cause: CauseToolchainMissing}
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Error{Message: msg, Source: source, Cause: CauseSyntax}
		}
		return &Error{Message: msg, Source: source, Cause: CauseUnknown}
	}
}

func cacheKey(source string, format diagram.Format) string {
	return string(format) + "\x00" + source
}
