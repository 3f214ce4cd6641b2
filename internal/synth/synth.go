package synth

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Real-Life-IaC/ch-pubsub/internal/execx"
)

// Error means the synthesis tool exited non-zero. Deterministic for a given
// app config, so there is no retry; the wrapped error keeps the tool's raw
// diagnostics.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("synthesis failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ArtifactSet locates the rendered infrastructure definitions of one
// synthesis run.
type ArtifactSet struct {
	Dir       string
	Templates []string // rendered CloudFormation templates, sorted
}

type Options struct {
	Bin    string // CDK binary, ex: "cdk"
	AppDir string // directory holding the CDK app
	OutDir string // output directory, overwritten every run
}

type Synthesizer struct {
	runner execx.Runner
	opts   Options
}

func New(runner execx.Runner, opts Options) *Synthesizer {
	return &Synthesizer{runner: runner, opts: opts}
}

// Synthesize renders the app into the output directory and enumerates the
// CloudFormation templates it produced. Prior output is overwritten.
func (s *Synthesizer) Synthesize(ctx context.Context) (ArtifactSet, error) {
	args := []string{"synth", "--output", s.opts.OutDir, "--quiet"}
	if _, err := s.runner.RunIn(ctx, s.opts.AppDir, s.opts.Bin, args...); err != nil {
		return ArtifactSet{}, &Error{Err: err}
	}

	dir := s.opts.OutDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.opts.AppDir, dir)
	}

	templates, err := collectTemplates(dir)
	if err != nil {
		return ArtifactSet{}, &Error{Err: err}
	}
	return ArtifactSet{Dir: dir, Templates: templates}, nil
}

func collectTemplates(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		if IsCloudFormationTemplate(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk artifact dir %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

// IsCloudFormationTemplate sniffs file content for a template marker. The
// output directory also holds manifests and asset metadata that must not be
// fed to the scanner as templates.
func IsCloudFormationTemplate(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "\"Resources\"") ||
			strings.HasPrefix(line, "Resources:") ||
			strings.Contains(line, "AWSTemplateFormatVersion") {
			return true
		}
	}
	return false
}
