package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
	"go.uber.org/zap"
)

// maxScanFileSize skips large blobs (build artifacts, archives) during scans.
const maxScanFileSize = 1 << 20

// SecretScanAgent scans a module's files for leaked credentials using the
// Gitleaks detector (800+ built-in patterns). A module with findings fails
// the check; the details list each finding's rule, file and line.
type SecretScanAgent struct {
	name     string
	dirFor   func(module string) string
	detector *detect.Detector
	logger   *zap.Logger
}

// NewSecretScanAgent creates a secret-scan agent with the default Gitleaks
// config. dirFor resolves a module name to the directory to scan.
func NewSecretScanAgent(name string, dirFor func(module string) string, logger *zap.Logger) (*SecretScanAgent, error) {
	if name == "" {
		return nil, errors.New("agent name is required")
	}
	if dirFor == nil {
		return nil, fmt.Errorf("agent %q: module directory resolver is required", name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("agent %q: create gitleaks detector: %w", name, err)
	}
	return &SecretScanAgent{name: name, dirFor: dirFor, detector: detector, logger: logger}, nil
}

// Name returns the agent's registered name.
func (a *SecretScanAgent) Name() string { return a.name }

// Check scans every regular file under the module's directory.
func (a *SecretScanAgent) Check(ctx context.Context, module string) (Result, error) {
	root := a.dirFor(module)
	info, err := os.Stat(root)
	if err != nil {
		return Result{Passed: false, Details: fmt.Sprintf("module directory %s: %v", root, err)}, nil
	}
	if !info.IsDir() {
		return Result{Passed: false, Details: fmt.Sprintf("module path %s is not a directory", root)}, nil
	}

	var findings []string
	scanned := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil || fi.Size() > maxScanFileSize {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		scanned++
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		for _, f := range a.detector.DetectString(string(content)) {
			findings = append(findings, fmt.Sprintf("%s at %s:%d", f.RuleID, rel, f.StartLine))
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, ctx.Err()) && ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("agent %q: scan %s: %w", a.name, root, walkErr)
	}

	a.logger.Debug("secret scan complete",
		zap.String("module", module),
		zap.Int("files", scanned),
		zap.Int("findings", len(findings)),
	)

	if len(findings) > 0 {
		return Result{
			Passed:  false,
			Details: truncateDetails(fmt.Sprintf("%d potential secret(s): %s", len(findings), strings.Join(findings, "; "))),
		}, nil
	}
	return Result{Passed: true, Details: fmt.Sprintf("no secrets in %d file(s)", scanned)}, nil
}
