package units

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
)

// GitStackConfig describes a git-sourced stack checkout.
type GitStackConfig struct {
	Target string
	URL    string
	Branch string
	Depth  int
}

type gitStack struct {
	orchestrator.NoopDestroy
	cfg GitStackConfig
	ctx *orchestrator.Context
}

// NewGitStack returns a UnitFactory checking out cfg.URL into the
// build-output dir on Build and reporting the resolved commit hash as its
// output.
func NewGitStack(cfg GitStackConfig) orchestrator.UnitFactory {
	return func(c *orchestrator.Context) orchestrator.Unit {
		return &gitStack{cfg: cfg, ctx: c}
	}
}

// checkoutDir lives under BuildOutputDir, not BuildDir: BuildDir is cleared
// on every invocation before IsBuildOutdated is even consulted, so anything
// a skipped build needs to still be there has to survive in BuildOutputDir.
func (u *gitStack) checkoutDir() string {
	return filepath.Join(u.ctx.BuildOutputDir, "checkout")
}

func (u *gitStack) IsBuildOutdated(ctx context.Context) (bool, error) {
	fingerprint := u.fingerprint()
	matches, err := fingerprintMatches(u.ctx.BuildOutputDir, fingerprint)
	if err != nil {
		return false, err
	}
	return !matches, nil
}

func (u *gitStack) fingerprint() string {
	return fmt.Sprintf("%s@%s", u.cfg.URL, u.cfg.Branch)
}

func (u *gitStack) Build(ctx context.Context) error {
	dir := u.checkoutDir()
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear checkout dir: %w", err)
	}

	opts := &git.CloneOptions{URL: u.cfg.URL}
	if u.cfg.Depth > 0 {
		opts.Depth = u.cfg.Depth
	}
	if u.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(u.cfg.Branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return fmt.Errorf("clone %s: %w", u.cfg.URL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	record := orchestrator.OutputRecord{
		"url":      u.cfg.URL,
		"branch":   u.cfg.Branch,
		"commit":   head.Hash().String(),
		"checkout": dir,
	}
	return saveOutput(u.ctx.BuildOutputDir, record, u.fingerprint())
}

func (u *gitStack) GetBuildOutput(ctx context.Context) (orchestrator.OutputRecord, error) {
	return loadOutput(u.ctx.BuildOutputDir, u.cfg.Target)
}
