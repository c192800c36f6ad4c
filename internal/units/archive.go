package units

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
)

// ArchiveConfig describes a zip archive built from a dependency's checkout.
type ArchiveConfig struct {
	Target      string
	SourceDep   string // name of the successor target whose "checkout" output key is archived
	ArchiveName string
}

type archiveUnit struct {
	orchestrator.NoopDestroy
	cfg ArchiveConfig
	ctx *orchestrator.Context
}

// NewArchive returns a UnitFactory that zips the checkout directory reported
// by cfg.SourceDep's build output.
func NewArchive(cfg ArchiveConfig) orchestrator.UnitFactory {
	return func(c *orchestrator.Context) orchestrator.Unit {
		return &archiveUnit{cfg: cfg, ctx: c}
	}
}

func (u *archiveUnit) sourceDir() (string, error) {
	dep, ok := u.ctx.Input[u.cfg.SourceDep]
	if !ok {
		return "", fmt.Errorf("archive: no input recorded for dependency %q", u.cfg.SourceDep)
	}
	checkout, ok := dep["checkout"].(string)
	if !ok {
		return "", fmt.Errorf("archive: dependency %q did not report a \"checkout\" path", u.cfg.SourceDep)
	}
	return checkout, nil
}

// archivePath lives under BuildOutputDir, not BuildDir: BuildDir is cleared
// on every invocation before IsBuildOutdated is even consulted, so a skipped
// build would find the zip it reports already gone.
func (u *archiveUnit) archivePath() string {
	return filepath.Join(u.ctx.BuildOutputDir, u.cfg.ArchiveName)
}

func (u *archiveUnit) fingerprint() (string, error) {
	dep, ok := u.ctx.Input[u.cfg.SourceDep]
	if !ok {
		return "", fmt.Errorf("archive: no input recorded for dependency %q", u.cfg.SourceDep)
	}
	commit, _ := dep["commit"].(string)
	return fmt.Sprintf("%s@%s", u.cfg.SourceDep, commit), nil
}

func (u *archiveUnit) IsBuildOutdated(ctx context.Context) (bool, error) {
	fingerprint, err := u.fingerprint()
	if err != nil {
		return true, nil
	}
	matches, err := fingerprintMatches(u.ctx.BuildOutputDir, fingerprint)
	if err != nil {
		return false, err
	}
	return !matches, nil
}

func (u *archiveUnit) Build(ctx context.Context) error {
	srcDir, err := u.sourceDir()
	if err != nil {
		return err
	}

	archivePath := u.archivePath()
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("archive %s: %w", srcDir, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	fingerprint, err := u.fingerprint()
	if err != nil {
		return err
	}

	record := orchestrator.OutputRecord{
		"archive": archivePath,
		"source":  srcDir,
	}
	return saveOutput(u.ctx.BuildOutputDir, record, fingerprint)
}

func (u *archiveUnit) GetBuildOutput(ctx context.Context) (orchestrator.OutputRecord, error) {
	return loadOutput(u.ctx.BuildOutputDir, u.cfg.Target)
}
