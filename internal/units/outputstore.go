// Package units provides sample orchestrator.Unit implementations: a
// git-sourced stack checkout, a code archive, and an HTTP-invocation
// notifier. Each persists its build output as JSON plus a sha256 freshness
// witness under the build-output dir, persisted atomically via a
// temp-file-then-rename the same way a status cache would.
package units

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

const (
	outputFileName = "output.json"
	hashFileName   = "output.hash"
)

// saveOutput writes record and a witness hash of fingerprint to dir,
// atomically (temp file then rename), mirroring StatusCache.Save.
func saveOutput(dir string, record orchestrator.OutputRecord, fingerprint string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output record: %w", err)
	}

	if err := atomicWrite(filepath.Join(dir, outputFileName), data); err != nil {
		return err
	}

	sum := sha256.Sum256([]byte(fingerprint))
	return atomicWrite(filepath.Join(dir, hashFileName), []byte(hex.EncodeToString(sum[:])))
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// loadOutput reads back a previously saved record. Returns
// *depctlerr.BuildNotFound if target has never built successfully.
func loadOutput(dir, target string) (orchestrator.OutputRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, outputFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, depctlerr.NewBuildNotFound(target, nil)
		}
		return nil, fmt.Errorf("read output record: %w", err)
	}

	var record orchestrator.OutputRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal output record: %w", err)
	}
	return record, nil
}

// storedFingerprint reads back the witness hash saved alongside the output
// record, or "" if none has been saved yet.
func storedFingerprint(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, hashFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read output hash: %w", err)
	}
	return string(data), nil
}

// fingerprintMatches compares fingerprint against the saved witness, hashing
// fingerprint the same way saveOutput does.
func fingerprintMatches(dir, fingerprint string) (bool, error) {
	stored, err := storedFingerprint(dir)
	if err != nil {
		return false, err
	}
	if stored == "" {
		return false, nil
	}
	sum := sha256.Sum256([]byte(fingerprint))
	return stored == hex.EncodeToString(sum[:]), nil
}
