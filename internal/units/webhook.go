package units

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
)

// WebhookConfig describes an HTTP notification fired against a dependency's
// archive output.
type WebhookConfig struct {
	Target    string
	SourceDep string // name of the successor target whose "archive" output key is uploaded
	URL       string
	Method    string // defaults to POST
}

type webhookUnit struct {
	orchestrator.NoopDestroy
	cfg    WebhookConfig
	ctx    *orchestrator.Context
	client *http.Client
}

// NewWebhook returns a UnitFactory that POSTs the archive reported by
// cfg.SourceDep's build output to cfg.URL.
func NewWebhook(cfg WebhookConfig) orchestrator.UnitFactory {
	return func(c *orchestrator.Context) orchestrator.Unit {
		return &webhookUnit{cfg: cfg, ctx: c, client: http.DefaultClient}
	}
}

func (u *webhookUnit) archivePath() (string, error) {
	dep, ok := u.ctx.Input[u.cfg.SourceDep]
	if !ok {
		return "", fmt.Errorf("webhook: no input recorded for dependency %q", u.cfg.SourceDep)
	}
	path, ok := dep["archive"].(string)
	if !ok {
		return "", fmt.Errorf("webhook: dependency %q did not report an \"archive\" path", u.cfg.SourceDep)
	}
	return path, nil
}

func (u *webhookUnit) method() string {
	if u.cfg.Method == "" {
		return http.MethodPost
	}
	return u.cfg.Method
}

// IsBuildOutdated always reports true: a notification is an action, not a
// durable resource, so there is nothing to compare a freshness witness
// against. Every build re-sends the notification.
func (u *webhookUnit) IsBuildOutdated(ctx context.Context) (bool, error) {
	return true, nil
}

func (u *webhookUnit) Build(ctx context.Context) error {
	archivePath, err := u.archivePath()
	if err != nil {
		return err
	}

	body, err := readAll(archivePath)
	if err != nil {
		return fmt.Errorf("webhook: read archive %s: %w", archivePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, u.method(), u.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/zip")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request to %s: %w", u.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: %s returned status %d", u.cfg.URL, resp.StatusCode)
	}

	sum := sha256.Sum256(body)
	record := orchestrator.OutputRecord{
		"url":         u.cfg.URL,
		"status_code": resp.StatusCode,
		"payload_sha": hex.EncodeToString(sum[:]),
	}
	return saveOutput(u.ctx.BuildOutputDir, record, fmt.Sprintf("%s@%d", u.cfg.URL, resp.StatusCode))
}

func (u *webhookUnit) GetBuildOutput(ctx context.Context) (orchestrator.OutputRecord, error) {
	return loadOutput(u.ctx.BuildOutputDir, u.cfg.Target)
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
