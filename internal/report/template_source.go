package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// TemplateSource supplies the raw bytes of the template workbook.
type TemplateSource interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileTemplate reads the template from disk on every export.
type FileTemplate struct {
	Path string
}

func (t FileTemplate) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", t.Path, err)
	}
	return data, nil
}

// HTTPTemplate downloads the template from a URL.
type HTTPTemplate struct {
	URL    string
	Client *http.Client
}

func (t HTTPTemplate) Load(ctx context.Context) ([]byte, error) {
	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch template: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch template: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// BytesTemplate serves a template already held in memory.
type BytesTemplate []byte

func (t BytesTemplate) Load(ctx context.Context) ([]byte, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("template is empty")
	}
	return t, nil
}

// NewTemplateSource prefers url when set, otherwise path.
func NewTemplateSource(path, url string) TemplateSource {
	if url != "" {
		return HTTPTemplate{URL: url}
	}
	return FileTemplate{Path: path}
}
