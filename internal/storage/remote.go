package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultRemoteTimeout = 30 * time.Second

// RemoteStore posts images to an HTTP object store as multipart form data.
// The store answers with JSON holding secure_url or url.
type RemoteStore struct {
	endpoint string
	preset   string
	apiKey   string
	timeout  time.Duration
}

// NewRemoteStore creates a store that uploads to endpoint.
func NewRemoteStore(endpoint, preset, apiKey string) *RemoteStore {
	return &RemoteStore{
		endpoint: endpoint,
		preset:   preset,
		apiKey:   apiKey,
		timeout:  defaultRemoteTimeout,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *RemoteStore) Upload(ctx context.Context, img Image) (string, error) {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	if s.preset != "" {
		args.Set("upload_preset", s.preset)
	}
	if s.apiKey != "" {
		args.Set("api_key", s.apiKey)
	}

	filename := img.Filename
	if filename == "" {
		filename = "image" + extensionFor(img)
	}

	agent := fiber.Post(s.endpoint)
	agent.Timeout(timeout)
	agent.FileData(&fiber.FormFile{Fieldname: "file", Name: filename, Content: img.Data})
	agent.MultipartForm(args)
	if err := agent.Parse(); err != nil {
		return "", fmt.Errorf("prepare upload request: %w", err)
	}

	var resp uploadResponse
	code, body, errs := agent.Struct(&resp)
	if code >= 400 {
		if resp.Error != nil && resp.Error.Message != "" {
			return "", fmt.Errorf("object store returned %d: %s", code, resp.Error.Message)
		}
		return "", fmt.Errorf("object store returned %d: %s", code, truncate(string(body), 200))
	}
	if len(errs) > 0 {
		return "", fmt.Errorf("upload request: %w", errors.Join(errs...))
	}

	switch {
	case resp.SecureURL != "":
		return resp.SecureURL, nil
	case resp.URL != "":
		return resp.URL, nil
	}
	return "", errors.New("object store response did not include a url")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
