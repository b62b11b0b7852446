package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Upload writes an object into the default bucket via the JSON media upload
// endpoint. GCS media uploads replace any existing object with the same name,
// so repeated exports for one batch converge on the latest content.
func (c *Client) Upload(ctx context.Context, object string, data []byte, contentType string) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if object == "" {
		return errors.New("object name is required")
	}
	if contentType == "" {
		return errors.New("content type is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return fmt.Errorf("fetching token: %w", err)
	}

	u := fmt.Sprintf(
		"%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		c.baseURL,
		url.PathEscape(c.defaultBucket),
		url.QueryEscape(object),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("gcs upload failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("gcs upload failed: %s", resp.Status)
	}

	return nil
}

// PublicURL returns the stable public location of an object in the default
// bucket. The URL resolves as long as the bucket grants public read.
func (c *Client) PublicURL(object string) string {
	if c == nil || object == "" {
		return ""
	}
	escaped := make([]string, 0, 4)
	for _, part := range strings.Split(object, "/") {
		escaped = append(escaped, url.PathEscape(part))
	}
	return fmt.Sprintf("%s/%s/%s", defaultBaseURL, url.PathEscape(c.defaultBucket), strings.Join(escaped, "/"))
}
