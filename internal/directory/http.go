package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"keyward/internal/domain"
	"keyward/internal/errs"
)

// publishRequest is the wire shape for bundle publication.
type publishRequest struct {
	Bundle    domain.PreKeyBundle `json:"bundle"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// fetchResponse is the wire shape for a resolved bundle.
type fetchResponse struct {
	Ref    domain.BundleRecordRef `json:"ref"`
	Bundle domain.PreKeyBundle    `json:"bundle"`
}

// HTTPClient talks to a remote directory over JSON.
type HTTPClient struct {
	base string
	http *http.Client
}

// NewHTTPClient returns a client for the directory at base. A nil
// httpClient falls back to http.DefaultClient.
func NewHTTPClient(base string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{base: base, http: httpClient}
}

// PublishBundle uploads a new active bundle row.
func (c *HTTPClient) PublishBundle(
	ctx context.Context,
	user domain.UserID,
	device domain.DeviceID,
	bundle domain.PreKeyBundle,
	expiresAt time.Time,
) error {
	body, err := json.Marshal(publishRequest{Bundle: bundle, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("%s/v1/bundles/%s/%d", c.base, url.PathEscape(user.String()), device)
	return c.post(ctx, path, body)
}

// ConsumePreviousActive asks the directory to retire the current active
// row for (user, device).
func (c *HTTPClient) ConsumePreviousActive(ctx context.Context, user domain.UserID, device domain.DeviceID) error {
	path := fmt.Sprintf("%s/v1/bundles/%s/%d/consume", c.base, url.PathEscape(user.String()), device)
	return c.post(ctx, path, nil)
}

// FetchBundle resolves the active bundle for (user, device), forwarding
// the invitation token for the directory's eligibility check.
func (c *HTTPClient) FetchBundle(
	ctx context.Context,
	user domain.UserID,
	device domain.DeviceID,
	token domain.InviteToken,
) (domain.PreKeyBundle, domain.BundleRecordRef, bool, error) {
	path := fmt.Sprintf("%s/v1/bundles/%s/%d", c.base, url.PathEscape(user.String()), device)
	if token != "" {
		path += "?invite_token=" + url.QueryEscape(string(token))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.PreKeyBundle{}, "", false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PreKeyBundle{}, "", false, errs.DirectoryUnavailable("fetch bundle", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.PreKeyBundle{}, "", false, nil
	default:
		return domain.PreKeyBundle{}, "", false,
			errs.DirectoryUnavailable(fmt.Sprintf("fetch bundle: %s", resp.Status), nil)
	}

	var out fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.PreKeyBundle{}, "", false, err
	}
	return out.Bundle, out.Ref, true, nil
}

// MarkOneTimePreKeyConsumed flags the row whose one-time prekey was
// handed out.
func (c *HTTPClient) MarkOneTimePreKeyConsumed(ctx context.Context, ref domain.BundleRecordRef) error {
	path := fmt.Sprintf("%s/v1/prekeys/%s/consumed", c.base, url.PathEscape(ref.String()))
	return c.post(ctx, path, nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errs.DirectoryUnavailable("directory call", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errs.DirectoryUnavailable(fmt.Sprintf("directory call: %s", resp.Status), nil)
	}
	return nil
}

// Compile-time assertion that HTTPClient implements domain.Directory.
var _ domain.Directory = (*HTTPClient)(nil)
