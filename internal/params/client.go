package params

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
)

// maxResponse bounds the query fragment read from the endpoint.
const maxResponse = 64 << 10

// Resolver turns a metric form into a query fragment.
type Resolver interface {
	Resolve(ctx context.Context, form *Form) (string, error)
}

// Client posts forms to an HTTP params endpoint.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient returns a client for url with a bounded request timeout.
func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve posts form and returns the response body, trimmed of
// surrounding whitespace.
func (c *Client) Resolve(ctx context.Context, form *Form) (string, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return "", errors.ParamsError("failed to encode metric form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", errors.ParamsError("invalid params endpoint", err)
	}
	req.Header.Set("Content-Type", contentType)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", errors.ParamsError("params request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return "", errors.ParamsError("failed to read params response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.ParamsError(
			fmt.Sprintf("params endpoint returned %s", resp.Status),
			fmt.Errorf("%s", strings.TrimSpace(string(data))))
	}

	qs := strings.TrimSpace(string(data))
	logging.Debug("metric params resolved", "entries", form.Len(), "fragment", qs, "duration", time.Since(start))
	return qs, nil
}

// Static is a Resolver that always answers Fragment.
type Static struct {
	Fragment string
	Err      error

	// Forms records every submitted form.
	Forms []*Form
}

func (s *Static) Resolve(_ context.Context, form *Form) (string, error) {
	s.Forms = append(s.Forms, form)
	return s.Fragment, s.Err
}
