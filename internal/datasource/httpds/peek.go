package httpds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchFirstBytes retrieves up to n bytes from url. The probe uses it to
// sample an export's header region without downloading the whole file.
//
// A Range header asks the server for the prefix; a client-side LimitedReader
// caps the result even when the server ignores Range and answers 200 with
// the full body. The returned slice length is <= n.
func (c *Client) FetchFirstBytes(ctx context.Context, url string, headers http.Header, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("httpds: n must be > 0")
	}

	h := make(http.Header)
	for k, vs := range headers {
		for _, v := range vs {
			h.Set(k, v)
		}
	}
	h.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := c.Get(ctx, url, h)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	lr := &io.LimitedReader{R: resp.Body, N: int64(n)}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BasicAuthHeader builds the Authorization header for endpoints that protect
// exports with basic auth. Empty credentials yield an empty header.
func BasicAuthHeader(user, pass string) http.Header {
	h := make(http.Header)
	if user != "" || pass != "" {
		h.Set("Authorization", basicAuth(user, pass))
	}
	return h
}
