package pages

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/cenkalti/backoff/v4"
)

// maxPageSize bounds the body read from the origin.
const maxPageSize = 8 << 20

// Remote fetches pages from a running site, the way a browser-side router would.
type Remote struct {
	origin  *url.URL
	routes  map[string]string
	client  *http.Client
	retries uint64
}

// RemoteOption configures a Remote source.
type RemoteOption func(*Remote)

// WithRoutes maps namespaces to paths. Unmapped namespaces are fetched from "/<namespace>".
func WithRoutes(routes map[string]string) RemoteOption {
	return func(r *Remote) {
		for ns, path := range routes {
			r.routes[ns] = path
		}
	}
}

// WithHTTPClient overrides the client used for fetches.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		if client != nil {
			r.client = client
		}
	}
}

// WithFetchRetries sets how many times a failed fetch is retried.
func WithFetchRetries(n uint64) RemoteOption {
	return func(r *Remote) {
		r.retries = n
	}
}

// NewRemote creates a source fetching from origin.
func NewRemote(origin string, opts ...RemoteOption) (*Remote, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid origin %q: scheme must be http or https", origin)
	}
	r := &Remote{
		origin:  u,
		routes:  make(map[string]string),
		client:  &http.Client{Timeout: 10 * time.Second},
		retries: 2,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// URL returns the address a namespace is fetched from.
func (r *Remote) URL(namespace string) string {
	path, ok := r.routes[namespace]
	if !ok {
		path = "/" + namespace
	}
	ref, err := url.Parse(path)
	if err != nil {
		return r.origin.String()
	}
	return r.origin.ResolveReference(ref).String()
}

// Page fetches and parses the page of namespace. Server errors are retried;
// a 404 maps to domain.ErrPageNotFound.
func (r *Remote) Page(ctx context.Context, namespace string) (*domain.Page, error) {
	target := r.URL(namespace)
	var markup string

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "text/html")
		req.Header.Set("X-Barba", "yes")

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrPageNotFound, target))
		case resp.StatusCode >= 500:
			return fmt.Errorf("fetch %s: %s", target, resp.Status)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("fetch %s: %s", target, resp.Status))
		}
		if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
			return backoff.Permanent(fmt.Errorf("fetch %s: unexpected content type %q", target, ct))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
		if err != nil {
			return err
		}
		markup = string(body)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}

	page, err := dom.LoadPage(namespace, target, markup)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", namespace, err)
	}
	return page, nil
}
