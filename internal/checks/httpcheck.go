package checks

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

func NewHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

var defaultClient = &http.Client{Transport: NewHTTPTransport()}

// HTTPCheck probes one endpoint and passes when the response status
// matches ExpectStatus. Its Run method satisfies RunFunc.
type HTTPCheck struct {
	URL          string
	Method       string // defaults to GET
	BearerToken  string
	ExpectStatus int // defaults to 200
	Client       *http.Client
}

func (hc HTTPCheck) Run(ctx context.Context) error {
	method := hc.Method
	if method == "" {
		method = http.MethodGet
	}
	expect := hc.ExpectStatus
	if expect == 0 {
		expect = http.StatusOK
	}
	client := hc.Client
	if client == nil {
		client = defaultClient
	}

	req, err := http.NewRequestWithContext(ctx, method, hc.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if hc.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+hc.BearerToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != expect {
		return fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, expect)
	}
	return nil
}
