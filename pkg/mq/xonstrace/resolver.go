package xonstrace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResolveBody 地址服务响应体上限
const maxResolveBody = 64 << 10

// Resolver 通过地址服务获取 NameServer 地址。
type Resolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// HTTPResolver 以 GET 请求地址服务，响应体即 NameServer 地址。
// 超时由调用方的 ctx 控制。
type HTTPResolver struct {
	Client *http.Client
}

// NewHTTPResolver 使用带 OTel 埋点的 Transport。
func NewHTTPResolver() *HTTPResolver {
	return &HTTPResolver{
		Client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

// Resolve 非 2xx 或空响应返回 ErrResolveFailed。
func (r *HTTPResolver) Resolve(ctx context.Context, url string) (string, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("xonstrace: build resolve request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("xonstrace: resolve %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResolveBody))
	if err != nil {
		return "", fmt.Errorf("xonstrace: read resolve response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: status %d", ErrResolveFailed, resp.StatusCode)
	}
	addr := strings.TrimSpace(string(body))
	if addr == "" {
		return "", fmt.Errorf("%w: empty response", ErrResolveFailed)
	}
	return addr, nil
}
