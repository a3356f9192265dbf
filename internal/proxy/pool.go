package proxy

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ProxyPool manages a list of proxies with rotation and temporary benching
// of proxies that fail.
type ProxyPool struct {
	proxies []string
	index   int
	mu      sync.Mutex
	failed  map[string]time.Time
	bench   time.Duration
}

// NewProxyPool creates a new ProxyPool. A failed proxy is skipped for the
// bench duration.
func NewProxyPool(proxies []string, bench time.Duration) *ProxyPool {
	return &ProxyPool{
		proxies: proxies,
		failed:  make(map[string]time.Time),
		bench:   bench,
	}
}

// Len returns the number of configured proxies.
func (p *ProxyPool) Len() int {
	return len(p.proxies)
}

// GetNext returns the next healthy proxy from the pool, or "" when the pool
// is empty.
func (p *ProxyPool) GetNext() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failTime, ok := p.failed[proxy]; ok {
			if time.Since(failTime) < p.bench {
				if p.index == start {
					// Every proxy is benched; hand out the current one anyway
					return proxy
				}
				continue
			}
			delete(p.failed, proxy)
		}

		return proxy
	}
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *ProxyPool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = time.Now()
}

// MarkHealthy clears the failure status of a proxy
func (p *ProxyPool) MarkHealthy(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

type ctxKey struct{}

// WithProxy returns a context that routes requests made with it through the
// given proxy URL.
func WithProxy(ctx context.Context, proxyURL string) context.Context {
	if proxyURL == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, proxyURL)
}

// FromRequest is an http.Transport Proxy func that honors the proxy chosen
// with WithProxy and otherwise falls back to the environment.
func FromRequest(req *http.Request) (*url.URL, error) {
	if p, ok := req.Context().Value(ctxKey{}).(string); ok && p != "" {
		return url.Parse(p)
	}
	return http.ProxyFromEnvironment(req)
}
