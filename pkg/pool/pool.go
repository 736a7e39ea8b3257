package pool

import (
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PoolConfig defines connection pool configuration
type PoolConfig struct {
	ConnectionTimeout   time.Duration `json:"connection_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
	IdleTimeout         time.Duration `json:"idle_timeout"`
	MaxIdleConns        int           `json:"max_idle_conns"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host"`
}

// DefaultPoolConfig returns sensible defaults
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		ConnectionTimeout:   5 * time.Second,
		RequestTimeout:      30 * time.Second,
		IdleTimeout:         90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}
}

// ConnectionPool hands out one keep-alive HTTP client per backend address.
type ConnectionPool struct {
	mu          sync.RWMutex
	httpClients map[string]*http.Client
	config      PoolConfig
	logger      *zap.Logger
}

// NewConnectionPool creates a new connection pool
func NewConnectionPool(config PoolConfig, logger *zap.Logger) *ConnectionPool {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConnectionPool{
		httpClients: make(map[string]*http.Client),
		config:      config,
		logger:      logger,
	}
}

// GetHTTPClient returns the client for address, creating it on first use.
// HTTPS addresses get a TLS 1.2 minimum.
func (p *ConnectionPool) GetHTTPClient(address string) *http.Client {
	p.mu.RLock()
	client, exists := p.httpClients[address]
	p.mu.RUnlock()

	if exists {
		return client
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists = p.httpClients[address]; exists {
		return client
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   p.config.ConnectionTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          p.config.MaxIdleConns,
		MaxIdleConnsPerHost:   p.config.MaxIdleConnsPerHost,
		IdleConnTimeout:       p.config.IdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	tlsEnabled := strings.HasPrefix(address, "https://")
	if tlsEnabled {
		transport.TLSClientConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client = &http.Client{
		Transport: transport,
		Timeout:   p.config.RequestTimeout,
	}
	p.httpClients[address] = client

	p.logger.Info("Created new HTTP client",
		zap.String("address", address),
		zap.Bool("tls_enabled", tlsEnabled),
	)

	return client
}

// CloseIdleConnections drops idle keep-alive connections of every client
func (p *ConnectionPool) CloseIdleConnections() {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, client := range p.httpClients {
		client.CloseIdleConnections()
	}
}

// Stats returns pool statistics
func (p *ConnectionPool) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]int{
		"http_clients": len(p.httpClients),
	}
}
