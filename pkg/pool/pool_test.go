package pool

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewConnectionPool(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), zap.NewNop())
	if pool == nil {
		t.Fatal("Expected non-nil pool")
	}

	if got := pool.Stats()["http_clients"]; got != 0 {
		t.Errorf("Expected 0 http clients, got %d", got)
	}
}

func TestConnectionPool_GetHTTPClient(t *testing.T) {
	pool := NewConnectionPool(DefaultPoolConfig(), nil)

	client1 := pool.GetHTTPClient("https://api.cloudinary.com")
	if client1 == nil {
		t.Fatal("Expected non-nil client")
	}

	client2 := pool.GetHTTPClient("https://api.cloudinary.com")
	if client1 != client2 {
		t.Error("Expected same client instance")
	}

	pool.GetHTTPClient("http://localhost:9000")
	if got := pool.Stats()["http_clients"]; got != 2 {
		t.Errorf("Expected 2 http clients, got %d", got)
	}
}

func TestConnectionPool_TransportSettings(t *testing.T) {
	config := DefaultPoolConfig()
	config.RequestTimeout = 7 * time.Second
	pool := NewConnectionPool(config, nil)

	secure := pool.GetHTTPClient("https://api.cloudinary.com")
	if secure.Timeout != 7*time.Second {
		t.Errorf("Expected 7s timeout, got %s", secure.Timeout)
	}
	transport := secure.Transport.(*http.Transport)
	if transport.TLSClientConfig == nil {
		t.Error("Expected TLS config for https address")
	}
	if transport.MaxIdleConnsPerHost != config.MaxIdleConnsPerHost {
		t.Errorf("Expected %d idle conns per host, got %d", config.MaxIdleConnsPerHost, transport.MaxIdleConnsPerHost)
	}

	plain := pool.GetHTTPClient("http://localhost:9000").Transport.(*http.Transport)
	if plain.TLSClientConfig != nil {
		t.Error("Expected no TLS config for http address")
	}

	pool.CloseIdleConnections()
}
