package blockchain

import (
	"fmt"
	"sync"
)

// ClientFactory caches chain clients per RPC URL.
type ClientFactory struct {
	clients map[string]*ChainClient
	mu      sync.RWMutex
}

// NewClientFactory creates a new client factory
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		clients: make(map[string]*ChainClient),
	}
}

// GetChainClient returns a chain client for the given RPC URL.
// If a client already exists for the URL, it returns the cached client.
func (f *ClientFactory) GetChainClient(rpcURL string) (*ChainClient, error) {
	f.mu.RLock()
	client, ok := f.clients[rpcURL]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if client, ok := f.clients[rpcURL]; ok {
		return client, nil
	}

	newClient, err := NewChainClient(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain client: %w", err)
	}

	f.clients[rpcURL] = newClient
	return newClient, nil
}

// RegisterChainClient injects/overrides the cached client for a specific
// rpcURL. Useful for deterministic unit tests.
func (f *ClientFactory) RegisterChainClient(rpcURL string, client *ChainClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[rpcURL] = client
}
