// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client is the single Modbus TCP session to the charging controller.
// It implements poller.Client and guardian.Link.
// This adapter is geometry-only: it issues reads and unpacks raw registers.
type Client struct {
	mu        sync.Mutex
	cfg       Config
	handler   *modbus.TCPClientHandler
	client    modbus.Client
	connected bool
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New builds an unconnected client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg}, nil
}

// Connect dials a fresh session, dropping any previous one.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	h := modbus.NewTCPClientHandler(c.cfg.Endpoint)
	h.Timeout = c.cfg.Timeout
	h.SlaveId = c.cfg.UnitID
	// Keep the socket across poll intervals; the guardian decides liveness.
	h.IdleTimeout = 0

	if err := h.Connect(); err != nil {
		return fmt.Errorf("modbus client: connect %s: %w", c.cfg.Endpoint, err)
	}

	c.handler = h
	c.client = modbus.NewClient(h)
	c.connected = true
	return nil
}

// Close closes the TCP connection. Safe on a closed client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.handler == nil {
		c.connected = false
		return nil
	}
	err := c.handler.Close()
	c.handler = nil
	c.client = nil
	c.connected = false
	return err
}

// IsConnected reports whether the client believes the session is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ---- poller.Client interface ----

func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, errors.New("modbus client: not connected")
	}
	if qty == 0 {
		return nil, nil
	}

	data, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(data) != int(qty)*2 {
		return nil, fmt.Errorf("modbus: read-registers got %d bytes, want %d", len(data), int(qty)*2)
	}
	return unpackRegisters(data), nil
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
