// Package natsclient manages the NATS connection behind the JetStream
// key-value cache store: connect with retry, bucket access, drain on
// close.
package natsclient

import (
	"context"
	goerrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/builtnorth/schemagraph/errors"
)

// Client wraps a NATS connection with JetStream access. Safe for
// concurrent use after Connect.
type Client struct {
	url    string
	logger *slog.Logger

	clientName    string
	maxReconnects int
	reconnectWait time.Duration
	timeout       time.Duration
	drainTimeout  time.Duration

	mu   sync.RWMutex
	conn *nats.Conn
	js   jetstream.JetStream
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClientName sets the connection name visible to the server.
func WithClientName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.clientName = name
		}
	}
}

// WithTimeout sets the dial timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient creates a client for the given server URL. Connect must be
// called before use.
func NewClient(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.WrapInvalid(goerrors.New("url cannot be empty"),
			"Client", "NewClient", "url validation")
	}

	c := &Client{
		url:           url,
		logger:        slog.Default(),
		clientName:    "schemagraph",
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the server URL.
func (c *Client) URL() string { return c.url }

// Connect dials the server and sets up JetStream. Reconnects are
// handled by the underlying connection; handlers only log.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.conn.IsConnected() {
		return nil
	}

	conn, err := nats.Connect(c.url,
		nats.Name(c.clientName),
		nats.Timeout(c.timeout),
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.logger.Warn("nats disconnected", "url", c.url, "error", err)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			c.logger.Info("nats reconnected", "url", conn.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			c.logger.Info("nats connection closed", "url", c.url)
		}),
	)
	if err != nil {
		return errors.WrapTransient(err, "Client", "Connect", "dial "+c.url)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "Client", "Connect", "jetstream setup")
	}

	c.conn = conn
	c.js = js
	c.logger.Debug("nats connected", "url", conn.ConnectedUrl())

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// IsConnected reports whether the underlying connection is up.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// JetStream returns the JetStream handle.
func (c *Client) JetStream() (jetstream.JetStream, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.js == nil {
		return nil, errors.WrapTransient(goerrors.New("not connected"),
			"Client", "JetStream", "handle access")
	}
	return c.js, nil
}

// KeyValueBucket opens a KV bucket, creating it when absent.
func (c *Client) KeyValueBucket(ctx context.Context, bucket string) (jetstream.KeyValue, error) {
	js, err := c.JetStream()
	if err != nil {
		return nil, err
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "schemagraph cache entries",
		History:     1,
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "Client", "KeyValueBucket", "bucket "+bucket)
	}
	return kv, nil
}

// Close drains the connection, waiting up to the drain timeout for
// in-flight messages.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil
	c.js = nil

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := conn.Drain(); err != nil {
			c.logger.Warn("nats drain failed, closing hard", "error", err)
			conn.Close()
		}
	}()

	select {
	case <-done:
		return nil
	case <-time.After(c.drainTimeout):
		conn.Close()
		return errors.WrapTransient(goerrors.New("drain timeout"), "Client", "Close", "drain")
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	}
}
