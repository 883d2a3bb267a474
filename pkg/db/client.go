package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the single query primitive the health prober needs.
type Querier interface {
	Exec(ctx context.Context, sql string) error
}

// Client is the minimal surface the Manager drives on the underlying
// database driver. The Manager owns the client exclusively: it constructs a
// fresh one per connection attempt and discards it on disconnect or failure.
type Client interface {
	// Connect establishes the connection. It blocks until the connection is
	// verified usable or an error occurs.
	Connect(ctx context.Context) error
	// Close releases the connection. Safe to call on a never-connected client.
	Close(ctx context.Context) error
	Querier
}

// PoolStater is optionally implemented by clients that can report live
// connection pool counts. The health prober falls back to a capacity
// estimate derived from configuration when the client cannot.
type PoolStater interface {
	PoolStat() PoolSnapshot
}

// ClientFactory builds a Client from resolved configuration. The default
// factory produces pgx-backed clients; tests inject fakes.
type ClientFactory func(cfg Config) Client

// pgxClient adapts a pgxpool.Pool to the Client interface.
type pgxClient struct {
	cfg  Config
	pool *pgxpool.Pool
}

func newPgxClient(cfg Config) Client {
	return &pgxClient{cfg: cfg}
}

func (c *pgxClient) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(c.connString().URL())
	if err != nil {
		return err
	}
	poolCfg.MaxConns = c.cfg.MaxConns
	poolCfg.ConnConfig.ConnectTimeout = c.cfg.ConnectTimeout
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "parasocial"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}

	// The pool dials lazily; ping to catch bad hosts, credentials, and
	// permissions up front.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return err
	}

	c.pool = pool
	return nil
}

// Close is safe to call on a never-connected client. The pool reference is
// kept so an abandoned probe racing the close reads a closed pool rather
// than a torn field.
func (c *pgxClient) Close(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	c.pool.Close()
	return nil
}

func (c *pgxClient) Exec(ctx context.Context, sql string) error {
	if c.pool == nil {
		return ErrNotConnected
	}
	_, err := c.pool.Exec(ctx, sql)
	return err
}

// PoolStat reports live pool counts from pgx.
func (c *pgxClient) PoolStat() PoolSnapshot {
	if c.pool == nil {
		return PoolSnapshot{}
	}
	s := c.pool.Stat()
	return PoolSnapshot{
		Active: s.AcquiredConns(),
		Idle:   s.IdleConns(),
		Total:  s.MaxConns(),
	}
}

func (c *pgxClient) connString() ConnString {
	return ConnString{
		Host:       c.cfg.Host,
		Port:       c.cfg.Port,
		Database:   c.cfg.Database,
		User:       c.cfg.User,
		Password:   c.cfg.Password,
		TLSEnabled: c.cfg.TLSEnabled,
	}
}

var (
	_ Client     = (*pgxClient)(nil)
	_ PoolStater = (*pgxClient)(nil)
)
