package inkwell

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultDatabase is the database selected when no name is configured.
const DefaultDatabase = "marys-blog"

// Store is an explicitly constructed handle to the document database.
// The underlying client is a driver-managed connection pool and is safe for
// concurrent use; a single Store is shared by every repository in a process.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	mw     []MiddlewareFunc
}

// ConnectOption configures Connect.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	timeout    time.Duration
	middleware []MiddlewareFunc
}

// WithTimeout sets the driver-level timeout applied to every operation.
// Zero leaves the driver default in place.
func WithTimeout(d time.Duration) ConnectOption {
	return func(c *connectConfig) { c.timeout = d }
}

// WithMiddleware registers middleware on the returned Store.
func WithMiddleware(fns ...MiddlewareFunc) ConnectOption {
	return func(c *connectConfig) { c.middleware = append(c.middleware, fns...) }
}

// Connect opens a connection to MongoDB, verifies it with a ping and selects dbName.
// Errors are returned to the caller as-is; there is no retry.
func Connect(ctx context.Context, uri string, dbName string, opts ...ConnectOption) (*Store, error) {
	var cfg connectConfig
	for _, o := range opts {
		o(&cfg)
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}

	clientOpts := options.Client().ApplyURI(uri)
	if cfg.timeout > 0 {
		clientOpts.SetTimeout(cfg.timeout)
	}
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("inkwell: failed to connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("inkwell: failed to ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	s.Use(cfg.middleware...)
	return s, nil
}

// NewStore wraps an already connected database handle.
// Close on such a store disconnects the handle's client.
func NewStore(db *mongo.Database) *Store {
	s := &Store{db: db}
	if db != nil {
		s.client = db.Client()
	}
	return s
}

// DB returns the underlying database, or nil when the store is not connected.
func (s *Store) DB() *mongo.Database {
	if s == nil {
		return nil
	}
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return ErrUnavailable
	}
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client. It is safe to call on a nil store.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Collection resolves the registered schema for model and returns its collection.
// An unconnected store reports KindUnavailable naming the collection.
func (s *Store) Collection(model interface{}) (*mongo.Collection, *Schema, error) {
	schema, err := getSchemaForModel(model)
	if err != nil {
		return nil, nil, err
	}
	if s == nil || s.db == nil {
		return nil, schema, Unavailable(schema.Collection)
	}
	return s.db.Collection(schema.Collection), schema, nil
}
