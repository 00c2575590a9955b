package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/machviz/machina/internal/server"
	"github.com/machviz/machina/pkg/cache"
	"github.com/machviz/machina/pkg/render/graphviz"
	"github.com/machviz/machina/pkg/store"
)

// serveCommand creates the serve command for the HTTP rendering service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Long: `Run the HTTP rendering service.

The service exposes rendering over HTTP: POST a state machine or digraph
definition to /render/fsm or /render/digraph, or save definitions under
/diagrams and render them by id. Rendered artifacts are cached.

Configuration is read from the environment (a .env file is loaded if present):

  PORT               listen port (default 8080), overridden by --addr
  MACHINA_CACHE_DIR  artifact cache directory (default ~/.cache/machina)
  REDIS_ADDR         use Redis at this address for the artifact cache
  MONGO_URI          persist saved diagrams in MongoDB at this URI
  MONGO_DB           MongoDB database name (default "machina")`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. :8080 (default: from PORT)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runServe assembles the server from environment config and runs it until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	if err := godotenv.Load(); err == nil {
		c.Logger.Debug("loaded .env")
	}

	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr = ":" + port
	}

	diagrams, err := newServeStore(ctx, c)
	if err != nil {
		return err
	}
	defer diagrams.Close(context.Background())

	artifacts, err := newServeCache(ctx, c, noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	srv := server.New(server.Config{
		Addr:      addr,
		Store:     diagrams,
		Cache:     artifacts,
		Converter: graphviz.New(),
		Logger:    c.Logger,
	})

	c.Logger.Info("listening", "addr", addr)
	return srv.ListenAndServe(ctx)
}

// newServeStore picks the diagram store: MongoDB when MONGO_URI is set,
// in-memory otherwise.
func newServeStore(ctx context.Context, c *CLI) (store.Store, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		c.Logger.Debug("using in-memory diagram store")
		return store.NewMemoryStore(), nil
	}
	db := os.Getenv("MONGO_DB")
	if db == "" {
		db = appName
	}
	s, err := store.NewMongoStore(ctx, uri, db)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	c.Logger.Info("using mongodb diagram store", "db", db)
	return s, nil
}

// newServeCache picks the artifact cache: Redis when REDIS_ADDR is set,
// a file cache otherwise.
func newServeCache(ctx context.Context, c *CLI, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.Logger.Info("using redis artifact cache", "addr", addr)
		return rc, nil
	}
	dir := os.Getenv("MACHINA_CACHE_DIR")
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}
