package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/internal/api"
	"github.com/matzehuels/stresslayout/internal/config"
	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/store"
)

// apiKeyPrefix keeps API cache entries apart from CLI entries in a shared cache.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		mongoURI  string
		storeDir  string
		noCache   bool
		rateLimit float64
		burst     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layouts are stored in MongoDB when --mongo-uri (or server.mongo_uri) is set,
in --store-dir when given, and in memory otherwise. The cache backend follows
the [cache] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := c.Config.Server
			if !cmd.Flags().Changed("addr") && srv.Addr != "" {
				addr = srv.Addr
			}
			if mongoURI == "" {
				mongoURI = srv.MongoURI
			}
			if storeDir == "" {
				storeDir = srv.StoreDir
			}
			if !cmd.Flags().Changed("rate-limit") {
				rateLimit = srv.RateLimit
			}
			if !cmd.Flags().Changed("burst") {
				burst = srv.Burst
			}
			return c.runServe(cmd.Context(), addr, mongoURI, storeDir, noCache, rateLimit, burst)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string for layout storage")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "directory for layout storage when MongoDB is not used")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", config.DefaultRateLimit, "requests per second per client (0 disables)")
	cmd.Flags().IntVar(&burst, "burst", config.DefaultBurst, "request burst per client")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI, storeDir string, noCache bool, rateLimit float64, burst int) error {
	st, err := c.newStore(ctx, mongoURI, storeDir)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, apiKeyPrefix))
	if err != nil {
		st.Close(context.Background())
		return fmt.Errorf("initialize runner: %w", err)
	}

	server := api.New(api.Config{
		Runner:    runner,
		Store:     st,
		Logger:    loggerFromContext(ctx),
		RateLimit: rateLimit,
		Burst:     burst,
	})
	defer server.Close(context.Background())

	return server.ListenAndServe(ctx, addr)
}

// newStore picks the layout store: MongoDB, a directory, or memory.
func (c *CLI) newStore(ctx context.Context, mongoURI, storeDir string) (store.Store, error) {
	switch {
	case mongoURI != "":
		st, err := store.NewMongoStore(ctx, mongoURI, c.Config.Server.MongoDatabase)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("Using MongoDB layout store", "database", c.Config.Server.MongoDatabase)
		return st, nil
	case storeDir != "":
		st, err := store.NewFileStore(storeDir)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("Using file layout store", "dir", st.Path())
		return st, nil
	default:
		c.Logger.Warn("Using in-memory layout store; layouts are lost on exit")
		return store.NewMemoryStore(), nil
	}
}
