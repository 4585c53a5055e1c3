// Command mood-journal runs the mood journal API server.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/justestif/go-mood-journal/internal/affirmation"
	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/config"
	"github.com/justestif/go-mood-journal/internal/db"
	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/lastfm"
	"github.com/justestif/go-mood-journal/internal/recommend"
	"github.com/justestif/go-mood-journal/internal/reflection"
	"github.com/justestif/go-mood-journal/internal/spotify"
	"github.com/justestif/go-mood-journal/internal/tags"
	"github.com/justestif/go-mood-journal/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Production gets its environment from the deployment.
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("WARN: loading .env: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	store, err := openStore(ctx, cfg, &closers)
	if err != nil {
		return err
	}

	readCache, err := openCache(ctx, cfg, &closers)
	if err != nil {
		return err
	}

	catalog, err := newCatalog(ctx, cfg, readCache)
	if err != nil {
		return err
	}
	engine := recommend.NewEngine(catalog, recommend.WithPageSize(cfg.PageSize))

	llm, err := newTextGenerator(ctx, cfg, &closers)
	if err != nil {
		return err
	}

	var reflector reflection.Generator = reflection.NewTemplateGenerator()
	affirmationOpts := []affirmation.Option{affirmation.WithCache(readCache)}
	if llm != nil {
		reflector = reflection.NewFallback(reflection.NewLLMGenerator(llm), reflector)
		affirmationOpts = append(affirmationOpts, affirmation.WithGenerator(llm))
	}

	log.Printf("Using %s catalog and %s reflections", cfg.Catalog, cfg.Reflection)

	server, err := web.NewServer(web.ServerConfig{
		Addr:           cfg.Addr,
		AllowedOrigins: cfg.AllowedOrigins,
		Journal:        journal.NewService(store, reflector, engine),
		Affirmations:   affirmation.New(affirmationOpts...),
		Cache:          readCache,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStore(ctx context.Context, cfg *config.Config, closers *[]io.Closer) (journal.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, entries are kept in memory")
		return journal.NewMemoryStore(), nil
	}

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	*closers = append(*closers, closerFunc(func() error {
		database.Close()
		return nil
	}))
	return database, nil
}

func openCache(ctx context.Context, cfg *config.Config, closers *[]io.Closer) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		return cache.NewMemory(), nil
	}
	rc, err := cache.NewRedisFromURL(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	*closers = append(*closers, rc)
	return rc, nil
}

func newCatalog(ctx context.Context, cfg *config.Config, c cache.Cache) (recommend.Catalog, error) {
	switch cfg.Catalog {
	case config.CatalogSpotify:
		client, err := spotify.NewWithCredentials(ctx, cfg.SpotifyID, cfg.SpotifySecret, spotify.WithMarket(cfg.SpotifyMarket))
		if err != nil {
			return nil, fmt.Errorf("creating spotify client: %w", err)
		}
		return client, nil
	case config.CatalogLastFM:
		lfmCfg, err := lastfm.NewConfig(cfg.LastFMAPIKey)
		if err != nil {
			return nil, err
		}
		client := lastfm.NewClient(lfmCfg)
		service := tags.NewService(tags.NewCachedTagFetcher(c, client))
		return tags.NewCatalog(client, service), nil
	default:
		return recommend.NewStaticCatalog(), nil
	}
}

// newTextGenerator returns nil when reflections use templates only.
func newTextGenerator(ctx context.Context, cfg *config.Config, closers *[]io.Closer) (reflection.TextGenerator, error) {
	switch cfg.Reflection {
	case config.ReflectionGemini:
		gc, err := reflection.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, gc)
		return gc, nil
	case config.ReflectionOllama:
		return reflection.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return nil, nil
	}
}
