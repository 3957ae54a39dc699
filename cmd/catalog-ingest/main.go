// Command catalog-ingest seeds the storefront's catalog cache from markup
// exports. It accepts one or more markup files (plain or gzip-compressed),
// dedupes product cards across them, and writes the merged catalog to the
// kv store the API server reads at startup.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
)

const (
	// Sized for the largest catalog exports we expect; the filter only
	// pre-screens, an exact map confirms every duplicate.
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no markup files given")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	merged, err := readCatalogs(files)
	if err != nil {
		return err
	}
	slog.Info("catalog parsed", slog.Int("products", len(merged)))

	pool, err := kv.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := kv.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	store := kv.NewPostgres(pool)
	if err := store.Set(ctx, catalog.StoreKey, catalog.EncodeProducts(merged)); err != nil {
		return errors.Wrap(err, "write catalog cache")
	}
	return nil
}

// readCatalogs parses every export and merges the product cards, first
// occurrence of an id wins. The bloom filter screens the common case (an
// unseen id) cheaply; only probable duplicates fall through to the map.
func readCatalogs(files []string) ([]catalog.Product, error) {
	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	seen := make(map[string]struct{})

	var merged []catalog.Product
	for _, name := range files {
		products, err := readCatalogFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		for _, p := range products {
			if filter.TestAndAddString(p.ID) {
				if _, dup := seen[p.ID]; dup {
					slog.Warn("duplicate product card skipped",
						slog.String("id", p.ID), slog.String("file", name))
					continue
				}
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged, nil
}

func readCatalogFile(name string) ([]catalog.Product, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	products, skipped, err := catalog.ParseMarkup(r)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		slog.Warn("skipping product card",
			slog.String("id", s.ID), slog.String("reason", s.Reason), slog.String("file", name))
	}
	return products, nil
}
