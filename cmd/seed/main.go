// seed carga datos maestros (bodegas, ubicaciones, productos, terceros y reglas
// de reposición) desde un CSV hacia el backend configurado.
//
// Uso: go run ./cmd/seed -file maestros.csv [-charset iso-8859-1]
// El formato de cada fila está descrito en loader.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	file := flag.String("file", "maestros.csv", "ruta del CSV")
	charset := flag.String("charset", charsetUTF8, "utf-8 | iso-8859-1 | windows-1252")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	if cfg.Store.Backend != config.StoreBackendPostgres {
		log.Fatal().Str("store", cfg.Store.Backend).Msg("seed solo aplica al backend postgres")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	l, err := newLoader(ctx,
		postgres.NewWarehouseRepository(pool),
		postgres.NewLocationRepository(pool),
		postgres.NewProductRepository(pool),
		postgres.NewPartnerRepository(pool),
		postgres.NewReorderRuleRepository(pool),
		log.Named("csv"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("preparar carga")
	}
	st, err := l.Load(ctx, f, *charset)
	if err != nil {
		log.Error().Err(err).Int("created", st.Created).Msg("carga interrumpida")
		os.Exit(1)
	}
	log.Info().Int("created", st.Created).Int("skipped", st.Skipped).Str("file", *file).Msg("carga completa")
}
