package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/document"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// stores repositorios del backend elegido.
type stores struct {
	txRunner   repository.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	locations  repository.LocationRepository
	partners   repository.PartnerRepository
	rules      repository.ReorderRuleRepository
	documents  repository.DocumentRepository
	ledger     repository.LedgerRepository
	balances   repository.BalanceReader
}

func memoryStores() stores {
	s := memory.New()
	return stores{
		txRunner:   s,
		products:   s.Products(),
		warehouses: s.Warehouses(),
		locations:  s.Locations(),
		partners:   s.Partners(),
		rules:      s.ReorderRules(),
		documents:  s.Documents(),
		ledger:     s.Ledger(),
		balances:   s.Balances(),
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		txRunner:   postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		locations:  postgres.NewLocationRepository(pool),
		partners:   postgres.NewPartnerRepository(pool),
		rules:      postgres.NewReorderRuleRepository(pool),
		documents:  postgres.NewDocumentRepository(pool),
		ledger:     postgres.NewLedgerRepository(pool),
		balances:   postgres.NewBalanceRepository(pool),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st stores
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		log.Warn().Msg("backend en memoria: los datos se pierden al reiniciar")
		st = memoryStores()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		st = postgresStores(pool)
	}

	// Caché de vistas de stock (opcional)
	var viewCache stock.ViewCache
	if cfg.Redis.Enabled() {
		var rdb *redis.Client
		rdb, err = cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		viewCache = cache.NewRedisCache(rdb, "stock", cfg.Redis.CacheTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de stock habilitado")
	}

	ledgerSvc := ledger.NewService(st.txRunner, st.ledger, st.balances, nil, log.Zerolog())
	stockSvc := stock.NewService(st.balances, st.products, st.warehouses, st.locations, viewCache, log.Zerolog())
	ledgerSvc.Subscribe(stockSvc)

	workflow := document.NewWorkflow(st.txRunner, st.documents, ledgerSvc, document.Catalog{
		Products:   st.products,
		Warehouses: st.warehouses,
		Locations:  st.locations,
		Partners:   st.partners,
	}, log.Zerolog())

	// El saldo debe coincidir con la suma del libro; una diferencia indica escrituras fuera del servicio.
	if diffs, err := ledgerSvc.Reconcile(ctx); err != nil {
		log.Error().Err(err).Msg("conciliación libro/saldos")
	} else if len(diffs) > 0 {
		log.Warn().Int("discrepancies", len(diffs)).Msg("saldos no coinciden con el libro")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workflow:      workflow,
		Ledger:        ledgerSvc,
		Stock:         stockSvc,
		Dashboard:     appanalytics.NewDashboardUseCase(st.balances, st.rules, st.documents),
		Replenishment: appanalytics.NewReplenishmentUseCase(st.balances, st.rules, st.products, st.warehouses),
		WarehouseUC:   usecase.NewWarehouseUseCase(st.warehouses, st.locations),
		ProductUC:     usecase.NewProductUseCase(st.products),
		PartnerUC:     usecase.NewPartnerUseCase(st.partners),
		ReorderRuleUC: usecase.NewReorderRuleUseCase(st.rules, st.products, st.warehouses),
		PDF:           infrapdf.NewMarotoPDFGenerator(),
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTExpiration: cfg.JWT.Expiration,
		DevTokens:     cfg.App.IsDevelopment(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
