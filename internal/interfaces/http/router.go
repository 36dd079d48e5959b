package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/document"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workflow      *document.Workflow
	Ledger        *ledger.Service
	Stock         *stock.Service
	Dashboard     *appanalytics.DashboardUseCase
	Replenishment *appanalytics.ReplenishmentUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	PartnerUC     *usecase.PartnerUseCase
	ReorderRuleUC *usecase.ReorderRuleUseCase
	PDF           DocumentPDFGenerator

	JWTSecret     string
	JWTIssuer     string
	JWTExpiration int
	// DevTokens habilita POST /api/auth/token.
	DevTokens bool
}

// rutas de cada tipo de documento
var documentRoutes = []struct {
	path string
	typ  entity.DocumentType
}{
	{"/receipts", entity.DocumentReceipt},
	{"/delivery-orders", entity.DocumentDelivery},
	{"/internal-transfers", entity.DocumentTransfer},
	{"/stock-adjustments", entity.DocumentAdjustment},
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	if deps.DevTokens {
		authHandler := NewAuthHandler(deps.JWTSecret, deps.JWTIssuer, deps.JWTExpiration)
		api.Post("/auth/token", authHandler.Token)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writeDocs := RequireRole(pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero)
	writeMaster := RequireRole(pkgjwt.RoleAdmin)

	// Documentos
	for _, r := range documentRoutes {
		h := NewDocumentHandler(r.typ, deps.Workflow, deps.Stock, deps.PDF)
		g := protected.Group(r.path)
		g.Post("/create", writeDocs, h.Create)
		g.Post("/add-item", writeDocs, h.AddItem)
		g.Post("/remove-item", writeDocs, h.RemoveItem)
		g.Post("/update", writeDocs, h.Update)
		g.Post("/validate", writeDocs, h.Validate)
		g.Get("/", h.List)
		if r.typ == entity.DocumentAdjustment {
			// antes de /:id
			g.Get("/summary/overview", h.Summary)
		}
		g.Get("/:id/pdf", h.PDF)
		g.Get("/:id", h.GetByID)
	}

	// Stock
	stockHandler := NewStockHandler(deps.Stock)
	st := protected.Group("/stock")
	st.Get("/overview", stockHandler.Overview)
	st.Get("/by-warehouse", stockHandler.ByWarehouse)
	st.Get("/by-product", stockHandler.ByProduct)
	st.Get("/by-location/:id", stockHandler.ByLocation)
	st.Get("/availability", stockHandler.Availability)
	st.Get("/warehouse/:id/summary", stockHandler.WarehouseSummary)

	// Moves
	movesHandler := NewMovesHandler(deps.Ledger, deps.Stock)
	protected.Get("/moves/history", movesHandler.History)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard, deps.Replenishment)
	protected.Get("/dashboard/kpis", dashboardHandler.GetKPIs)
	protected.Get("/dashboard/replenishment", dashboardHandler.GetReplenishment)

	// Warehouses / Locations
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Post("/", writeMaster, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	locations := protected.Group("/locations")
	locations.Post("/", writeMaster, warehouseHandler.CreateLocation)
	locations.Get("/", warehouseHandler.ListLocations)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Post("/", writeMaster, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writeMaster, productHandler.Update)

	// Partners / Reorder rules
	partnerHandler := NewPartnerHandler(deps.PartnerUC, deps.ReorderRuleUC)
	partners := protected.Group("/partners")
	partners.Post("/", writeMaster, partnerHandler.Create)
	partners.Get("/", partnerHandler.List)
	rules := protected.Group("/reorder-rules")
	rules.Post("/", writeMaster, partnerHandler.CreateRule)
	rules.Get("/", partnerHandler.ListRules)
}
