// Package analytics contiene los indicadores del dashboard de inventario y la
// lista de reposición.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DashboardUseCase genera los KPIs de inventario a partir de saldos, reglas de
// reposición y documentos pendientes.
type DashboardUseCase struct {
	balances repository.BalanceReader
	rules    repository.ReorderRuleRepository
	docs     repository.DocumentRepository
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	balances repository.BalanceReader,
	rules repository.ReorderRuleRepository,
	docs repository.DocumentRepository,
) *DashboardUseCase {
	return &DashboardUseCase{balances: balances, rules: rules, docs: docs, now: time.Now}
}

// GetKPIs warehouseID vacío = todas las bodegas.
//
// Tres consultas en paralelo:
//  1. saldos en el alcance    → productos con stock, cantidad total
//  2. reglas de reposición    → bajo mínimo, agotados
//  3. documentos en DRAFT     → pendientes por tipo
func (uc *DashboardUseCase) GetKPIs(ctx context.Context, warehouseID string) (*dto.DashboardKPIs, error) {
	var (
		balances []entity.Balance
		rules    []*entity.ReorderRule
		drafts   = make(map[string]int, 4)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balances, err = uc.balances.List(gctx, repository.BalanceFilter{WarehouseID: warehouseID})
		if err != nil {
			return fmt.Errorf("dashboard: saldos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rules, err = uc.rules.List(gctx, warehouseID)
		if err != nil {
			return fmt.Errorf("dashboard: reglas de reposición: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		for _, typ := range []entity.DocumentType{
			entity.DocumentReceipt, entity.DocumentDelivery, entity.DocumentTransfer, entity.DocumentAdjustment,
		} {
			counts, err := uc.docs.CountByStatus(gctx, repository.DocumentFilter{Type: typ, WarehouseID: warehouseID})
			if err != nil {
				return fmt.Errorf("dashboard: documentos %s: %w", typ, err)
			}
			drafts[string(typ)] = counts[entity.StatusDraft]
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := uc.now()
	out := &dto.DashboardKPIs{
		WarehouseID:    warehouseID,
		DraftDocuments: drafts,
		DateLabel:      monthLabel(now),
		GeneratedAt:    now.UTC(),
	}
	inStock := make(map[string]bool)
	for _, b := range balances {
		out.TotalQuantity += b.QuantityOnHand
		if b.QuantityOnHand > 0 {
			inStock[b.ProductID] = true
		}
	}
	out.ProductsInStock = len(inStock)

	for _, st := range evaluate(rules, balances, warehouseID) {
		switch {
		case st.current == 0:
			out.OutOfStockItems++
		case st.current < st.rule.MinQuantity:
			out.LowStockItems++
		}
	}
	return out, nil
}

// ruleStatus regla efectiva con el stock actual de su alcance.
type ruleStatus struct {
	rule    *entity.ReorderRule
	current int64
}

// evaluate resuelve qué regla aplica a cada producto y calcula su stock.
// Con bodega: la regla propia de la bodega gana sobre la global y ambas miden
// el stock de esa bodega. Sin bodega: cada regla mide su propio alcance
// (bodega o total del producto).
func evaluate(rules []*entity.ReorderRule, balances []entity.Balance, warehouseID string) []ruleStatus {
	byProduct := make(map[string]int64)
	byProductWarehouse := make(map[[2]string]int64)
	for _, b := range balances {
		byProduct[b.ProductID] += b.QuantityOnHand
		byProductWarehouse[[2]string{b.ProductID, b.WarehouseID}] += b.QuantityOnHand
	}

	if warehouseID != "" {
		effective := make(map[string]*entity.ReorderRule)
		order := make([]string, 0, len(rules))
		for _, r := range rules {
			prev, ok := effective[r.ProductID]
			if !ok {
				order = append(order, r.ProductID)
			}
			if !ok || (prev.WarehouseID == "" && r.WarehouseID != "") {
				effective[r.ProductID] = r
			}
		}
		out := make([]ruleStatus, 0, len(order))
		for _, pid := range order {
			out = append(out, ruleStatus{rule: effective[pid], current: byProductWarehouse[[2]string{pid, warehouseID}]})
		}
		return out
	}

	out := make([]ruleStatus, 0, len(rules))
	for _, r := range rules {
		current := byProduct[r.ProductID]
		if r.WarehouseID != "" {
			current = byProductWarehouse[[2]string{r.ProductID, r.WarehouseID}]
		}
		out = append(out, ruleStatus{rule: r, current: current})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
