package analytics

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos bajo el mínimo
// de su regla con la cantidad sugerida de pedido.
type ReplenishmentUseCase struct {
	balances   repository.BalanceReader
	rules      repository.ReorderRuleRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	balances repository.BalanceReader,
	rules repository.ReorderRuleRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		balances:   balances,
		rules:      rules,
		products:   products,
		warehouses: warehouses,
	}
}

// GenerateReplenishmentList warehouseID puede ser vacío para considerar todas las reglas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(
	ctx context.Context,
	warehouseID string,
) ([]dto.ReplenishmentSuggestion, error) {
	rules, err := uc.rules.List(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}
	balances, err := uc.balances.List(ctx, repository.BalanceFilter{WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestion, 0)
	for _, st := range evaluate(rules, balances, warehouseID) {
		r := st.rule
		if st.current >= r.MinQuantity {
			continue
		}
		// Sin máximo se repone hasta 1.5× el mínimo (redondeo hacia arriba).
		target := r.MaxQuantity
		if target <= 0 {
			target = (r.MinQuantity*3 + 1) / 2
		}
		suggested := target - st.current
		if suggested < 0 {
			suggested = 0
		}

		s := dto.ReplenishmentSuggestion{
			ProductID:         r.ProductID,
			WarehouseID:       r.WarehouseID,
			CurrentStock:      st.current,
			MinQuantity:       r.MinQuantity,
			MaxQuantity:       r.MaxQuantity,
			Deficit:           r.MinQuantity - st.current,
			SuggestedQuantity: suggested,
		}
		if warehouseID != "" {
			s.WarehouseID = warehouseID
		}
		if err := uc.describe(ctx, &s); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}

	// Mayor déficit primero; desempate por SKU para un orden estable.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.SKU < b.SKU
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func (uc *ReplenishmentUseCase) describe(ctx context.Context, s *dto.ReplenishmentSuggestion) error {
	p, err := uc.products.GetByID(ctx, s.ProductID)
	if err != nil {
		return err
	}
	if p != nil {
		s.SKU, s.ProductName = p.SKU, p.Name
	}
	if s.WarehouseID == "" {
		return nil
	}
	var w *entity.Warehouse
	if w, err = uc.warehouses.GetByID(ctx, s.WarehouseID); err != nil {
		return err
	}
	if w != nil {
		s.WarehouseName = w.Name
	}
	return nil
}
