package main

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func newTestLoader(t *testing.T, store *memory.Store) *loader {
	t.Helper()
	l, err := newLoader(context.Background(),
		store.Warehouses(), store.Locations(), store.Products(), store.Partners(), store.ReorderRules(),
		zerolog.Nop())
	require.NoError(t, err)
	return l
}

const maestros = `# bodegas y ubicaciones
warehouse,WH1,Principal,Calle 1
location,WH1,A,Pasillo A
location,WH1,A-01,Estante 1,A
product,TOR-1,Tornillo,UND,Ferretería
supplier,PRV1,Aceros SA,ventas@aceros.test
customer,CLI1,Ferretería Centro
rule,TOR-1,WH1,10,50
rule,TOR-1,,5
`

func TestLoader_CargaCompleta(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := newTestLoader(t, store)

	st, err := l.Load(ctx, strings.NewReader(maestros), charsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, 8, st.Created)
	assert.Zero(t, st.Skipped)

	locs, err := store.Locations().ListByWarehouse(ctx, l.warehouseIDs["WH1"])
	require.NoError(t, err)
	require.Len(t, locs, 2)
	var child string
	for _, loc := range locs {
		if loc.Code == "A-01" {
			child = loc.ParentID
		}
	}
	assert.Equal(t, l.locationIDs["WH1/A"], child, "la ubicación hija apunta a su padre")

	rules, err := store.ReorderRules().List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestLoader_SegundaCargaOmiteDuplicados(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := newTestLoader(t, store).Load(ctx, strings.NewReader(maestros), charsetUTF8)
	require.NoError(t, err)

	// un loader nuevo resuelve los códigos existentes desde el almacén
	st, err := newTestLoader(t, store).Load(ctx, strings.NewReader(maestros), charsetUTF8)
	require.NoError(t, err)
	assert.Zero(t, st.Created)
	assert.Equal(t, 8, st.Skipped)
}

func TestLoader_Latin1(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := newTestLoader(t, store)

	// "Pañol" en ISO-8859-1: ñ = 0xF1
	raw := "warehouse,WH2,Pa\xf1ol\n"
	_, err := l.Load(ctx, strings.NewReader(raw), charsetLatin1)
	require.NoError(t, err)

	w, err := store.Warehouses().GetByID(ctx, l.warehouseIDs["WH2"])
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "Pañol", w.Name)
}

func TestLoader_Errores(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		csv  string
		want error
	}{
		{"bodega desconocida", "location,NOPE,A,Pasillo\n", domain.ErrNotFound},
		{"producto desconocido en regla", "rule,NOPE,,1\n", domain.ErrNotFound},
		{"tipo desconocido", "category,X,Y\n", domain.ErrValidation},
		{"columnas faltantes", "product,SKU-1\n", domain.ErrValidation},
		{"cantidad negativa", "product,SKU-1,Algo\nrule,SKU-1,,-3\n", domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLoader(t, memory.New())
			_, err := l.Load(ctx, strings.NewReader(tc.csv), charsetUTF8)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "línea")
		})
	}
}

func TestDecoder_CharsetNoSoportado(t *testing.T) {
	_, err := decoder(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
