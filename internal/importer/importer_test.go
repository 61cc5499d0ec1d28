package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"till/internal/api"
	"till/internal/catalog"
)

func newImporter(t *testing.T, handler http.HandlerFunc) *Importer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	return New(client, nil)
}

func TestImportCreatesProducts(t *testing.T) {
	var created []api.ProductCreate
	im := newImporter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		var in api.ProductCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		created = append(created, in)
		_ = json.NewEncoder(w).Encode(catalog.Product{ID: "p", Barcode: in.Barcode})
	})

	csvData := `barcode,name,price,cost,stock,min_stock,sell_by_weight
7501001,Leche 1L,24.50,18.00,40,10,false
7501002,Manzana,45.50,30.00,0,5,true
`
	rep, err := im.Import(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, Report{Added: 2}, rep)

	require.Len(t, created, 2)
	assert.Equal(t, "7501001", created[0].Barcode)
	assert.Equal(t, 24.50, created[0].Price)
	assert.Equal(t, 40, created[0].Stock)
	assert.True(t, created[1].SellByWeight)
}

func TestImportCountsBadRowsAndDuplicates(t *testing.T) {
	im := newImporter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(catalog.Product{})
	})

	csvData := `barcode,name,price
7501001,Leche 1L,24.50
,Sin codigo,10.00
7501002,Sin precio,abc
7501001,Leche repetida,24.50
7501003,Pan,12.00
`
	rep, err := im.Import(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, Report{Added: 2, Skipped: 1, Errors: 2}, rep)
}

func TestImportSkipsServerSideDuplicates(t *testing.T) {
	im := newImporter(t, func(w http.ResponseWriter, r *http.Request) {
		var in api.ProductCreate
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Barcode == "7501001" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Barcode already exists"})
			return
		}
		_ = json.NewEncoder(w).Encode(catalog.Product{})
	})

	csvData := `barcode,name,price
7501001,Ya existe,10.00
7501002,Nuevo,12.00
`
	rep, err := im.Import(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, Report{Added: 1, Skipped: 1}, rep)
}

func TestImportMissingColumn(t *testing.T) {
	im := newImporter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a bad header")
	})

	_, err := im.Import(context.Background(), strings.NewReader("barcode,name\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestImportStopsOnServerError(t *testing.T) {
	im := newImporter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	csvData := `barcode,name,price
7501001,Leche,10.00
`
	_, err := im.Import(context.Background(), strings.NewReader(csvData))
	assert.Error(t, err)
}
