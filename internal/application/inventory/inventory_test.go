package inventory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

type procCall struct {
	sucursal string
	proc     string
	args     []sql.NamedArg
}

type fakeRunner struct {
	calls []procCall
	sets  map[string]persistence.ResultSets
}

func (f *fakeRunner) QueryProc(ctx context.Context, sucursal, proc string, args ...sql.NamedArg) (persistence.ResultSets, error) {
	f.calls = append(f.calls, procCall{sucursal: sucursal, proc: proc, args: args})
	return f.sets[proc], nil
}

func (f *fakeRunner) procs() []string {
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.proc)
	}
	return names
}

func argValue(t *testing.T, args []sql.NamedArg, name string) any {
	t.Helper()
	for _, a := range args {
		if a.Name == name {
			return a.Value
		}
	}
	t.Fatalf("argument %q not passed", name)
	return nil
}

func strptr(s string) *string { return &s }

func intptr(n int) *int { return &n }

func floatptr(f float64) *float64 { return &f }

func boolptr(b bool) *bool { return &b }

func TestService_Detail(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"sp_obtenerDetalleInventario": {
			{{"StockItemID": int64(5), "StockItemName": "USB rocket launcher"}},
			{{"QuantityOnHand": int64(120)}},
			{{"SupplierName": "Graphic Design Institute"}},
		},
	}}
	svc := NewService(runner)

	detail, err := svc.Detail(context.Background(), "sanjose", 5)
	require.NoError(t, err)
	assert.Equal(t, "USB rocket launcher", detail.General["StockItemName"])
	assert.Equal(t, int64(120), detail.Holdings["QuantityOnHand"])
	assert.Equal(t, "Graphic Design Institute", detail.Proveedor["SupplierName"])
}

func TestService_Detail_MissingSecondaryRowsAreNil(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"sp_obtenerDetalleInventario": {
			{{"StockItemID": int64(5)}},
		},
	}}
	svc := NewService(runner)

	detail, err := svc.Detail(context.Background(), "sanjose", 5)
	require.NoError(t, err)
	assert.NotNil(t, detail.General)
	assert.Nil(t, detail.Holdings)
	assert.Nil(t, detail.Proveedor)
}

func TestService_Detail_NotFound(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"sp_obtenerDetalleInventario": {{}, {}, {}},
	}}
	svc := NewService(runner)

	_, err := svc.Detail(context.Background(), "sanjose", 9999)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, shared.CodeNotFound, derr.Code)
}

func TestProductInput_SpanishSpellingWins(t *testing.T) {
	in := ProductInput{
		NombreProducto: strptr("Cohete USB"),
		StockItemName:  strptr("USB rocket"),
		Impuesto:       floatptr(13),
		TaxRate:        floatptr(15),
	}
	args := in.namedArgs(true)

	assert.Equal(t, "Cohete USB", argValue(t, args, "NombreProducto"))
	assert.Equal(t, float64(13), argValue(t, args, "Impuesto"))
}

func TestProductInput_EnglishSpellingFallsBack(t *testing.T) {
	in := ProductInput{
		StockItemName:  strptr("USB rocket"),
		Brand:          strptr("Northwind"),
		UnitPrice:      floatptr(25.5),
		QuantityOnHand: intptr(40),
		IsChillerStock: boolptr(true),
	}
	args := in.namedArgs(true)

	assert.Equal(t, "USB rocket", argValue(t, args, "NombreProducto"))
	assert.Equal(t, "Northwind", argValue(t, args, "Marca"))
	assert.Equal(t, 25.5, argValue(t, args, "PrecioUnitario"))
	assert.Equal(t, 40, argValue(t, args, "CantidadDisponible"))
	assert.Equal(t, true, argValue(t, args, "RequiereFrio"))
}

func TestProductInput_Defaults(t *testing.T) {
	args := ProductInput{}.namedArgs(true)
	assert.Nil(t, argValue(t, args, "NombreProducto"))
	assert.Nil(t, argValue(t, args, "SupplierID"))
	assert.Equal(t, 0, argValue(t, args, "CantidadDisponible"), "inserts default the quantity to zero")
	assert.Equal(t, 0, argValue(t, args, "TiempoEntrega"))
	assert.Equal(t, false, argValue(t, args, "RequiereFrio"))

	args = ProductInput{}.namedArgs(false)
	assert.Nil(t, argValue(t, args, "CantidadDisponible"), "updates keep the stored quantity")
	assert.Equal(t, 0, argValue(t, args, "TiempoEntrega"))
}

func TestService_Insert(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_InsertProduct": {{{"NewStockItemID": int64(228)}}},
	}}
	svc := NewService(runner)

	id, err := svc.Insert(context.Background(), "sanjose", ProductInput{NombreProducto: strptr("Cohete USB")})
	require.NoError(t, err)
	assert.Equal(t, int64(228), id)
	require.Len(t, runner.calls, 1)
	assert.Len(t, runner.calls[0].args, 21)
}

func TestService_Update(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_UpdateProduct": {{{"UpdatedStockItemID": int64(5)}}},
	}}
	svc := NewService(runner)

	id, err := svc.Update(context.Background(), "sanjose", 5, ProductInput{Marca: strptr("Northwind")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, 5, argValue(t, runner.calls[0].args, "StockItemID"))
}

func TestService_Update_FallsBackToGivenID(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_UpdateProduct": {{}},
	}}
	svc := NewService(runner)

	id, err := svc.Update(context.Background(), "sanjose", 5, ProductInput{})
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestService_Check_NotExists(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_CheckProductExists": {{{"ProductExists": int64(0)}}},
	}}
	svc := NewService(runner)

	res, err := svc.Check(context.Background(), "sanjose", 9999)
	require.NoError(t, err)
	assert.False(t, res.Exists)
	assert.False(t, res.CanDelete)
	assert.Equal(t, "El producto no existe", res.Reason)
	assert.Equal(t, []string{"SP_CheckProductExists"}, runner.procs())
}

func TestService_Check_CriticalTransactions(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_CheckProductExists": {{{"ProductExists": int64(1)}}},
		"SP_CheckProductCriticalTransactions": {{{
			"HasCriticalTransactions": int64(1),
			"InvoiceCount":            int64(12),
			"PurchaseOrderCount":      int64(3),
		}}},
	}}
	svc := NewService(runner)

	res, err := svc.Check(context.Background(), "sanjose", 5)
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.False(t, res.CanDelete)
	assert.Equal(t, 12, res.InvoiceCount)
	assert.Equal(t, 3, res.PurchaseOrderCount)
}

func TestService_Check_Deletable(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_CheckProductExists":               {{{"ProductExists": true}}},
		"SP_CheckProductCriticalTransactions": {{{"HasCriticalTransactions": false}}},
	}}
	svc := NewService(runner)

	res, err := svc.Check(context.Background(), "sanjose", 5)
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.True(t, res.CanDelete)
	assert.Equal(t, "El producto puede ser eliminado", res.Reason)
}

func TestService_Delete(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_CheckProductExists":               {{{"ProductExists": int64(1)}}},
		"SP_CheckProductCriticalTransactions": {{{"HasCriticalTransactions": int64(0)}}},
		"SP_DeleteProduct":                    {{{"DeletedStockItemID": int64(5)}}},
	}}
	svc := NewService(runner)

	id, err := svc.Delete(context.Background(), "sanjose", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, []string{
		"SP_CheckProductExists",
		"SP_CheckProductCriticalTransactions",
		"SP_DeleteProduct",
	}, runner.procs())
}

func TestService_Delete_NotFoundShortCircuits(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_CheckProductExists": {{{"ProductExists": int64(0)}}},
	}}
	svc := NewService(runner)

	_, err := svc.Delete(context.Background(), "sanjose", 9999)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, shared.CodeNotFound, derr.Code)
	assert.Equal(t, "El producto no existe", derr.Message)
	assert.Equal(t, []string{"SP_CheckProductExists"}, runner.procs(), "no further procedure runs")
}

func TestService_Delete_CriticalTransactionsShortCircuits(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_CheckProductExists": {{{"ProductExists": int64(1)}}},
		"SP_CheckProductCriticalTransactions": {{{
			"HasCriticalTransactions": int64(1),
			"InvoiceCount":            int64(7),
			"PurchaseOrderCount":      int64(2),
		}}},
	}}
	svc := NewService(runner)

	_, err := svc.Delete(context.Background(), "sanjose", 5)
	var cerr *CriticalTransactionsError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 7, cerr.InvoiceCount)
	assert.Equal(t, 2, cerr.PurchaseOrderCount)
	assert.Contains(t, cerr.Error(), "Facturas de venta: 7")
	assert.Equal(t, []string{
		"SP_CheckProductExists",
		"SP_CheckProductCriticalTransactions",
	}, runner.procs(), "the delete procedure never runs")
}

func TestService_ProductStockGroups(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_GetProductStockGroups": {
			{{"StockGroupID": int64(1), "StockGroupName": "Novelty Items"}},
		},
	}}
	svc := NewService(runner)

	rows, err := svc.ProductStockGroups(context.Background(), "limon", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, argValue(t, runner.calls[0].args, "StockItemID"))
}

func TestService_ReferenceCatalogues(t *testing.T) {
	runner := &fakeRunner{sets: map[string]persistence.ResultSets{
		"SP_GetSuppliersForProducts":    {{{"SupplierID": int64(1)}}},
		"SP_GetColorsForProducts":       {{{"ColorID": int64(2)}}},
		"SP_GetPackageTypesForProducts": {{{"PackageTypeID": int64(3)}}},
		"SP_GetStockGroupsForProducts":  {{{"StockGroupID": int64(4)}}},
	}}
	svc := NewService(runner)
	ctx := context.Background()

	for _, fetch := range []func() (persistence.ResultSet, error){
		func() (persistence.ResultSet, error) { return svc.Suppliers(ctx, "sanjose") },
		func() (persistence.ResultSet, error) { return svc.Colors(ctx, "sanjose") },
		func() (persistence.ResultSet, error) { return svc.Packages(ctx, "sanjose") },
		func() (persistence.ResultSet, error) { return svc.StockGroups(ctx, "sanjose") },
	} {
		rows, err := fetch()
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	}
	assert.Len(t, runner.calls, 4)
}
