package inventory

import "database/sql"

// ProductInput carries the stock item fields accepted by the insert and
// update operations. Every field is optional; most accept both a Spanish and
// an English spelling, with the Spanish one taking precedence when both are
// present.
type ProductInput struct {
	NombreProducto          *string  `json:"NombreProducto"`
	StockItemName           *string  `json:"StockItemName"`
	SupplierID              *int     `json:"SupplierID"`
	ColorID                 *int     `json:"ColorID"`
	UnitPackageID           *int     `json:"UnitPackageID"`
	OuterPackageID          *int     `json:"OuterPackageID"`
	CantidadEmpaquetamiento *int     `json:"CantidadEmpaquetamiento"`
	QuantityPerOuter        *int     `json:"QuantityPerOuter"`
	Marca                   *string  `json:"Marca"`
	Brand                   *string  `json:"Brand"`
	Talla                   *string  `json:"Talla"`
	Size                    *string  `json:"Size"`
	Impuesto                *float64 `json:"Impuesto"`
	TaxRate                 *float64 `json:"TaxRate"`
	PrecioUnitario          *float64 `json:"PrecioUnitario"`
	UnitPrice               *float64 `json:"UnitPrice"`
	PrecioVenta             *float64 `json:"PrecioVenta"`
	RecommendedRetailPrice  *float64 `json:"RecommendedRetailPrice"`
	Peso                    *float64 `json:"Peso"`
	TypicalWeightPerUnit    *float64 `json:"TypicalWeightPerUnit"`
	PalabrasClave           *string  `json:"PalabrasClave"`
	CantidadDisponible      *int     `json:"CantidadDisponible"`
	QuantityOnHand          *int     `json:"QuantityOnHand"`
	Ubicacion               *string  `json:"Ubicacion"`
	BinLocation             *string  `json:"BinLocation"`
	TiempoEntrega           *int     `json:"TiempoEntrega"`
	LeadTimeDays            *int     `json:"LeadTimeDays"`
	RequiereFrio            *bool    `json:"RequiereFrio"`
	IsChillerStock          *bool    `json:"IsChillerStock"`
	CodigoBarras            *string  `json:"CodigoBarras"`
	Barcode                 *string  `json:"Barcode"`
	CamposPersonalizados    *string  `json:"CamposPersonalizados"`
	CustomFields            *string  `json:"CustomFields"`
	Etiquetas               *string  `json:"Etiquetas"`
	Tags                    *string  `json:"Tags"`
	StockGroupIDs           *string  `json:"StockGroupIDs"`
}

// namedArgs resolves the dual spellings into the argument list of the insert
// and update procedures. Inserts default the available quantity to zero;
// updates leave it NULL so the procedure keeps the stored value.
func (in ProductInput) namedArgs(forInsert bool) []sql.NamedArg {
	quantity := firstInt(in.CantidadDisponible, in.QuantityOnHand)
	if quantity == nil && forInsert {
		quantity = 0
	}
	leadTime := firstInt(in.TiempoEntrega, in.LeadTimeDays)
	if leadTime == nil {
		leadTime = 0
	}
	return []sql.NamedArg{
		sql.Named("NombreProducto", firstString(in.NombreProducto, in.StockItemName)),
		sql.Named("SupplierID", firstInt(in.SupplierID)),
		sql.Named("ColorID", firstInt(in.ColorID)),
		sql.Named("UnitPackageID", firstInt(in.UnitPackageID)),
		sql.Named("OuterPackageID", firstInt(in.OuterPackageID)),
		sql.Named("CantidadEmpaquetamiento", firstInt(in.CantidadEmpaquetamiento, in.QuantityPerOuter)),
		sql.Named("Marca", firstString(in.Marca, in.Brand)),
		sql.Named("Talla", firstString(in.Talla, in.Size)),
		sql.Named("Impuesto", firstFloat(in.Impuesto, in.TaxRate)),
		sql.Named("PrecioUnitario", firstFloat(in.PrecioUnitario, in.UnitPrice)),
		sql.Named("PrecioVenta", firstFloat(in.PrecioVenta, in.RecommendedRetailPrice)),
		sql.Named("Peso", firstFloat(in.Peso, in.TypicalWeightPerUnit)),
		sql.Named("PalabrasClave", firstString(in.PalabrasClave)),
		sql.Named("CantidadDisponible", quantity),
		sql.Named("Ubicacion", firstString(in.Ubicacion, in.BinLocation)),
		sql.Named("TiempoEntrega", leadTime),
		sql.Named("RequiereFrio", firstBool(in.RequiereFrio, in.IsChillerStock)),
		sql.Named("CodigoBarras", firstString(in.CodigoBarras, in.Barcode)),
		sql.Named("CamposPersonalizados", firstString(in.CamposPersonalizados, in.CustomFields)),
		sql.Named("Etiquetas", firstString(in.Etiquetas, in.Tags)),
		sql.Named("StockGroupIDs", firstString(in.StockGroupIDs)),
	}
}

// firstString returns the first spelling carrying a non-empty value, or NULL
func firstString(vals ...*string) any {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return nil
}

// firstInt returns the first spelling carrying a value, or NULL
func firstInt(vals ...*int) any {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return nil
}

// firstFloat returns the first spelling carrying a value, or NULL
func firstFloat(vals ...*float64) any {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return nil
}

// firstBool returns the first spelling carrying a value, defaulting to false
func firstBool(vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return false
}
