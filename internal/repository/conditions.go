// Package repository defines storage interfaces implemented by concrete backends.
package repository

// Logic selects how multiple fetch conditions combine.
type Logic string

const (
	// LogicAll requires every condition to hold (AND).
	LogicAll Logic = "all"
	// LogicAny requires at least one condition to hold (OR).
	LogicAny Logic = "any"
)

// Op is a comparison operator usable in a fetch condition.
type Op string

const (
	OpEq  Op = "="
	OpNe  Op = "<>"
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// ProductField enumerates the product columns a condition may target.
// Using a closed set keeps filter building away from stringly-typed
// caller-supplied column names.
type ProductField string

const (
	ProductFieldID           ProductField = "id"
	ProductFieldName         ProductField = "name"
	ProductFieldCategory     ProductField = "category"
	ProductFieldUnitPrice    ProductField = "unit_price"
	ProductFieldCentralStock ProductField = "central_stock"
)

// ProductCondition is a single predicate over a product column.
type ProductCondition struct {
	Field ProductField
	Op    Op
	Value any
}
