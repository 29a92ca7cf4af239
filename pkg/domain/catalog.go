package domain

// UnitTypes is the fixed, ordered unit-type menu. Selector "1" picks index 0.
var UnitTypes = []string{
	"Unidades",
	"Kilos",
	"Gramos",
	"Litros",
}

// PaymentMethods is the fixed, ordered payment-method menu.
var PaymentMethods = []string{
	"Efectivo",
	"Tarjeta",
	"Transferencia",
	"Yape",
	"Plin",
}

// ProductAction is a choice of the product menu shown after each item.
type ProductAction int

const (
	ActionAddProduct ProductAction = iota + 1
	ActionRemoveProduct
	ActionFinishSale
)

// ProductActions is the ordered product menu.
var ProductActions = []string{
	"Agregar producto",
	"Eliminar producto",
	"Finalizar venta",
}
