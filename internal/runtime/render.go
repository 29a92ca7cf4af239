package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/tendero/pkg/domain"
)

const emptyCart = "Carrito vacío"

// RenderCart renders the cart as a numbered list with per-item subtotals and
// the grand total with two decimals. The output depends only on items.
func RenderCart(items []domain.LineItem) string {
	if len(items) == 0 {
		return emptyCart
	}

	var b strings.Builder
	b.WriteString("🛒 *Carrito Actual*\n\n")
	var total float64
	for i, item := range items {
		subtotal := item.Subtotal()
		total += subtotal
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Description)
		fmt.Fprintf(&b, "   Cantidad: %s %s\n", formatNumber(item.Quantity), item.UnitType)
		fmt.Fprintf(&b, "   Precio: S/.%s\n", formatNumber(item.Price))
		fmt.Fprintf(&b, "   Subtotal: S/.%s\n\n", formatNumber(subtotal))
	}
	fmt.Fprintf(&b, "\n*Total: S/.%.2f*", total)
	return b.String()
}

// RenderRemovalList renders "k. description (quantity unit)" lines.
func RenderRemovalList(items []domain.LineItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s (%s %s)", i+1, item.Description, formatNumber(item.Quantity), item.UnitType)
	}
	return strings.Join(lines, "\n")
}

// formatNumber prints the shortest decimal that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// renderMenu renders a title followed by a 1-based option list.
func renderMenu(title string, options []string) string {
	var b strings.Builder
	b.WriteString(title)
	for i, opt := range options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, opt)
	}
	return b.String()
}

func unitTypeMenu() string {
	return renderMenu("¿Qué tipo de unidad usará?", domain.UnitTypes) +
		"\n\nEscriba el número de la opción que desea."
}

func productActionMenu() string {
	return renderMenu("¿Qué desea hacer?", domain.ProductActions)
}

func paymentMethodMenu() string {
	return renderMenu("¿Qué método de pago usará el cliente?", domain.PaymentMethods)
}

// cartWithMenu is the reply that follows every cart change.
func cartWithMenu(items []domain.LineItem) string {
	return RenderCart(items) + "\n\n" + productActionMenu()
}

func confirmationSummary(d *domain.Draft) string {
	return RenderCart(d.LineItems) + "\n\n" +
		msgPaymentLabel + d.PaymentMethod + "\n\n" +
		msgConfirmQuestion
}
