// Package whatsapp renders placed orders into wa.me deep links. The
// storefront has no payment step; opening the link with the pre-filled
// order summary is how an order reaches the store operator.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
)

// LinkBuilder builds wa.me links for the configured store number.
type LinkBuilder struct {
	storeNumber string
	storeName   string
}

// NewLinkBuilder creates a link builder. storeNumber is the full
// international number without "+", e.g. "5511999999999".
func NewLinkBuilder(storeNumber, storeName string) *LinkBuilder {
	return &LinkBuilder{
		storeNumber: storeNumber,
		storeName:   storeName,
	}
}

// OrderLink returns the wa.me URL with the order summary pre-filled, ready
// for the storefront to open in a new tab.
func (b *LinkBuilder) OrderLink(order *domain.Order) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", b.storeNumber, url.QueryEscape(b.Message(order)))
}

// Message renders the Portuguese order summary sent to the store.
func (b *LinkBuilder) Message(order *domain.Order) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🌊 *Novo Pedido %s* 🌊\n\n", b.storeName)
	fmt.Fprintf(&sb, "*Pedido:* #%s\n\n", order.OrderNumber)

	sb.WriteString("*Dados do Cliente:*\n")
	fmt.Fprintf(&sb, "Nome: %s\n", order.Customer.Name)
	if order.Customer.Email != "" {
		fmt.Fprintf(&sb, "Email: %s\n", order.Customer.Email)
	}
	fmt.Fprintf(&sb, "Telefone: %s\n", order.Customer.Phone)
	fmt.Fprintf(&sb, "Endereço: %s, %s - %s, %s\n\n",
		order.Customer.Address, order.Customer.City, order.Customer.State, order.Customer.PostalCode)

	sb.WriteString("*Produtos:*\n")
	for _, item := range order.Items {
		variant := ""
		if item.VariantName != "" {
			variant = fmt.Sprintf(" (%s)", item.VariantName)
		}
		fmt.Fprintf(&sb, "• %s%s - Qtd: %d - %s\n",
			item.ProductName, variant, item.Quantity, FormatBRL(item.Subtotal()))
	}

	sb.WriteString("\n*Resumo:*\n")
	fmt.Fprintf(&sb, "Subtotal: %s\n", FormatBRL(order.Subtotal))
	if order.ShippingFee == 0 {
		sb.WriteString("Frete: Grátis\n")
	} else {
		fmt.Fprintf(&sb, "Frete: %s\n", FormatBRL(order.ShippingFee))
	}
	if order.DiscountAmount > 0 {
		fmt.Fprintf(&sb, "Desconto: -%s\n", FormatBRL(order.DiscountAmount))
	}
	fmt.Fprintf(&sb, "*Total: %s*\n", FormatBRL(order.Total))

	if order.Customer.Notes != "" {
		fmt.Fprintf(&sb, "\n*Observações:* %s\n", order.Customer.Notes)
	}

	sb.WriteString("\nAguardando confirmação! 💙")

	return sb.String()
}

// FormatBRL renders centavos as Brazilian currency, e.g. 17980 -> "R$ 179,80".
func FormatBRL(centavos int64) string {
	sign := ""
	if centavos < 0 {
		sign = "-"
		centavos = -centavos
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, centavos/100, centavos%100)
}
