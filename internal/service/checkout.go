package service

import (
	"fmt"
	"net/url"
	"strings"
)

// CartItem is one storefront cart entry. Price stays the verbatim display
// string from the catalog.
type CartItem struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
}

// Checkout turns a storefront cart into a WhatsApp deep-link: the order is
// placed by opening a chat with the brand's number, message pre-filled.
type Checkout struct {
	whatsAppNumber string
}

// NewCheckout creates a checkout service for the given WhatsApp number
// (international format, digits only).
func NewCheckout(whatsAppNumber string) *Checkout {
	return &Checkout{whatsAppNumber: whatsAppNumber}
}

// OrderLink builds the wa.me URL carrying the order message for the cart.
func (c *Checkout) OrderLink(items []CartItem) (string, error) {
	if c.whatsAppNumber == "" {
		return "", &ValidationError{Field: "whatsapp number", Reason: "is not configured"}
	}
	if len(items) == 0 {
		return "", &ValidationError{Field: "cart", Reason: "is empty"}
	}

	var b strings.Builder
	b.WriteString("Olá Gabarolla! Quero encomendar:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %d item(s)", len(items))

	return fmt.Sprintf("https://wa.me/%s?text=%s", c.whatsAppNumber, url.QueryEscape(b.String())), nil
}
