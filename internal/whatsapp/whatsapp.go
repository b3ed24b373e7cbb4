// Package whatsapp builds prefilled chat links for relaying customer orders
// to the restaurant's WhatsApp business number. Orders are never transmitted
// by this service; the customer opens the link and sends the message
// themselves.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

const linkBase = "https://wa.me/"

// Link returns a wa.me URL that opens a chat with phone and the message
// prefilled. The phone number is reduced to digits as wa.me requires.
func Link(phone, message string) string {
	digits := digitsOnly(phone)
	if message == "" {
		return linkBase + digits
	}
	return linkBase + digits + "?text=" + url.QueryEscape(message)
}

// OrderLine is one priced entry of an order message.
type OrderLine struct {
	Quantity int
	Name     string
	// PriceCents is the line total, not the unit price.
	PriceCents int
}

// LunchMessage renders the message body for a build-your-own-lunch order.
func LunchMessage(customer string, lines []OrderLine, totalCents int) string {
	var b strings.Builder
	b.WriteString("New lunch order")
	if customer != "" {
		b.WriteString(" from ")
		b.WriteString(customer)
	}
	b.WriteString(":\n")
	writeLines(&b, lines)
	fmt.Fprintf(&b, "Total: %s", formatPrice(totalCents))
	return b.String()
}

// DeliveryMessage renders the message body for a delivery order.
func DeliveryMessage(customer, phone, address string, lines []OrderLine, totalCents int) string {
	var b strings.Builder
	b.WriteString("New delivery order")
	if customer != "" {
		b.WriteString(" from ")
		b.WriteString(customer)
	}
	b.WriteString(":\n")
	writeLines(&b, lines)
	fmt.Fprintf(&b, "Total: %s\n", formatPrice(totalCents))
	fmt.Fprintf(&b, "Deliver to: %s\n", address)
	if phone != "" {
		fmt.Fprintf(&b, "Contact: %s", phone)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeLines(b *strings.Builder, lines []OrderLine) {
	for _, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		fmt.Fprintf(b, "- %dx %s (%s)\n", qty, line.Name, formatPrice(line.PriceCents))
	}
}

func formatPrice(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
