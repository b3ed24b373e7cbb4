package whatsapp

import (
	"net/url"
	"strings"
	"testing"
)

func TestLink(t *testing.T) {
	t.Parallel()

	link := Link("+1 (555) 010-2030", "hello there & welcome")

	if !strings.HasPrefix(link, "https://wa.me/15550102030?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if got := parsed.Query().Get("text"); got != "hello there & welcome" {
		t.Fatalf("message not round-trippable from query, got %q", got)
	}
}

func TestLink_EmptyMessageOmitsQuery(t *testing.T) {
	t.Parallel()

	if got := Link("5550102030", ""); got != "https://wa.me/5550102030" {
		t.Fatalf("unexpected link %q", got)
	}
}

func TestLunchMessage(t *testing.T) {
	t.Parallel()

	msg := LunchMessage("Ada", []OrderLine{
		{Quantity: 1, Name: "Grilled chicken", PriceCents: 650},
		{Quantity: 2, Name: "Roast vegetables", PriceCents: 500},
	}, 1150)

	for _, want := range []string{
		"New lunch order from Ada:",
		"- 1x Grilled chicken ($6.50)",
		"- 2x Roast vegetables ($5.00)",
		"Total: $11.50",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestDeliveryMessage(t *testing.T) {
	t.Parallel()

	msg := DeliveryMessage("Ada", "5550102030", "12 Main St", []OrderLine{
		{Quantity: 1, Name: "Margherita", PriceCents: 1200},
	}, 1200)

	for _, want := range []string{
		"New delivery order from Ada:",
		"Deliver to: 12 Main St",
		"Contact: 5550102030",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}
