package service

import (
	"net/url"
	"strings"
	"testing"
)

func TestOrderLink_SingleItem(t *testing.T) {
	checkout := NewCheckout("351912345678")

	link, err := checkout.OrderLink([]CartItem{{Name: "Boné Verde", Price: "25€"}})
	if err != nil {
		t.Fatalf("OrderLink failed: %v", err)
	}

	if !strings.HasPrefix(link, "https://wa.me/351912345678?text=") {
		t.Fatalf("unexpected link prefix: %q", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	message := parsed.Query().Get("text")

	want := "Olá Gabarolla! Quero encomendar:\n1. Boné Verde — 25€\n\nTotal: 1 item(s)"
	if message != want {
		t.Fatalf("message = %q, want %q", message, want)
	}
}

func TestOrderLink_NumbersLinesInOrder(t *testing.T) {
	checkout := NewCheckout("351912345678")

	link, err := checkout.OrderLink([]CartItem{
		{Name: "Boné Verde", Price: "25€"},
		{Name: "Camisola Azul", Price: "30€"},
		{Name: "Hoodie Preto", Price: "45€"},
	})
	if err != nil {
		t.Fatalf("OrderLink failed: %v", err)
	}

	parsed, _ := url.Parse(link)
	message := parsed.Query().Get("text")

	for _, line := range []string{
		"1. Boné Verde — 25€",
		"2. Camisola Azul — 30€",
		"3. Hoodie Preto — 45€",
		"Total: 3 item(s)",
	} {
		if !strings.Contains(message, line) {
			t.Fatalf("message missing %q:\n%s", line, message)
		}
	}

	if strings.Index(message, "Boné Verde") > strings.Index(message, "Camisola Azul") {
		t.Fatal("items out of cart order")
	}
}

func TestOrderLink_EmptyCartRejected(t *testing.T) {
	checkout := NewCheckout("351912345678")

	if _, err := checkout.OrderLink(nil); !IsValidation(err) {
		t.Fatalf("expected ValidationError for empty cart, got %v", err)
	}
}

func TestOrderLink_UnconfiguredNumberRejected(t *testing.T) {
	checkout := NewCheckout("")

	_, err := checkout.OrderLink([]CartItem{{Name: "Boné Verde", Price: "25€"}})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError without a configured number, got %v", err)
	}
}
