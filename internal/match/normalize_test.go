package match

import (
	"slices"
	"testing"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"A", "a"},
		{"PlaceOrder", "placeorder"},
		{"place_order", "placeorder"},
		{"place-order", "placeorder"},
		{"simple.Customer", "simplecustomer"},
		{"Simple Customer", "simplecustomer"},
		{"XMLImport", "xmlimport"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := NormalizeIdent(tt.input); result != tt.expected {
				t.Errorf("NormalizeIdent(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"Name", []string{"name"}},
		{"PlaceOrder", []string{"place", "order"}},
		{"orderID", []string{"order", "id"}},
		{"XMLParser", []string{"xml", "parser"}},
		{"simple.XMLImport", []string{"simple", "xml", "import"}},
		{"order_item-ID", []string{"order", "item", "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := TokenizeIdent(tt.input); !slices.Equal(result, tt.expected) {
				t.Errorf("TokenizeIdent(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
