package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuickStatus is the instant buy/sell snapshot the bazaar keeps for a product.
// Every numeric field is optional in the payload, so nil means "not reported".
type QuickStatus struct {
	ProductID      string   `json:"productId"`
	SellPrice      *float64 `json:"sellPrice"`
	SellVolume     *float64 `json:"sellVolume"`
	SellMovingWeek *float64 `json:"sellMovingWeek"`
	SellOrders     *float64 `json:"sellOrders"`
	BuyPrice       *float64 `json:"buyPrice"`
	BuyVolume      *float64 `json:"buyVolume"`
	BuyMovingWeek  *float64 `json:"buyMovingWeek"`
	BuyOrders      *float64 `json:"buyOrders"`
}

// OrderSummaryEntry is one aggregated price level of the order book.
type OrderSummaryEntry struct {
	Amount       float64 `json:"amount"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Orders       float64 `json:"orders"`
}

// Product is a single bazaar record keyed by its identifier.
type Product struct {
	ProductID   string              `json:"product_id"`
	QuickStatus *QuickStatus        `json:"quick_status"`
	BuySummary  []OrderSummaryEntry `json:"buy_summary"`
	SellSummary []OrderSummaryEntry `json:"sell_summary"`
}

// ProductMap holds the decoded products object together with the order in
// which its keys appeared in the document.
type ProductMap struct {
	IDs   []string
	Items map[string]*Product
}

// Len returns the number of distinct identifiers.
func (m ProductMap) Len() int { return len(m.IDs) }

// UnmarshalJSON decodes a JSON object while recording key order. A repeated
// key keeps its first position and its last value.
func (m *ProductMap) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("products: expected object, got %v", tok)
	}

	m.IDs = nil
	m.Items = make(map[string]*Product)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("products: unexpected key %v", tok)
		}
		var p *Product
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("products[%s]: %w", key, err)
		}
		if _, seen := m.Items[key]; !seen {
			m.IDs = append(m.IDs, key)
		}
		m.Items[key] = p
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// BazaarResponse is the top-level payload of the bazaar endpoint.
type BazaarResponse struct {
	Success     bool       `json:"success"`
	Cause       string     `json:"cause"`
	LastUpdated int64      `json:"lastUpdated"`
	Products    ProductMap `json:"products"`
}

// TopOrders returns at most n leading entries, keeping their existing order.
func TopOrders(entries []OrderSummaryEntry, n int) []OrderSummaryEntry {
	if n < 0 {
		n = 0
	}
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }
