// Package extractor calls an external text-extraction assistant that turns a
// pasted customer message into an order draft.
//
// Wire format. The client POSTs
//
//	{"text": "...", "catalog": ["Cement", ...], "today": "2025-03-14"}
//
// and expects
//
//	{"customerName": "...", "areaLocation": "...", "orderDate": "2025-03-16",
//	 "items": [{"itemName": "Cement", "quantity": 50, "notes": ""}]}
//
// Unknown fields are ignored. Items without a name or with a non-positive
// quantity are dropped.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

const maxResponseBytes = 1 << 20

// Client is a ports.DraftExtractor over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	catalog  []string
	http     *http.Client
}

// New returns a client for endpoint. catalog lists the product names the
// assistant should match against; it may be empty.
func New(endpoint, apiKey string, catalog []string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		catalog:  catalog,
		http:     &http.Client{Timeout: timeout},
	}
}

type request struct {
	Text    string   `json:"text"`
	Catalog []string `json:"catalog,omitempty"`
	Today   string   `json:"today"`
}

type draftItem struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Notes    string  `json:"notes"`
}

type response struct {
	CustomerName string      `json:"customerName"`
	AreaLocation string      `json:"areaLocation"`
	OrderDate    string      `json:"orderDate"`
	Items        []draftItem `json:"items"`
}

func (c *Client) Extract(ctx context.Context, text string) (order.Draft, error) {
	body, err := json.Marshal(request{
		Text:    text,
		Catalog: c.catalog,
		Today:   time.Now().UTC().Format(time.DateOnly),
	})
	if err != nil {
		return order.Draft{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return order.Draft{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return order.Draft{}, ctx.Err()
		}
		return order.Draft{}, fmt.Errorf("%w: %w", ports.ErrExtractionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return order.Draft{}, fmt.Errorf("%w: assistant answered %d: %s",
			ports.ErrExtractionUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out response
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return order.Draft{}, fmt.Errorf("%w: malformed draft: %w", ports.ErrExtractionUnavailable, err)
	}

	return out.toDraft(), nil
}

func (r response) toDraft() order.Draft {
	d := order.Draft{
		CustomerName: strings.TrimSpace(r.CustomerName),
		AreaLocation: strings.TrimSpace(r.AreaLocation),
		Items:        make([]order.ItemInput, 0, len(r.Items)),
	}
	if date, err := time.Parse(time.DateOnly, strings.TrimSpace(r.OrderDate)); err == nil {
		d.OrderDate = &date
	}
	for _, it := range r.Items {
		name := strings.TrimSpace(it.ItemName)
		qty := int(math.Round(it.Quantity))
		if name == "" || qty <= 0 {
			continue
		}
		d.Items = append(d.Items, order.ItemInput{Name: name, Quantity: qty, Notes: strings.TrimSpace(it.Notes)})
	}
	return d
}

// Disabled is the extractor used when no endpoint is configured.
type Disabled struct{}

func (Disabled) Extract(context.Context, string) (order.Draft, error) {
	return order.Draft{}, fmt.Errorf("%w: no extraction endpoint configured", ports.ErrExtractionUnavailable)
}
