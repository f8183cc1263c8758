// Package export renders fully-hydrated records into print-ready HTML
// documents. Every foreign key must already be resolved to a display name
// before formatting starts; the formatter never touches the store.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/DovranA/zara-app/internal/model"
)

// CatalogProduct is a product with its assignee resolved for display.
type CatalogProduct struct {
	model.Product
	UserName string
}

// CatalogSummary is the headline block of the product catalog document.
type CatalogSummary struct {
	Count            int
	TotalValue       float64
	WithDeliveryDate int
	Assigned         int
}

// Note is one delivery with its lines and recipient resolved.
type Note struct {
	Delivery  model.Delivery
	Recipient model.User
	Lines     []NoteLine
}

// NoteLine is one delivery item with the product name attached.
type NoteLine struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
}

func (l NoteLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"date": func(s string) string {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.Format("Jan 2, 2006")
		}
		return s
	},
}

var catalogTmpl = template.Must(template.New("catalog").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Product Catalog</title></head>
<body>
<div class="header">
  <h1>Product Catalog</h1>
  <p>Generated {{.GeneratedAt}}</p>
</div>
<div class="summary">
  <div class="summary-item"><span class="label">Products</span> {{.Summary.Count}}</div>
  <div class="summary-item"><span class="label">Total Value</span> {{money .Summary.TotalValue}}</div>
  <div class="summary-item"><span class="label">With Delivery Date</span> {{.Summary.WithDeliveryDate}}</div>
  <div class="summary-item"><span class="label">Assigned</span> {{.Summary.Assigned}}</div>
</div>
{{range .Products}}<div class="product-card">
  <div class="product-header">
    <h2 class="product-name">{{.Name}}</h2>
    <span class="product-price">{{money .Price}}</span>
  </div>
  {{if .Note}}<p class="product-note"><strong>Note:</strong> {{.Note}}</p>{{end}}
  {{if .DeliveryDate}}<p class="product-date"><strong>Delivery Date:</strong> {{date .DeliveryDate}}</p>{{end}}
  {{if .UserName}}<p class="product-user"><strong>Assigned to:</strong> {{.UserName}}</p>{{end}}
</div>
{{end}}</body>
</html>
`))

var noteTmpl = template.Must(template.New("note").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Delivery Note #{{.Delivery.ID}}</title></head>
<body>
<div class="header">
  <h1>Delivery Note #{{.Delivery.ID}}</h1>
  <p>{{date .Delivery.Date}} &mdash; {{.Delivery.Status}}</p>
</div>
<div class="recipient">
  <h3>{{.Recipient.Name}}</h3>
  <p>{{.Recipient.Address}}</p>
  <p>{{.Recipient.Phone}}</p>
</div>
<table class="lines">
  <tr><th>Product</th><th>Qty</th><th>Unit Price</th><th>Subtotal</th></tr>
  {{range .Lines}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{money .UnitPrice}}</td><td>{{money .Subtotal}}</td></tr>
  {{end}}</table>
<p class="total"><strong>Total:</strong> {{money .Delivery.TotalAmount}}</p>
{{if .Delivery.Notes}}<p class="notes">{{.Delivery.Notes}}</p>{{end}}
</body>
</html>
`))

// RenderCatalog produces the product catalog document.
func RenderCatalog(products []CatalogProduct) ([]byte, error) {
	summary := CatalogSummary{Count: len(products)}
	for _, p := range products {
		summary.TotalValue += p.Price
		if p.DeliveryDate != "" {
			summary.WithDeliveryDate++
		}
		if p.UserName != "" {
			summary.Assigned++
		}
	}

	data := struct {
		GeneratedAt string
		Summary     CatalogSummary
		Products    []CatalogProduct
	}{
		GeneratedAt: time.Now().Format("Jan 2, 2006"),
		Summary:     summary,
		Products:    products,
	}

	var buf bytes.Buffer
	if err := catalogTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderNote produces a single delivery-note document.
func RenderNote(note Note) ([]byte, error) {
	var buf bytes.Buffer
	if err := noteTmpl.Execute(&buf, note); err != nil {
		return nil, fmt.Errorf("render delivery note: %w", err)
	}
	return buf.Bytes(), nil
}
