package export

import (
	"testing"

	"github.com/DovranA/zara-app/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCatalog(t *testing.T) {
	userID := int64(3)
	doc, err := RenderCatalog([]CatalogProduct{
		{
			Product:  model.Product{Name: "Crate", Price: 12.5, Note: "fragile", DeliveryDate: "2026-06-01", UserID: &userID},
			UserName: "Anna",
		},
		{
			Product: model.Product{Name: "Anvil", Price: 80},
		},
	})
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Crate")
	assert.Contains(t, html, "$12.50")
	assert.Contains(t, html, "Assigned to:</strong> Anna")
	assert.Contains(t, html, "Jun 1, 2026")
	assert.Contains(t, html, "$92.50", "summary total is the sum of prices")
	assert.NotContains(t, html, "Assigned to:</strong> </p>", "unassigned products omit the assignee line")
}

func TestRenderCatalogEscapesContent(t *testing.T) {
	doc, err := RenderCatalog([]CatalogProduct{
		{Product: model.Product{Name: "<script>alert(1)</script>"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "<script>alert")
}

func TestRenderNote(t *testing.T) {
	doc, err := RenderNote(Note{
		Delivery: model.Delivery{
			ID:          9,
			Date:        "2026-04-01",
			Status:      model.StatusPending,
			TotalAmount: 25,
			Notes:       "leave at the gate",
		},
		Recipient: model.User{Name: "Mira", Address: "12 Harbor Rd", Phone: "555-0101"},
		Lines: []NoteLine{
			{ProductName: "Crate", Quantity: 2, UnitPrice: 10},
			{ProductName: "Anvil", Quantity: 1, UnitPrice: 5},
		},
	})
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Delivery Note #9")
	assert.Contains(t, html, "Mira")
	assert.Contains(t, html, "$20.00", "line subtotal is quantity times unit price")
	assert.Contains(t, html, "Total:</strong> $25.00")
	assert.Contains(t, html, "leave at the gate")
}
