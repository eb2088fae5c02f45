package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
)

func TestRenderInvoicePDF(t *testing.T) {
	issued := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	inv := models.Invoice{
		Number:        "INV-20261019-000001",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Items: []models.InvoiceItem{
			{Description: "2 Bedrooms - Deep clean", Quantity: 1, UnitPrice: 157.5, Total: 157.5},
			{Description: "Oven clean", Quantity: 1, UnitPrice: 45, Total: 45},
		},
		Subtotal: 202.5,
		TaxRate:  20,
		Tax:      40.5,
		Total:    243,
		Currency: "GBP",
		Status:   models.InvoiceDraft,
		IssuedAt: issued,
		DueAt:    issued.AddDate(0, 0, 14),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderInvoicePDF(&buf, inv, testBusiness))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}
