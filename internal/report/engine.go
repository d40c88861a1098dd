// Package report turns typed query arguments into the generic tabular payload
// consumed by the renderers. The engine performs no aggregation of its own; it
// dispatches to the per-type query collaborators and shapes their results.
package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bizledger/report-exporter/internal/params"
	"github.com/bizledger/report-exporter/internal/report/types"
)

const dateLayout = "2006-01-02"

var reportTitles = map[types.ReportType]string{
	types.ReportTypeSalesStat:   "Sales Statistics",
	types.ReportTypeInvoiceStat: "Invoice Statistics",
	types.ReportTypePOQuery:     "Purchase Orders",
	types.ReportTypeInventory:   "Inventory Levels",
}

var reportColumns = map[types.ReportType][]types.Column{
	types.ReportTypeSalesStat: {
		{Key: "key", Label: "Key"},
		{Key: "name", Label: "Name"},
		{Key: "orderCount", Label: "Orders"},
		{Key: "totalQty", Label: "Total Qty"},
		{Key: "subtotal", Label: "Subtotal"},
		{Key: "tax", Label: "Tax"},
		{Key: "totalAmount", Label: "Total Amount"},
	},
	types.ReportTypeInvoiceStat: {
		{Key: "key", Label: "Key"},
		{Key: "name", Label: "Name"},
		{Key: "invoiceCount", Label: "Invoices"},
		{Key: "subtotal", Label: "Subtotal"},
		{Key: "tax", Label: "Tax"},
		{Key: "totalAmount", Label: "Total Amount"},
	},
	types.ReportTypePOQuery: {
		{Key: "poNumber", Label: "PO Number"},
		{Key: "vendorName", Label: "Vendor"},
		{Key: "status", Label: "Status"},
		{Key: "orderDate", Label: "Order Date"},
		{Key: "totalAmount", Label: "Total Amount"},
	},
	types.ReportTypeInventory: {
		{Key: "productId", Label: "Product"},
		{Key: "productName", Label: "Product Name"},
		{Key: "whse", Label: "Warehouse"},
		{Key: "loc", Label: "Location"},
		{Key: "onHand", Label: "On Hand"},
		{Key: "reserved", Label: "Reserved"},
		{Key: "available", Label: "Available"},
	},
}

// Columns returns the fixed column schema of a report type.
func Columns(t types.ReportType) []types.Column {
	return reportColumns[t]
}

type Engine struct {
	sales      types.SalesQuery
	invoices   types.InvoiceQuery
	purchasing types.PurchaseQuery
	inventory  types.InventoryQuery
}

func NewEngine(sales types.SalesQuery, invoices types.InvoiceQuery, purchasing types.PurchaseQuery, inventory types.InventoryQuery) *Engine {
	return &Engine{
		sales:      sales,
		invoices:   invoices,
		purchasing: purchasing,
		inventory:  inventory,
	}
}

// SalesSummary dispatches to the sales query collaborator.
func (e *Engine) SalesSummary(ctx context.Context, args types.SalesStatArgs) (*types.SalesSummary, error) {
	return e.sales.Summary(ctx, args)
}

// InvoiceSummary dispatches to the invoicing query collaborator.
func (e *Engine) InvoiceSummary(ctx context.Context, args types.InvoiceStatArgs) (*types.InvoiceSummary, error) {
	return e.invoices.Summary(ctx, args)
}

// SearchPurchaseOrders dispatches to the purchasing query collaborator.
func (e *Engine) SearchPurchaseOrders(ctx context.Context, args types.POQueryArgs) (*types.POPage, error) {
	return e.purchasing.Search(ctx, args)
}

// InventoryLevels dispatches to the inventory query collaborator.
func (e *Engine) InventoryLevels(ctx context.Context, args types.InventoryArgs) (*types.InventoryPage, error) {
	return e.inventory.Levels(ctx, args)
}

// BuildPayload re-binds the sanitized parameters into the typed arguments of
// the report type, runs the matching query and shapes the result into the
// flat export payload. Numeric and date fields are formatted here so the
// renderers only ever see strings. An unknown report type is a hard error.
func (e *Engine) BuildPayload(ctx context.Context, t types.ReportType, safeParams map[string]any, format types.Format) (*types.Payload, error) {
	var rows []map[string]string
	var err error

	switch t {
	case types.ReportTypeSalesStat:
		rows, err = e.salesRows(ctx, safeParams)
	case types.ReportTypeInvoiceStat:
		rows, err = e.invoiceRows(ctx, safeParams)
	case types.ReportTypePOQuery:
		rows, err = e.purchaseRows(ctx, safeParams)
	case types.ReportTypeInventory:
		rows, err = e.inventoryRows(ctx, safeParams)
	default:
		return nil, fmt.Errorf("unknown report type %q", t)
	}
	if err != nil {
		return nil, err
	}

	return &types.Payload{
		Type:       t,
		Title:      reportTitles[t],
		Parameters: params.Filter(t, safeParams),
		Columns:    reportColumns[t],
		Rows:       rows,
	}, nil
}

func (e *Engine) salesRows(ctx context.Context, safeParams map[string]any) ([]map[string]string, error) {
	args, err := params.Bind[types.SalesStatArgs](types.ReportTypeSalesStat, safeParams)
	if err != nil {
		return nil, err
	}
	summary, err := e.sales.Summary(ctx, args)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(summary.Items)+1)
	for _, it := range summary.Items {
		rows = append(rows, salesRow(it))
	}
	totals := summary.Totals
	totals.Key = "total"
	if totals.Name == "" {
		totals.Name = "Grand Total"
	}
	rows = append(rows, salesRow(totals))
	return rows, nil
}

func salesRow(it types.SalesSummaryItem) map[string]string {
	return map[string]string{
		"key":         it.Key,
		"name":        it.Name,
		"orderCount":  strconv.Itoa(it.OrderCount),
		"totalQty":    it.TotalQty.String(),
		"subtotal":    it.Subtotal.StringFixed(2),
		"tax":         it.Tax.StringFixed(2),
		"totalAmount": it.TotalAmount.StringFixed(2),
	}
}

func (e *Engine) invoiceRows(ctx context.Context, safeParams map[string]any) ([]map[string]string, error) {
	args, err := params.Bind[types.InvoiceStatArgs](types.ReportTypeInvoiceStat, safeParams)
	if err != nil {
		return nil, err
	}
	summary, err := e.invoices.Summary(ctx, args)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(summary.Items)+1)
	for _, it := range summary.Items {
		rows = append(rows, invoiceRow(it))
	}
	totals := summary.Totals
	totals.Key = "total"
	if totals.Name == "" {
		totals.Name = "Grand Total"
	}
	rows = append(rows, invoiceRow(totals))
	return rows, nil
}

func invoiceRow(it types.InvoiceSummaryItem) map[string]string {
	return map[string]string{
		"key":          it.Key,
		"name":         it.Name,
		"invoiceCount": strconv.Itoa(it.InvoiceCount),
		"subtotal":     it.Subtotal.StringFixed(2),
		"tax":          it.Tax.StringFixed(2),
		"totalAmount":  it.TotalAmount.StringFixed(2),
	}
}

func (e *Engine) purchaseRows(ctx context.Context, safeParams map[string]any) ([]map[string]string, error) {
	args, err := params.Bind[types.POQueryArgs](types.ReportTypePOQuery, safeParams)
	if err != nil {
		return nil, err
	}
	page, err := e.purchasing.Search(ctx, args)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(page.Items))
	for _, it := range page.Items {
		rows = append(rows, map[string]string{
			"poNumber":    it.PONumber,
			"vendorName":  it.VendorName,
			"status":      it.Status,
			"orderDate":   it.OrderDate.Format(dateLayout),
			"totalAmount": it.TotalAmount.StringFixed(2),
		})
	}
	return rows, nil
}

func (e *Engine) inventoryRows(ctx context.Context, safeParams map[string]any) ([]map[string]string, error) {
	args, err := params.Bind[types.InventoryArgs](types.ReportTypeInventory, safeParams)
	if err != nil {
		return nil, err
	}
	page, err := e.inventory.Levels(ctx, args)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(page.Items))
	for _, it := range page.Items {
		rows = append(rows, map[string]string{
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"whse":        it.Whse,
			"loc":         it.Loc,
			"onHand":      it.OnHand.String(),
			"reserved":    it.Reserved.String(),
			"available":   it.Available.String(),
		})
	}
	return rows, nil
}
