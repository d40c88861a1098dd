// Package demo provides deterministic in-memory query collaborators so the
// exporter runs end-to-end without an upstream reporting database. Production
// deployments wire real implementations of the query interfaces instead.
package demo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizledger/report-exporter/internal/report/types"
)

type SalesQuery struct{}

var _ types.SalesQuery = (*SalesQuery)(nil)

func (SalesQuery) Summary(_ context.Context, args types.SalesStatArgs) (*types.SalesSummary, error) {
	items := []types.SalesSummaryItem{
		{Key: "2024-01", Name: "January 2024", OrderCount: 42, TotalQty: decimal.NewFromInt(310), Subtotal: dec("15200.00"), Tax: dec("760.00"), TotalAmount: dec("15960.00")},
		{Key: "2024-02", Name: "February 2024", OrderCount: 38, TotalQty: decimal.NewFromInt(275), Subtotal: dec("13450.50"), Tax: dec("672.53"), TotalAmount: dec("14123.03")},
	}
	if args.GroupBy == "product" {
		items = []types.SalesSummaryItem{
			{Key: "P-1001", Name: "Standing Desk", OrderCount: 51, TotalQty: decimal.NewFromInt(120), Subtotal: dec("18000.00"), Tax: dec("900.00"), TotalAmount: dec("18900.00")},
			{Key: "P-1002", Name: "Task Chair", OrderCount: 29, TotalQty: decimal.NewFromInt(465), Subtotal: dec("10650.50"), Tax: dec("532.53"), TotalAmount: dec("11183.03")},
		}
	}
	return &types.SalesSummary{Items: items, Totals: sumSales(items)}, nil
}

func sumSales(items []types.SalesSummaryItem) types.SalesSummaryItem {
	var totals types.SalesSummaryItem
	for _, it := range items {
		totals.OrderCount += it.OrderCount
		totals.TotalQty = totals.TotalQty.Add(it.TotalQty)
		totals.Subtotal = totals.Subtotal.Add(it.Subtotal)
		totals.Tax = totals.Tax.Add(it.Tax)
		totals.TotalAmount = totals.TotalAmount.Add(it.TotalAmount)
	}
	return totals
}

type InvoiceQuery struct{}

var _ types.InvoiceQuery = (*InvoiceQuery)(nil)

func (InvoiceQuery) Summary(_ context.Context, _ types.InvoiceStatArgs) (*types.InvoiceSummary, error) {
	items := []types.InvoiceSummaryItem{
		{Key: "2024-01", Name: "January 2024", InvoiceCount: 35, Subtotal: dec("12100.00"), Tax: dec("605.00"), TotalAmount: dec("12705.00")},
		{Key: "2024-02", Name: "February 2024", InvoiceCount: 31, Subtotal: dec("9980.25"), Tax: dec("499.01"), TotalAmount: dec("10479.26")},
	}
	var totals types.InvoiceSummaryItem
	for _, it := range items {
		totals.InvoiceCount += it.InvoiceCount
		totals.Subtotal = totals.Subtotal.Add(it.Subtotal)
		totals.Tax = totals.Tax.Add(it.Tax)
		totals.TotalAmount = totals.TotalAmount.Add(it.TotalAmount)
	}
	return &types.InvoiceSummary{Items: items, Totals: totals}, nil
}

type PurchaseQuery struct{}

var _ types.PurchaseQuery = (*PurchaseQuery)(nil)

func (PurchaseQuery) Search(_ context.Context, args types.POQueryArgs) (*types.POPage, error) {
	items := []types.POItem{
		{PONumber: "PO-24001", VendorName: "Acme Supply", Status: "open", OrderDate: date(2024, 1, 8), TotalAmount: dec("4200.00")},
		{PONumber: "PO-24002", VendorName: "Globex Traders", Status: "received", OrderDate: date(2024, 1, 19), TotalAmount: dec("1875.40")},
		{PONumber: "PO-24003", VendorName: "Initech Parts", Status: "open", OrderDate: date(2024, 2, 2), TotalAmount: dec("980.00")},
	}
	return &types.POPage{Items: paginate(items, args.Page, args.Size), Total: int64(len(items)), Page: args.Page, Size: args.Size}, nil
}

type InventoryQuery struct{}

var _ types.InventoryQuery = (*InventoryQuery)(nil)

func (InventoryQuery) Levels(_ context.Context, args types.InventoryArgs) (*types.InventoryPage, error) {
	items := []types.InventoryItem{
		{ProductID: "P-1001", ProductName: "Standing Desk", Whse: "MAIN", Loc: "A-01", OnHand: decimal.NewFromInt(120), Reserved: decimal.NewFromInt(15), Available: decimal.NewFromInt(105)},
		{ProductID: "P-1002", ProductName: "Task Chair", Whse: "MAIN", Loc: "A-02", OnHand: decimal.NewFromInt(310), Reserved: decimal.NewFromInt(40), Available: decimal.NewFromInt(270)},
		{ProductID: "P-2001", ProductName: "Monitor Arm", Whse: "EAST", Loc: "B-11", OnHand: decimal.NewFromInt(85), Reserved: decimal.NewFromInt(5), Available: decimal.NewFromInt(80)},
	}
	return &types.InventoryPage{Items: paginate(items, args.Page, args.Size), Total: int64(len(items)), Page: args.Page, Size: args.Size}, nil
}

func paginate[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
