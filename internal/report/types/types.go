package types

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportType is the closed set of reports the exporter knows how to produce.
type ReportType string

const (
	ReportTypeSalesStat   ReportType = "SalesStat"
	ReportTypeInvoiceStat ReportType = "InvoiceStat"
	ReportTypePOQuery     ReportType = "POQuery"
	ReportTypeInventory   ReportType = "Inventory"
)

// reportNameSynonyms maps the path-style names accepted by the HTTP layer to
// the closed report type set. Lookup is case-insensitive.
var reportNameSynonyms = map[string]ReportType{
	"sales":          ReportTypeSalesStat,
	"salesstat":      ReportTypeSalesStat,
	"sales-stat":     ReportTypeSalesStat,
	"invoice":        ReportTypeInvoiceStat,
	"invoicestat":    ReportTypeInvoiceStat,
	"invoice-stat":   ReportTypeInvoiceStat,
	"po":             ReportTypePOQuery,
	"poquery":        ReportTypePOQuery,
	"po-query":       ReportTypePOQuery,
	"purchase":       ReportTypePOQuery,
	"purchase-order": ReportTypePOQuery,
	"inventory":      ReportTypeInventory,
	"stock":          ReportTypeInventory,
}

func ParseReportType(name string) (ReportType, error) {
	if t, ok := reportNameSynonyms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown report name %q", name)
}

// Format is the rendering format of an exported report.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a caller-supplied format string to a Format. An empty
// string defaults to PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return FormatPDF, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// DateRange carries the canonical time window of a report query. Both bounds
// are RFC3339 UTC strings produced by the parameter whitelist; either may be
// empty when the caller did not constrain that side.
type DateRange struct {
	StartUtc string
	EndUtc   string
}

type SalesStatArgs struct {
	Range      DateRange
	CustomerID string
	SalesmanID string
	ProductID  string
	Currency   string
	GroupBy    string
}

type InvoiceStatArgs struct {
	Range     DateRange
	AccountID string
	Status    string
	Currency  string
	GroupBy   string
}

type POQueryArgs struct {
	Range    DateRange
	VendorID string
	Status   string
	Page     int
	Size     int
}

type InventoryArgs struct {
	ProductID string
	Whse      string
	Loc       string
	Range     DateRange
	Page      int
	Size      int
}

type SalesSummaryItem struct {
	Key         string
	Name        string
	OrderCount  int
	TotalQty    decimal.Decimal
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	TotalAmount decimal.Decimal
}

type SalesSummary struct {
	Items  []SalesSummaryItem
	Totals SalesSummaryItem
}

type InvoiceSummaryItem struct {
	Key          string
	Name         string
	InvoiceCount int
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	TotalAmount  decimal.Decimal
}

type InvoiceSummary struct {
	Items  []InvoiceSummaryItem
	Totals InvoiceSummaryItem
}

type POItem struct {
	PONumber    string
	VendorName  string
	Status      string
	OrderDate   time.Time
	TotalAmount decimal.Decimal
}

type POPage struct {
	Items []POItem
	Total int64
	Page  int
	Size  int
}

type InventoryItem struct {
	ProductID   string
	ProductName string
	Whse        string
	Loc         string
	OnHand      decimal.Decimal
	Reserved    decimal.Decimal
	Available   decimal.Decimal
}

type InventoryPage struct {
	Items []InventoryItem
	Total int64
	Page  int
	Size  int
}

// Per-type query collaborators. Concrete implementations live outside the
// export pipeline; the engine only dispatches to them.
type SalesQuery interface {
	Summary(ctx context.Context, args SalesStatArgs) (*SalesSummary, error)
}

type InvoiceQuery interface {
	Summary(ctx context.Context, args InvoiceStatArgs) (*InvoiceSummary, error)
}

type PurchaseQuery interface {
	Search(ctx context.Context, args POQueryArgs) (*POPage, error)
}

type InventoryQuery interface {
	Levels(ctx context.Context, args InventoryArgs) (*InventoryPage, error)
}

// Column pairs a row key with the label shown in rendered output.
type Column struct {
	Key   string
	Label string
}

// Payload is the generic tabular shape handed to the renderers. It is built
// fresh per job run and never persisted.
type Payload struct {
	Type       ReportType
	Title      string
	Parameters map[string]any
	Columns    []Column
	Rows       []map[string]string
}
