// Package report implements the report aggregation engine. Generators
// read persisted sales over a date window and produce an abstract
// tabular Document; rendering to a concrete byte format is a separate
// concern (see xlsx.go).
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellKind tells renderers how to format a cell.
type CellKind int

const (
	// TextCell renders as a plain string.
	TextCell CellKind = iota
	// IntCell renders as a whole number.
	IntCell
	// MoneyCell renders as a 2-decimal currency amount.
	MoneyCell
	// TimeCell renders as day/month/year hour:minute.
	TimeCell
)

// Cell is one typed value in a report row.
type Cell struct {
	Kind  CellKind
	Text  string
	Int   int64
	Money decimal.Decimal
	Time  time.Time
}

// Text builds a text cell.
func Text(s string) Cell { return Cell{Kind: TextCell, Text: s} }

// Int builds a whole-number cell.
func Int(n int64) Cell { return Cell{Kind: IntCell, Int: n} }

// Money builds a currency cell.
func Money(d decimal.Decimal) Cell { return Cell{Kind: MoneyCell, Money: d} }

// Clock builds a timestamp cell.
func Clock(t time.Time) Cell { return Cell{Kind: TimeCell, Time: t} }

// SummaryItem is one labeled aggregate in a document's summary row.
type SummaryItem struct {
	Label string
	Value Cell
}

// Document is the renderer-agnostic result of a report generation:
// a titled table with typed data rows and a summary row. An empty
// window still yields a valid Document with zero rows and zero-valued
// summary aggregates.
type Document struct {
	Title       string
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedAt time.Time
	Columns     []string
	Rows        [][]Cell
	Summary     []SummaryItem
}
