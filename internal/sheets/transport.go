// Package sheets implements the spreadsheet-backed storage layer: a
// rate-limited transport over the Google Sheets/Drive APIs, per-user
// spreadsheet provisioning, and full-collection read/write with
// clear-then-write semantics.
package sheets

import (
	"context"
	"errors"
	"time"
)

// ErrTabNotFound marks transport failures caused by addressing a tab that does
// not exist in the spreadsheet. The sync engine uses it to trigger
// create-then-retry; everything else is a plain transport failure.
var ErrTabNotFound = errors.New("sheet tab not found")

// TabInfo describes one tab of a spreadsheet.
type TabInfo struct {
	Title       string `json:"title"`
	ID          int64  `json:"sheetId"`
	RowCount    int64  `json:"rowCount,omitempty"`
	ColumnCount int64  `json:"columnCount,omitempty"`
}

// SpreadsheetMetadata is the subset of spreadsheet properties the store needs.
type SpreadsheetMetadata struct {
	SpreadsheetID string    `json:"spreadsheetId"`
	Title         string    `json:"title"`
	Tabs          []TabInfo `json:"tabs"`
}

// FileInfo is one hit from an owned-spreadsheet search.
type FileInfo struct {
	ID          string
	Name        string
	CreatedTime time.Time
}

// Transport is the capability the store consumes: authenticated reads and
// writes against a named tabular resource. Implementations must scope
// SearchOwnedSpreadsheets to files owned by the authenticated principal;
// adopting another user's spreadsheet is a cross-account data leak.
type Transport interface {
	ReadRange(ctx context.Context, spreadsheetID, rangeAddr string) ([][]string, error)
	WriteRange(ctx context.Context, spreadsheetID, rangeAddr string, values [][]string) error
	CreateTab(ctx context.Context, spreadsheetID, tabName string) error
	DeleteTab(ctx context.Context, spreadsheetID string, tabID int64) error
	CreateSpreadsheet(ctx context.Context, name string) (string, error)
	GetSpreadsheetMetadata(ctx context.Context, spreadsheetID string) (*SpreadsheetMetadata, error)
	SearchOwnedSpreadsheets(ctx context.Context, name string, exact bool) ([]FileInfo, error)
}
