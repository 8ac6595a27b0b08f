package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Tab pairs a tab name with its header row.
type Tab struct {
	Name    string
	Headers []string
}

// Engine performs full-collection reads and writes against one provisioned
// spreadsheet. Writes follow the clear-then-write protocol: the previous
// content is blanked first so a shorter collection never leaves stale rows
// behind.
type Engine struct {
	tr            Transport
	spreadsheetID string
	locks         *TabLock
}

func NewEngine(tr Transport, spreadsheetID string, locks *TabLock) *Engine {
	return &Engine{tr: tr, spreadsheetID: spreadsheetID, locks: locks}
}

func (e *Engine) SpreadsheetID() string {
	return e.spreadsheetID
}

// Metadata returns the spreadsheet's title and tab list.
func (e *Engine) Metadata(ctx context.Context) (*SpreadsheetMetadata, error) {
	return e.tr.GetSpreadsheetMetadata(ctx, e.spreadsheetID)
}

// EnsureTab probes one cell of the tab and creates it with its header row when
// the probe fails. Used during provisioning and as the integrity-repair step.
func (e *Engine) EnsureTab(ctx context.Context, tab Tab) error {
	return ensureTab(ctx, e.tr, e.spreadsheetID, tab)
}

func ensureTab(ctx context.Context, tr Transport, spreadsheetID string, tab Tab) error {
	if _, err := tr.ReadRange(ctx, spreadsheetID, RangeAddress(tab.Name, ProbeRange)); err == nil {
		return nil
	}

	log.Printf("[sheets] creating missing tab %q", tab.Name)
	if err := tr.CreateTab(ctx, spreadsheetID, tab.Name); err != nil {
		// The tab may exist already (probe failed for another reason, or a
		// concurrent create won); writing headers settles it either way.
		log.Printf("[sheets] create tab %q: %v", tab.Name, err)
	}
	if err := tr.WriteRange(ctx, spreadsheetID, RangeAddress(tab.Name, HeaderRange), [][]string{tab.Headers}); err != nil {
		return fmt.Errorf("write headers for %q: %w", tab.Name, err)
	}
	return nil
}

// ReadAll fetches the tab's data rows and decodes each one. An empty or
// never-written tab yields an empty collection, not an error. Decoders are
// responsible for turning malformed rows into placeholder entities; a single
// corrupt row must never abort the read.
func ReadAll[T any](ctx context.Context, e *Engine, tabName string, decode func([]string) T) ([]T, error) {
	rows, err := e.tr.ReadRange(ctx, e.spreadsheetID, RangeAddress(tabName, DataRange))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", tabName, err)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		out = append(out, decode(row))
	}
	return out, nil
}

// WriteAll replaces the tab's entire contents with the header row plus one
// encoded row per item. The clear phase is best-effort: a failed clear is
// logged and the write proceeds, since the full write overwrites everything
// the previous state covered unless it shrank. A write that fails because the
// tab is missing creates the tab and retries once.
func WriteAll[T any](ctx context.Context, e *Engine, tab Tab, items []T, encode func(T) []string) error {
	if e.locks != nil {
		release := e.locks.Acquire(ctx, e.spreadsheetID, tab.Name)
		defer release()
	}

	e.clear(ctx, tab.Name)

	data := make([][]string, 0, len(items)+1)
	data = append(data, tab.Headers)
	for _, item := range items {
		data = append(data, encode(item))
	}

	err := e.tr.WriteRange(ctx, e.spreadsheetID, RangeAddress(tab.Name, FullRange), data)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrTabNotFound) {
		return fmt.Errorf("write %q: %w", tab.Name, err)
	}

	log.Printf("[sheets] tab %q missing on write, creating and retrying", tab.Name)
	if err := ensureTab(ctx, e.tr, e.spreadsheetID, tab); err != nil {
		return fmt.Errorf("ensure %q: %w", tab.Name, err)
	}
	if err := e.tr.WriteRange(ctx, e.spreadsheetID, RangeAddress(tab.Name, FullRange), data); err != nil {
		return fmt.Errorf("write %q after create: %w", tab.Name, err)
	}
	return nil
}

// clear blanks the tab's previous content, sized to what is currently there.
// Non-fatal: a shorter new collection is the only state a failed clear can
// corrupt, and the subsequent full-range write still overwrites every row the
// old content occupied when it is not shorter.
func (e *Engine) clear(ctx context.Context, tabName string) {
	rows, err := e.tr.ReadRange(ctx, e.spreadsheetID, RangeAddress(tabName, FullRange))
	if err != nil {
		log.Printf("[sheets] clear %q: read failed: %v", tabName, err)
		return
	}
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	blank := make([][]string, len(rows))
	for i := range blank {
		blank[i] = make([]string, width)
	}

	if err := e.tr.WriteRange(ctx, e.spreadsheetID, RangeAddress(tabName, FullRange), blank); err != nil {
		log.Printf("[sheets] clear %q: write failed: %v", tabName, err)
	}
}
