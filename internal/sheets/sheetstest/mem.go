// Package sheetstest provides an in-memory Transport for exercising the
// provisioning and sync layers without Google credentials. It mimics the
// observable quirks of the Values API: updates only touch the cells they
// cover, and reads omit trailing empty cells and rows.
package sheetstest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thistracker/thistracker-backend/internal/sheets"
)

// Universe is a shared fake Drive: files with owners plus their spreadsheets.
// Build one per test and derive per-principal transports from it.
type Universe struct {
	mu     sync.Mutex
	seq    int
	files  []fileRec
	sheets map[string]*spreadsheet
}

type fileRec struct {
	id      string
	name    string
	owner   string
	created time.Time
}

type spreadsheet struct {
	title   string
	nextTab int64
	tabs    []*memTab
}

type memTab struct {
	id    int64
	name  string
	cells [][]string
}

func NewUniverse() *Universe {
	return &Universe{sheets: make(map[string]*spreadsheet)}
}

// Transport returns a Transport acting as the given principal. All transports
// from the same Universe share the file store, so ownership scoping is
// observable.
func (u *Universe) Transport(principal string) *MemTransport {
	return &MemTransport{u: u, principal: principal}
}

// Seed creates a spreadsheet owned by principal with only the provider
// default tab, as a fresh Google spreadsheet would have.
func (u *Universe) Seed(principal, name string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.create(principal, name)
}

func (u *Universe) create(principal, name string) string {
	u.seq++
	id := fmt.Sprintf("ss-%d", u.seq)
	u.files = append(u.files, fileRec{
		id:      id,
		name:    name,
		owner:   principal,
		created: time.Unix(1700000000, 0).Add(time.Duration(u.seq) * time.Second),
	})
	ss := &spreadsheet{title: name, nextTab: 1}
	ss.tabs = append(ss.tabs, &memTab{id: 0, name: "Sheet1"})
	u.sheets[id] = ss
	return id
}

// Cells returns a copy of the raw grid of a tab, untrimmed.
func (u *Universe) Cells(spreadsheetID, tabName string) [][]string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ss := u.sheets[spreadsheetID]
	if ss == nil {
		return nil
	}
	tab := ss.tab(tabName)
	if tab == nil {
		return nil
	}
	out := make([][]string, len(tab.cells))
	for i, row := range tab.cells {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// TabNames lists the tabs of a spreadsheet in creation order.
func (u *Universe) TabNames(spreadsheetID string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ss := u.sheets[spreadsheetID]
	if ss == nil {
		return nil
	}
	names := make([]string, 0, len(ss.tabs))
	for _, t := range ss.tabs {
		names = append(names, t.name)
	}
	return names
}

func (ss *spreadsheet) tab(name string) *memTab {
	for _, t := range ss.tabs {
		if t.name == name {
			return t
		}
	}
	return nil
}

// MemTransport implements sheets.Transport against a Universe.
type MemTransport struct {
	u         *Universe
	principal string

	// Optional fault hooks, consulted before the operation runs.
	ReadErr  func(rangeAddr string) error
	WriteErr func(rangeAddr string) error
}

var _ sheets.Transport = (*MemTransport)(nil)

func (t *MemTransport) ReadRange(_ context.Context, spreadsheetID, rangeAddr string) ([][]string, error) {
	if t.ReadErr != nil {
		if err := t.ReadErr(rangeAddr); err != nil {
			return nil, err
		}
	}

	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	tab, startRow, endRow, err := t.locate(spreadsheetID, rangeAddr)
	if err != nil {
		return nil, err
	}

	var out [][]string
	last := -1
	for r := startRow; r <= endRow && r < len(tab.cells); r++ {
		row := trimRow(tab.cells[r])
		out = append(out, row)
		if len(row) > 0 {
			last = len(out) - 1
		}
	}
	if last < 0 {
		return nil, nil
	}
	return out[:last+1], nil
}

func (t *MemTransport) WriteRange(_ context.Context, spreadsheetID, rangeAddr string, values [][]string) error {
	if t.WriteErr != nil {
		if err := t.WriteErr(rangeAddr); err != nil {
			return err
		}
	}

	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	tab, startRow, _, err := t.locate(spreadsheetID, rangeAddr)
	if err != nil {
		return err
	}

	for i, row := range values {
		r := startRow + i
		for r >= len(tab.cells) {
			tab.cells = append(tab.cells, nil)
		}
		for c, v := range row {
			for c >= len(tab.cells[r]) {
				tab.cells[r] = append(tab.cells[r], "")
			}
			tab.cells[r][c] = v
		}
	}
	return nil
}

func (t *MemTransport) CreateTab(_ context.Context, spreadsheetID, tabName string) error {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	ss := t.u.sheets[spreadsheetID]
	if ss == nil {
		return fmt.Errorf("spreadsheet %s not found", spreadsheetID)
	}
	if ss.tab(tabName) != nil {
		return fmt.Errorf("tab %q already exists", tabName)
	}
	ss.tabs = append(ss.tabs, &memTab{id: ss.nextTab, name: tabName})
	ss.nextTab++
	return nil
}

func (t *MemTransport) DeleteTab(_ context.Context, spreadsheetID string, tabID int64) error {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	ss := t.u.sheets[spreadsheetID]
	if ss == nil {
		return fmt.Errorf("spreadsheet %s not found", spreadsheetID)
	}
	for i, tab := range ss.tabs {
		if tab.id == tabID {
			ss.tabs = append(ss.tabs[:i], ss.tabs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tab %d not found", tabID)
}

func (t *MemTransport) CreateSpreadsheet(_ context.Context, name string) (string, error) {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()
	return t.u.create(t.principal, name), nil
}

func (t *MemTransport) GetSpreadsheetMetadata(_ context.Context, spreadsheetID string) (*sheets.SpreadsheetMetadata, error) {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	ss := t.u.sheets[spreadsheetID]
	if ss == nil {
		return nil, fmt.Errorf("spreadsheet %s not found", spreadsheetID)
	}
	md := &sheets.SpreadsheetMetadata{SpreadsheetID: spreadsheetID, Title: ss.title}
	for _, tab := range ss.tabs {
		md.Tabs = append(md.Tabs, sheets.TabInfo{Title: tab.name, ID: tab.id, RowCount: 1000, ColumnCount: 26})
	}
	return md, nil
}

func (t *MemTransport) SearchOwnedSpreadsheets(_ context.Context, name string, exact bool) ([]sheets.FileInfo, error) {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	var out []sheets.FileInfo
	for _, f := range t.u.files {
		if f.owner != t.principal {
			continue
		}
		if exact && f.name != name {
			continue
		}
		if !exact && !strings.Contains(f.name, name) {
			continue
		}
		out = append(out, sheets.FileInfo{ID: f.id, Name: f.name, CreatedTime: f.created})
	}
	return out, nil
}

// locate resolves a range address to its tab and row window (0-based,
// inclusive). A tab that does not exist yields ErrTabNotFound, matching how
// the Values API rejects unparseable ranges.
func (t *MemTransport) locate(spreadsheetID, rangeAddr string) (*memTab, int, int, error) {
	ss := t.u.sheets[spreadsheetID]
	if ss == nil {
		return nil, 0, 0, fmt.Errorf("spreadsheet %s not found", spreadsheetID)
	}

	name, cells, ok := strings.Cut(rangeAddr, "!")
	if !ok {
		return nil, 0, 0, fmt.Errorf("malformed range %q", rangeAddr)
	}
	name = strings.Trim(name, "'")

	tab := ss.tab(name)
	if tab == nil {
		return nil, 0, 0, fmt.Errorf("%q: %w", rangeAddr, sheets.ErrTabNotFound)
	}

	start, end, ok := strings.Cut(cells, ":")
	if !ok {
		end = start
	}
	startRow := cellRow(start)
	endRow := cellRow(end)
	return tab, startRow - 1, endRow - 1, nil
}

func cellRow(cell string) int {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		i++
	}
	n, err := strconv.Atoi(cell[i:])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return append([]string(nil), row[:end]...)
}
