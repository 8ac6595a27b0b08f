package sheets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thistracker/thistracker-backend/internal/sheets"
	"github.com/thistracker/thistracker-backend/internal/sheets/sheetstest"
)

type item struct {
	ID   string
	Name string
}

var itemsTab = sheets.Tab{Name: "Items", Headers: []string{"ID", "Name"}}

func encodeItem(it item) []string { return []string{it.ID, it.Name} }

func decodeItem(row []string) item {
	it := item{ID: row[0]}
	if len(row) > 1 {
		it.Name = row[1]
	}
	return it
}

func newEngine(t *testing.T) (*sheetstest.Universe, *sheetstest.MemTransport, *sheets.Engine, string) {
	t.Helper()
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	id := u.Seed("alice", "Test-Sheet")
	require.NoError(t, tr.CreateTab(context.Background(), id, itemsTab.Name))
	return u, tr, sheets.NewEngine(tr, id, nil), id
}

func TestWriteAllReadAllRoundTrip(t *testing.T) {
	_, _, eng, _ := newEngine(t)
	ctx := context.Background()

	in := []item{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, in, encodeItem))

	out, err := sheets.ReadAll(ctx, eng, itemsTab.Name, decodeItem)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteAllIsIdempotent(t *testing.T) {
	_, _, eng, _ := newEngine(t)
	ctx := context.Background()

	in := []item{{ID: "1", Name: "one"}}
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, in, encodeItem))
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, in, encodeItem))

	out, err := sheets.ReadAll(ctx, eng, itemsTab.Name, decodeItem)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteAllShrinkLeavesNoStaleRows(t *testing.T) {
	u, _, eng, id := newEngine(t)
	ctx := context.Background()

	big := []item{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}, {ID: "3", Name: "three"}}
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, big, encodeItem))

	small := []item{{ID: "9", Name: "nine"}}
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, small, encodeItem))

	out, err := sheets.ReadAll(ctx, eng, itemsTab.Name, decodeItem)
	require.NoError(t, err)
	assert.Equal(t, small, out)

	// Rows 3 and 4 of the raw grid must be blank, not leftovers of the
	// bigger collection.
	cells := u.Cells(id, itemsTab.Name)
	require.GreaterOrEqual(t, len(cells), 4)
	for _, row := range cells[2:4] {
		for _, v := range row {
			assert.Empty(t, v)
		}
	}
}

func TestWriteAllCreatesMissingTab(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	id := u.Seed("alice", "Test-Sheet")
	eng := sheets.NewEngine(tr, id, nil)
	ctx := context.Background()

	in := []item{{ID: "1", Name: "one"}}
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, in, encodeItem))

	assert.Contains(t, u.TabNames(id), itemsTab.Name)
	cells := u.Cells(id, itemsTab.Name)
	require.NotEmpty(t, cells)
	assert.Equal(t, itemsTab.Headers, cells[0])

	out, err := sheets.ReadAll(ctx, eng, itemsTab.Name, decodeItem)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteAllProceedsWhenClearFails(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	id := u.Seed("alice", "Test-Sheet")
	require.NoError(t, tr.CreateTab(context.Background(), id, itemsTab.Name))
	eng := sheets.NewEngine(tr, id, nil)
	ctx := context.Background()

	boom := errors.New("quota exceeded")
	reads := 0
	tr.ReadErr = func(rangeAddr string) error {
		if rangeAddr == sheets.RangeAddress(itemsTab.Name, sheets.FullRange) {
			reads++
			return boom
		}
		return nil
	}

	in := []item{{ID: "1", Name: "one"}}
	require.NoError(t, sheets.WriteAll(ctx, eng, itemsTab, in, encodeItem))
	assert.Equal(t, 1, reads)

	tr.ReadErr = nil
	out, err := sheets.ReadAll(ctx, eng, itemsTab.Name, decodeItem)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadAllMissingTab(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	id := u.Seed("alice", "Test-Sheet")
	eng := sheets.NewEngine(tr, id, nil)

	_, err := sheets.ReadAll(context.Background(), eng, "Nope", decodeItem)
	require.Error(t, err)
	assert.ErrorIs(t, err, sheets.ErrTabNotFound)
}

func TestReadAllEmptyTab(t *testing.T) {
	_, _, eng, _ := newEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.EnsureTab(ctx, itemsTab))
	out, err := sheets.ReadAll(ctx, eng, itemsTab.Name, decodeItem)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEnsureTabIdempotent(t *testing.T) {
	u, _, eng, id := newEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.EnsureTab(ctx, itemsTab))
	require.NoError(t, eng.EnsureTab(ctx, itemsTab))

	names := u.TabNames(id)
	count := 0
	for _, n := range names {
		if n == itemsTab.Name {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
