package sheets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thistracker/thistracker-backend/internal/sheets"
	"github.com/thistracker/thistracker-backend/internal/sheets/sheetstest"
)

func testSpec() sheets.ProvisionSpec {
	return sheets.ProvisionSpec{
		MainName: "Tracker-Main",
		BaseName: "Tracker",
		Required: []sheets.Tab{
			{Name: "Clients", Headers: []string{"ID", "Name"}},
			{Name: "Settings", Headers: []string{"Key", "Value"}},
		},
		Eager: []sheets.Tab{
			{Name: "Time Entries", Headers: []string{"ID", "Task ID"}},
		},
		SettingsTab: sheets.Tab{Name: "Settings", Headers: []string{"Key", "Value"}},
		SeedRows:    [][]string{{"appName", "tracker"}},
	}
}

func TestInitializeCreatesSpreadsheet(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	p := sheets.NewProvisioner(tr, testSpec())

	id, err := p.Initialize(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	names := u.TabNames(id)
	assert.Contains(t, names, "Clients")
	assert.Contains(t, names, "Settings")
	assert.Contains(t, names, "Time Entries")
	assert.NotContains(t, names, "Sheet1", "provider default tab must be deleted")

	cells := u.Cells(id, "Settings")
	require.GreaterOrEqual(t, len(cells), 2)
	assert.Equal(t, []string{"Key", "Value"}, cells[0])
	assert.Equal(t, []string{"appName", "tracker"}, cells[1])
}

func TestInitializeIsIdempotent(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	p := sheets.NewProvisioner(tr, testSpec())
	ctx := context.Background()

	first, err := p.Initialize(ctx)
	require.NoError(t, err)
	second, err := p.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInitializeAdoptsExactName(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	seeded := u.Seed("alice", "Tracker-Main")

	p := sheets.NewProvisioner(tr, testSpec())
	id, err := p.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seeded, id)

	// Adoption still ensures the required tabs.
	names := u.TabNames(id)
	assert.Contains(t, names, "Clients")
	assert.Contains(t, names, "Settings")
	// The eager tab is only written on the created path.
	assert.NotContains(t, names, "Time Entries")
}

func TestInitializeAdoptsNewestPrefixMatch(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	u.Seed("alice", "Tracker-2024-01-01-aaaaaa")
	newest := u.Seed("alice", "Tracker-2024-06-01-bbbbbb")
	u.Seed("alice", "Unrelated")

	p := sheets.NewProvisioner(tr, testSpec())
	id, err := p.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newest, id)
}

func TestInitializeIgnoresOtherOwners(t *testing.T) {
	u := sheetstest.NewUniverse()
	foreign := u.Seed("mallory", "Tracker-Main")

	tr := u.Transport("alice")
	p := sheets.NewProvisioner(tr, testSpec())
	id, err := p.Initialize(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, foreign, id, "must never adopt another principal's spreadsheet")
}

func TestVerifyIntegrityRepairsMissingTab(t *testing.T) {
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	p := sheets.NewProvisioner(tr, testSpec())
	ctx := context.Background()

	id, err := p.Initialize(ctx)
	require.NoError(t, err)

	intact, err := p.VerifyIntegrity(ctx, id)
	require.NoError(t, err)
	assert.True(t, intact)

	// Drop a required tab behind the provisioner's back.
	md, err := tr.GetSpreadsheetMetadata(ctx, id)
	require.NoError(t, err)
	for _, tab := range md.Tabs {
		if tab.Title == "Clients" {
			require.NoError(t, tr.DeleteTab(ctx, id, tab.ID))
		}
	}

	intact, err = p.VerifyIntegrity(ctx, id)
	require.NoError(t, err)
	assert.False(t, intact)
	assert.Contains(t, u.TabNames(id), "Clients")

	intact, err = p.VerifyIntegrity(ctx, id)
	require.NoError(t, err)
	assert.True(t, intact)
}
