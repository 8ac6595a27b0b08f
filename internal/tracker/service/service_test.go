package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/sheets"
	"github.com/thistracker/thistracker-backend/internal/sheets/sheetstest"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
	"github.com/thistracker/thistracker-backend/internal/tracker/repository"
	"github.com/thistracker/thistracker-backend/internal/tracker/service"
)

type fixture struct {
	svc *service.DataService
	u   *sheetstest.Universe
	tr  *sheetstest.MemTransport
	id  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u := sheetstest.NewUniverse()
	tr := u.Transport("alice")
	tabs := repository.NewTabSet("Clients", "Projects", "Tasks", "Time Entries", "Settings")

	prov := sheets.NewProvisioner(tr, tabs.ProvisionSpec("Tracker-Main", "Tracker", "tracker", "1.0.0"))
	id, err := prov.Initialize(context.Background())
	require.NoError(t, err)

	store := repository.NewStore(sheets.NewEngine(tr, id, nil), tabs)
	return &fixture{svc: service.NewDataService(store, prov), u: u, tr: tr, id: id}
}

func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

// seedChain creates a client, a project under it, and a task under that, so
// time-entry tests have the full ancestry to resolve.
func (f *fixture) seedChain(t *testing.T, rate *float64) (domain.Client, domain.Project, domain.Task) {
	t.Helper()
	ctx := context.Background()

	client, err := f.svc.CreateClient(ctx, domain.ClientForm{Name: "Acme"})
	require.NoError(t, err)
	project, err := f.svc.CreateProject(ctx, domain.ProjectForm{
		ClientID:   client.ID,
		Name:       "Website",
		HourlyRate: rate,
	})
	require.NoError(t, err)
	task, err := f.svc.CreateTask(ctx, domain.TaskForm{ProjectID: project.ID, Name: "Build API"})
	require.NoError(t, err)
	return *client, *project, *task
}

func TestCreateClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	client, err := f.svc.CreateClient(ctx, domain.ClientForm{Name: "Acme", Email: "a@acme.test"})
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.True(t, client.IsActive)
	assert.Equal(t, client.CreatedAt, client.UpdatedAt, "creation stamps both timestamps with the same instant")

	clients, err := f.svc.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, client.ID, clients[0].ID)
}

func TestCreateClientRequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateClient(context.Background(), domain.ClientForm{Email: "a@acme.test"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.ValidationFailed))
}

func TestUpdateClientMergesPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	client, err := f.svc.CreateClient(ctx, domain.ClientForm{Name: "Acme", Notes: "net 30"})
	require.NoError(t, err)

	name := "Acme Corp"
	updated, err := f.svc.UpdateClient(ctx, client.ID, domain.ClientPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "net 30", updated.Notes, "unpatched fields survive")
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	_, err = f.svc.UpdateClient(ctx, "missing", domain.ClientPatch{Name: &name})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestProjectWithoutRealClientIsAllowed(t *testing.T) {
	// There is no referential integrity: a project may point at any client
	// id, and deleting a client does not cascade.
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.svc.CreateProject(ctx, domain.ProjectForm{ClientID: "ghost", Name: "Orphan"})
	require.NoError(t, err)

	forGhost, err := f.svc.GetProjects(ctx, "ghost")
	require.NoError(t, err)
	require.Len(t, forGhost, 1)
	assert.Equal(t, project.ID, forGhost[0].ID)
}

func TestDeleteClientDoesNotCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, project, task := f.seedChain(t, nil)

	require.NoError(t, f.svc.DeleteClient(ctx, client.ID))

	_, err := f.svc.GetClient(ctx, client.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	remaining, err := f.svc.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, remaining.ClientID, "orphaned project keeps the dangling client id")

	_, err = f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
}

func TestCreateProjectNormalizesStatus(t *testing.T) {
	f := newFixture(t)

	project, err := f.svc.CreateProject(context.Background(), domain.ProjectForm{Name: "Website", Status: "archived"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusActive, project.Status)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTask(ctx, domain.TaskForm{ProjectID: "p1"})
	assert.True(t, apperr.IsKind(err, apperr.ValidationFailed))

	_, err = f.svc.CreateTask(ctx, domain.TaskForm{Name: "Build"})
	assert.True(t, apperr.IsKind(err, apperr.ValidationFailed))
}

func TestGetTasksFiltersByProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, project, task := f.seedChain(t, nil)

	other, err := f.svc.CreateTask(ctx, domain.TaskForm{ProjectID: "other-project", Name: "Elsewhere"})
	require.NoError(t, err)

	tasks, err := f.svc.GetTasks(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	all, err := f.svc.GetTasks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_ = other
}

func TestCreateTimeEntryUnknownTask(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTimeEntry(context.Background(), domain.TimeEntryForm{
		TaskID:      "missing",
		Description: "work",
		StartTime:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
	assert.Equal(t, "Task not found", err.Error())
}

func TestCreateTimeEntryDerivesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, project, task := f.seedChain(t, floatPtr(100))

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2*time.Hour + 30*time.Minute)
	entry, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
		TaskID:      task.ID,
		Description: "api work",
		StartTime:   start,
		EndTime:     &end,
	})
	require.NoError(t, err)

	assert.Equal(t, project.ID, entry.ProjectID, "project id denormalized from the task")
	assert.Equal(t, client.ID, entry.ClientID, "client id denormalized from the project")
	require.NotNil(t, entry.DurationMs)
	assert.Equal(t, int64(9000000), *entry.DurationMs)
	require.NotNil(t, entry.HourlyRate)
	assert.Equal(t, 100.0, *entry.HourlyRate, "falls back to the project rate")
	require.NotNil(t, entry.TotalAmount)
	assert.Equal(t, 250.0, *entry.TotalAmount)
	assert.False(t, entry.Running())
}

func TestCreateTimeEntryRunning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, task := f.seedChain(t, floatPtr(100))

	entry, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
		TaskID:      task.ID,
		Description: "ongoing",
		StartTime:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, entry.Running())
	assert.Nil(t, entry.DurationMs)
	assert.Nil(t, entry.TotalAmount)
}

func TestCreateTimeEntryEntryRateWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, task := f.seedChain(t, floatPtr(100))

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	entry, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
		TaskID:      task.ID,
		Description: "premium",
		StartTime:   start,
		EndTime:     &end,
		HourlyRate:  floatPtr(150),
	})
	require.NoError(t, err)
	require.NotNil(t, entry.TotalAmount)
	assert.Equal(t, 150.0, *entry.TotalAmount)
}

func TestUpdateTimeEntryRecomputesOnEndTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, task := f.seedChain(t, floatPtr(100))

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entry, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
		TaskID:      task.ID,
		Description: "stopwatch",
		StartTime:   start,
	})
	require.NoError(t, err)
	require.True(t, entry.Running())

	end := start.Add(90 * time.Minute)
	updated, err := f.svc.UpdateTimeEntry(ctx, entry.ID, domain.TimeEntryPatch{EndTime: timePtr(end)})
	require.NoError(t, err)
	require.NotNil(t, updated.DurationMs)
	assert.Equal(t, int64(90*60*1000), *updated.DurationMs)
	require.NotNil(t, updated.TotalAmount)
	assert.Equal(t, 150.0, *updated.TotalAmount)
}

func TestTimeEntryIdsFrozenAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, project, task := f.seedChain(t, nil)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entry, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
		TaskID:      task.ID,
		Description: "before move",
		StartTime:   start,
	})
	require.NoError(t, err)

	// Move the task to a different project; the entry's denormalized ids
	// must not follow.
	otherProject, err := f.svc.CreateProject(ctx, domain.ProjectForm{ClientID: "other-client", Name: "Other"})
	require.NoError(t, err)
	_, err = f.svc.UpdateTask(ctx, task.ID, domain.TaskPatch{ProjectID: &otherProject.ID})
	require.NoError(t, err)

	got, err := f.svc.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ProjectID)
	assert.Equal(t, client.ID, got.ClientID)
}

func TestGetTimeEntriesFilterAndPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, project, task := f.seedChain(t, nil)

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
			TaskID:      task.ID,
			Description: "slot",
			StartTime:   base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		entries, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 5)
		assert.Equal(t, base.Add(4*time.Hour), entries[0].StartTime)
	})

	t.Run("date range", func(t *testing.T) {
		from := base.Add(90 * time.Minute)
		to := base.Add(3 * time.Hour)
		entries, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{Start: &from, End: &to})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("by project", func(t *testing.T) {
		entries, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{ProjectID: project.ID})
		require.NoError(t, err)
		assert.Len(t, entries, 5)

		entries, err = f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{ProjectID: "nope"})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{Limit: 2, Page: 1})
		require.NoError(t, err)
		require.Len(t, page1, 2)

		page3, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{Limit: 2, Page: 3})
		require.NoError(t, err)
		assert.Len(t, page3, 1)

		page4, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{Limit: 2, Page: 4})
		require.NoError(t, err)
		assert.Empty(t, page4)
	})
}

func TestDeleteTimeEntryLeavesOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, task := f.seedChain(t, nil)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	keep, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{TaskID: task.ID, Description: "keep", StartTime: start})
	require.NoError(t, err)
	drop, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{TaskID: task.ID, Description: "drop", StartTime: start.Add(time.Hour)})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTimeEntry(ctx, drop.ID))

	entries, err := f.svc.GetTimeEntries(ctx, domain.TimeEntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)
}

func TestClientAndProjectBundles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, project, task := f.seedChain(t, nil)

	cw, err := f.svc.GetClientWithProjects(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, cw.Client.ID)
	require.Len(t, cw.Projects, 1)
	assert.Equal(t, project.ID, cw.Projects[0].ID)

	pw, err := f.svc.GetProjectWithTasks(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, pw.Project.ID)
	require.Len(t, pw.Tasks, 1)
	assert.Equal(t, task.ID, pw.Tasks[0].ID)
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Provisioning seeded the settings tab; app metadata must be present.
	settings, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tracker", settings["appName"])

	require.NoError(t, f.svc.SetSetting(ctx, "darkMode", true))
	value, err := f.svc.GetSetting(ctx, "darkMode")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	// The write must not clobber the seeded keys.
	settings, err = f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tracker", settings["appName"])

	_, err = f.svc.GetSetting(ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestSpreadsheetInfo(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.GetSpreadsheetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.id, info.SpreadsheetID)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/"+f.id+"/edit", info.URL)
	assert.NotEmpty(t, info.Tabs)
}

func TestVerifyIntegrityReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.VerifyIntegrity(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsIntact)
	assert.Contains(t, report.Message, "present and accessible")

	md, err := f.tr.GetSpreadsheetMetadata(ctx, f.id)
	require.NoError(t, err)
	for _, tab := range md.Tabs {
		if tab.Title == "Tasks" {
			require.NoError(t, f.tr.DeleteTab(ctx, f.id, tab.ID))
		}
	}

	report, err = f.svc.VerifyIntegrity(ctx)
	require.NoError(t, err)
	assert.False(t, report.IsIntact)
	assert.Contains(t, report.Message, "recreated")
}

func TestDataOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, task := f.seedChain(t, nil)

	_, err := f.svc.CreateTimeEntry(ctx, domain.TimeEntryForm{
		TaskID:      task.ID,
		Description: "work",
		StartTime:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	overview, err := f.svc.GetDataOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Counts.Clients)
	assert.Equal(t, 1, overview.Counts.Projects)
	assert.Equal(t, 1, overview.Counts.Tasks)
	assert.Equal(t, 1, overview.Counts.TimeEntries)
	assert.NotNil(t, overview.RecentActivity.LastClient)
	assert.NotNil(t, overview.RecentActivity.LastTimeEntry)
	assert.Equal(t, f.id, overview.SpreadsheetInfo.SpreadsheetID)
}
