package sheets

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thistracker/thistracker-backend/internal/apperr"
)

const defaultTabTitle = "Sheet1"

// ProvisionSpec describes the spreadsheet a Provisioner must guarantee.
type ProvisionSpec struct {
	// MainName is the exact spreadsheet name searched for and preferred when
	// creating (e.g. "ThisTracker-Main").
	MainName string
	// BaseName prefixes generated fallback names and scopes the fallback
	// search (e.g. "ThisTracker").
	BaseName string
	// Required tabs are ensured on every initialization, adopted or created.
	Required []Tab
	// Eager tabs get their header rows only on the created path; adopted
	// spreadsheets pick them up lazily through the sync engine's
	// create-then-retry write.
	Eager []Tab
	// SettingsTab and SeedRows describe the configuration snapshot written
	// into a freshly created spreadsheet. Seeding is best-effort.
	SettingsTab Tab
	SeedRows    [][]string
}

// Provisioner locates or creates the single spreadsheet owned by the current
// principal and guarantees its tab layout. Initialize is idempotent: running
// it against a healthy spreadsheet changes nothing.
type Provisioner struct {
	tr   Transport
	spec ProvisionSpec
}

func NewProvisioner(tr Transport, spec ProvisionSpec) *Provisioner {
	return &Provisioner{tr: tr, spec: spec}
}

// Initialize returns the spreadsheet id to use for this principal. Failures
// locating or creating the spreadsheet itself are fatal; failures on
// individual tabs, the default-tab delete, and settings seeding are not.
func (p *Provisioner) Initialize(ctx context.Context) (string, error) {
	spreadsheetID, err := p.findExisting(ctx)
	if err != nil {
		return "", err
	}

	if spreadsheetID != "" {
		log.Printf("[sheets] adopted spreadsheet %s", spreadsheetID)
		if err := p.ensureRequiredTabs(ctx, spreadsheetID); err != nil {
			return "", err
		}
		return spreadsheetID, nil
	}

	name, err := p.uniqueName(ctx)
	if err != nil {
		return "", err
	}

	spreadsheetID, err = p.tr.CreateSpreadsheet(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}
	log.Printf("[sheets] created spreadsheet %q (%s)", name, spreadsheetID)

	if err := p.ensureRequiredTabs(ctx, spreadsheetID); err != nil {
		return "", err
	}
	for _, tab := range p.spec.Eager {
		if err := ensureTab(ctx, p.tr, spreadsheetID, tab); err != nil {
			return "", err
		}
	}

	p.deleteDefaultTab(ctx, spreadsheetID)
	p.seedSettings(ctx, spreadsheetID)

	return spreadsheetID, nil
}

// findExisting searches the principal's own files: the exact main name first,
// then any spreadsheet with the base prefix, newest first. Returns "" when
// nothing is adoptable.
func (p *Provisioner) findExisting(ctx context.Context) (string, error) {
	exact, err := p.tr.SearchOwnedSpreadsheets(ctx, p.spec.MainName, true)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", p.spec.MainName, err)
	}
	if len(exact) > 0 {
		return exact[0].ID, nil
	}

	candidates, err := p.tr.SearchOwnedSpreadsheets(ctx, p.spec.BaseName, false)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", p.spec.BaseName, err)
	}

	matches := candidates[:0]
	for _, f := range candidates {
		if strings.HasPrefix(f.Name, p.spec.BaseName) {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return "", nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedTime.After(matches[j].CreatedTime)
	})
	return matches[0].ID, nil
}

// uniqueName prefers the exact main name when the principal does not already
// hold it, then tries date+random suffixes up to ten times, and finally falls
// back to a millisecond timestamp accepted unconditionally.
func (p *Provisioner) uniqueName(ctx context.Context) (string, error) {
	taken, err := p.tr.SearchOwnedSpreadsheets(ctx, p.spec.MainName, true)
	if err == nil && len(taken) == 0 {
		return p.spec.MainName, nil
	}
	if err != nil {
		log.Printf("[sheets] main name availability check failed: %v", err)
	}

	day := time.Now().UTC().Format("2006-01-02")
	for attempt := 0; attempt < 10; attempt++ {
		name := fmt.Sprintf("%s-%s-%s", p.spec.BaseName, day, nameSuffix())
		existing, err := p.tr.SearchOwnedSpreadsheets(ctx, name, true)
		if err != nil {
			// Cannot verify uniqueness; use the candidate as-is.
			log.Printf("[sheets] uniqueness check for %q failed: %v", name, err)
			return name, nil
		}
		if len(existing) == 0 {
			return name, nil
		}
	}

	return fmt.Sprintf("%s-%s-%d", p.spec.BaseName, day, time.Now().UnixMilli()), nil
}

func nameSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

func (p *Provisioner) ensureRequiredTabs(ctx context.Context, spreadsheetID string) error {
	for _, tab := range p.spec.Required {
		if err := ensureTab(ctx, p.tr, spreadsheetID, tab); err != nil {
			return fmt.Errorf("ensure tab %q: %w", tab.Name, err)
		}
	}
	return nil
}

func (p *Provisioner) deleteDefaultTab(ctx context.Context, spreadsheetID string) {
	md, err := p.tr.GetSpreadsheetMetadata(ctx, spreadsheetID)
	if err != nil {
		log.Printf("[sheets] default tab lookup: %v", err)
		return
	}
	for _, tab := range md.Tabs {
		if tab.Title != defaultTabTitle {
			continue
		}
		if err := p.tr.DeleteTab(ctx, spreadsheetID, tab.ID); err != nil {
			log.Printf("[sheets] delete default tab: %v", err)
		}
		return
	}
}

func (p *Provisioner) seedSettings(ctx context.Context, spreadsheetID string) {
	if len(p.spec.SeedRows) == 0 {
		return
	}
	data := append([][]string{p.spec.SettingsTab.Headers}, p.spec.SeedRows...)
	addr := RangeAddress(p.spec.SettingsTab.Name, FullRange)
	if err := p.tr.WriteRange(ctx, spreadsheetID, addr, data); err != nil {
		log.Printf("[sheets] seed settings: %v", err)
	}
}

// VerifyIntegrity checks that every required tab is present and recreates the
// missing ones. It reports whether the spreadsheet was already intact.
func (p *Provisioner) VerifyIntegrity(ctx context.Context, spreadsheetID string) (bool, error) {
	md, err := p.tr.GetSpreadsheetMetadata(ctx, spreadsheetID)
	if err != nil {
		return false, apperr.Wrap(apperr.IntegrityError, "verify integrity", err)
	}

	present := make(map[string]bool, len(md.Tabs))
	for _, tab := range md.Tabs {
		present[tab.Title] = true
	}

	intact := true
	for _, tab := range p.spec.Required {
		if present[tab.Name] {
			continue
		}
		intact = false
		log.Printf("[sheets] integrity: tab %q missing, recreating", tab.Name)
		if err := ensureTab(ctx, p.tr, spreadsheetID, tab); err != nil {
			return false, apperr.Wrap(apperr.IntegrityError, fmt.Sprintf("recreate tab %q", tab.Name), err)
		}
	}
	return intact, nil
}
