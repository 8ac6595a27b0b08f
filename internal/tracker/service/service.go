// Package service implements the tracker façade: entity CRUD over the
// spreadsheet store, derived time-entry fields, settings and diagnostics.
package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thistracker/thistracker-backend/internal/sheets"
	"github.com/thistracker/thistracker-backend/internal/tracker/repository"
)

// DataService handles tracker business logic on top of the sheet-backed
// store. Mutations follow a read-modify-write cycle over whole collections;
// there is no cross-entity referential integrity.
type DataService struct {
	store *repository.Store
	prov  *sheets.Provisioner
}

// NewDataService creates a new tracker service.
func NewDataService(store *repository.Store, prov *sheets.Provisioner) *DataService {
	return &DataService{store: store, prov: prov}
}

// newID builds an opaque id: creation time in milliseconds plus a short
// random suffix, so ids sort roughly by creation order.
func newID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
