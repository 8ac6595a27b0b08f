package sheets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thistracker/thistracker-backend/internal/sheets"
)

func TestRangeAddress(t *testing.T) {
	t.Run("plain tab name is unquoted", func(t *testing.T) {
		assert.Equal(t, "Clients!A2:Z1000", sheets.RangeAddress("Clients", sheets.DataRange))
	})

	t.Run("tab name with space is quoted", func(t *testing.T) {
		assert.Equal(t, "'Time Entries'!A1:Z1000", sheets.RangeAddress("Time Entries", sheets.FullRange))
	})

	t.Run("tab name with hyphen is quoted", func(t *testing.T) {
		assert.Equal(t, "'My-Tab'!A1:A1", sheets.RangeAddress("My-Tab", sheets.ProbeRange))
	})

	t.Run("underscores stay bare", func(t *testing.T) {
		assert.Equal(t, "time_entries!A1:Z1", sheets.RangeAddress("time_entries", sheets.HeaderRange))
	})
}
