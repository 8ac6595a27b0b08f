package sheets

import "strings"

// A1 ranges addressed by the store. Collections live in rows 2..1000 under a
// header row; 1000 rows by 26 columns is the fixed window the original data
// layout assumes.
const (
	FullRange   = "A1:Z1000"
	DataRange   = "A2:Z1000"
	HeaderRange = "A1:Z1"
	ProbeRange  = "A1:A1"
)

// RangeAddress builds the fully qualified address the transport expects.
// Tab names containing a hyphen or a space must be single-quoted; underscores
// and plain names are used bare. Recomputed per call, no validation beyond
// quoting.
func RangeAddress(tabName, cells string) string {
	if strings.ContainsAny(tabName, "- ") {
		return "'" + tabName + "'!" + cells
	}
	return tabName + "!" + cells
}
