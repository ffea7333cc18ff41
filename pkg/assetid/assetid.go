// Package assetid derives and parses the printed asset identifiers that link
// physical units to their owning stock entry. The derivation formula is the
// only thing tying the audit and acknowledgement logs back to the catalog, so
// every component shares this package instead of storing its own copy.
package assetid

import (
	"fmt"
	"strconv"
	"strings"
)

// Derive builds the full asset ID for one unit: BASE-NNN, where NNN is the
// zero-padded absolute unit number (starting unit ID + offset within the
// batch). Numbers above 999 keep their full width.
func Derive(baseID string, unitNumber int) string {
	return fmt.Sprintf("%s-%03d", baseID, unitNumber)
}

// DeriveRange returns the asset IDs of every unit in a batch of quantity
// units starting at startingUnitID.
func DeriveRange(baseID string, startingUnitID, quantity int) []string {
	ids := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		ids = append(ids, Derive(baseID, startingUnitID+i))
	}
	return ids
}

// Parse splits a scanned or typed asset ID on its last dash into the base ID
// and the numeric unit number. Base IDs containing dashes stay intact.
func Parse(scanned string) (baseID string, unitNumber int, err error) {
	idx := strings.LastIndex(scanned, "-")
	if idx <= 0 || idx == len(scanned)-1 {
		return "", 0, fmt.Errorf("asset ID %q is not in BASE-NNN format", scanned)
	}

	unitNumber, err = strconv.Atoi(scanned[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("asset ID %q has a non-numeric unit part", scanned)
	}

	return scanned[:idx], unitNumber, nil
}
