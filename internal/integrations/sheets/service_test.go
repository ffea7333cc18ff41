package sheets

import (
	"testing"

	"github.com/Josiascalt/tac-inventory-sys/internal/audit"

	"github.com/stretchr/testify/assert"
)

func TestBuildRows(t *testing.T) {
	report := &audit.Report{
		SessionID:    "audit-20250307_12_3",
		LocationName: "Computer Lab",
		AuditorName:  "Grace Okafor",
		AuditDate:    "07/03/2025",
		FoundCount:   1,
		MissingCount: 1,
		Found: []audit.ReportUnit{
			{FullAssetID: "LAPTOP-000", Title: "Dell Latitude 5440", Condition: "Okay"},
		},
		Missing: []audit.ReportUnit{
			{FullAssetID: "LAPTOP-001", Title: "Dell Latitude 5440", Condition: "Not Found", LastSeen: "Last seen on 20/01/2025"},
		},
	}

	rows := BuildRows(report)

	assert.Len(t, rows, 4)
	assert.Equal(t, "audit-20250307_12_3", rows[0][1])
	assert.Equal(t, "Asset ID", rows[1][0])
	assert.Equal(t, "Found", rows[2][2])
	assert.Equal(t, "Missing", rows[3][2])
	assert.Equal(t, "Last seen on 20/01/2025", rows[3][5])
}

func TestBuildRowsEmptyPartitions(t *testing.T) {
	rows := BuildRows(&audit.Report{SessionID: "audit-20250307_12_3"})

	// Header rows only.
	assert.Len(t, rows, 2)
}
