// Package sheets pushes finished audit reports into a shared Google
// spreadsheet so the administration can review them without touching the
// system itself.
package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/Josiascalt/tac-inventory-sys/internal/audit"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

type Exporter struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           *zap.Logger
}

// NewExporter builds the Sheets client from GOOGLE_SHEETS_CREDENTIALS_JSON,
// falling back to a local credentials file for development. The target
// spreadsheet comes from AUDIT_SPREADSHEET_ID.
func NewExporter(log *zap.Logger) (*Exporter, error) {
	ctx := context.Background()

	spreadsheetID := os.Getenv("AUDIT_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("AUDIT_SPREADSHEET_ID environment variable is not set")
	}

	credentialsJSON := []byte(os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"))
	if len(credentialsJSON) == 0 {
		b, err := os.ReadFile("configs/google-credentials.json")
		if err != nil {
			return nil, fmt.Errorf("unable to read Google credentials: %w", err)
		}
		credentialsJSON = b
	}

	credentials, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to load Google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client: %w", err)
	}

	return &Exporter{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// BuildRows flattens a report into spreadsheet rows: a session header, a
// column header, then one row per unit with found units first.
func BuildRows(report *audit.Report) [][]interface{} {
	rows := [][]interface{}{
		{"Audit session", report.SessionID, report.LocationName, report.AuditorName, report.AuditDate},
		{"Asset ID", "Item", "Result", "Condition", "Notes", "Last seen"},
	}

	for _, unit := range report.Found {
		rows = append(rows, []interface{}{unit.FullAssetID, unit.Title, "Found", unit.Condition, unit.Notes, ""})
	}
	for _, unit := range report.Missing {
		rows = append(rows, []interface{}{unit.FullAssetID, unit.Title, "Missing", unit.Condition, unit.Notes, unit.LastSeen})
	}

	return rows
}

// Export appends the report's rows below whatever the sheet already holds.
func (e *Exporter) Export(report *audit.Report) error {
	valueRange := &sheets.ValueRange{Values: BuildRows(report)}

	_, err := e.sheetsService.Spreadsheets.Values.
		Append(e.spreadsheetID, "A1", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Do()

	if err != nil {
		return fmt.Errorf("unable to append audit report to spreadsheet: %w", err)
	}

	e.log.Info("audit report exported to spreadsheet",
		zap.String("session_id", report.SessionID),
		zap.Int("found", report.FoundCount),
		zap.Int("missing", report.MissingCount),
	)

	return nil
}
