package leads

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/wolfman30/leadline/pkg/logging"
)

// headerRange covers the fixed column header on the first sheet.
const headerRange = "A1:F1"

// sheetHeader is the fixed logical schema of the lead store.
var sheetHeader = []interface{}{"Name", "Phone", "Intent", "Lead Score", "Message", "Time"}

// SheetsSink appends lead rows to a Google Sheet.
type SheetsSink struct {
	svc     *sheets.Service
	sheetID string
	logger  *logging.Logger
}

// NewSheetsSink creates a sink authenticated with service-account credentials.
func NewSheetsSink(ctx context.Context, credentialsJSON []byte, sheetID string, logger *logging.Logger) (*SheetsSink, error) {
	if sheetID == "" {
		return nil, errors.New("leads: sheet id is required")
	}
	if len(credentialsJSON) == 0 {
		return nil, errors.New("leads: google credentials are required")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("leads: create sheets service: %w", err)
	}

	return newSheetsSinkWithService(svc, sheetID, logger), nil
}

func newSheetsSinkWithService(svc *sheets.Service, sheetID string, logger *logging.Logger) *SheetsSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &SheetsSink{svc: svc, sheetID: sheetID, logger: logger}
}

// Append writes one lead row, creating the fixed header first if the sheet
// is still blank. The header check runs on every call but only writes once
// per sheet lifetime.
func (s *SheetsSink) Append(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if err := s.ensureHeader(ctx); err != nil {
		return err
	}

	row := &sheets.ValueRange{
		Values: [][]interface{}{{
			record.Name,
			record.Phone,
			record.Intent.String(),
			string(record.Score),
			record.Message,
			record.FormattedTime(),
		}},
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.sheetID, headerRange, row).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("leads: append row: %w", err)
	}

	s.logger.Info("lead saved to sheet", "phone", record.Phone, "score", record.Score)
	return nil
}

func (s *SheetsSink) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("leads: read header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := &sheets.ValueRange{Values: [][]interface{}{sheetHeader}}
	_, err = s.svc.Spreadsheets.Values.Update(s.sheetID, headerRange, header).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("leads: write header: %w", err)
	}
	return nil
}
