package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/thistracker/thistracker-backend/internal/apperr"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// GoogleTransport talks to the Sheets v4 and Drive v3 APIs on behalf of one
// principal. Every call waits on the shared limiter first, so the process
// stays inside its request budget by delaying rather than failing.
type GoogleTransport struct {
	sheets  *sheetsapi.Service
	drive   *drive.Service
	limiter *rate.Limiter
}

// NewGoogleTransport builds a transport from the principal's token source.
// The limiter is shared across requests; pass the process-wide one.
func NewGoogleTransport(ctx context.Context, ts oauth2.TokenSource, limiter *rate.Limiter) (*GoogleTransport, error) {
	httpClient := oauth2.NewClient(ctx, ts)

	sheetsSvc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &GoogleTransport{sheets: sheetsSvc, drive: driveSvc, limiter: limiter}, nil
}

func (t *GoogleTransport) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return apperr.Wrap(apperr.TransportError, "rate limiter", err)
	}
	return nil
}

func (t *GoogleTransport) ReadRange(ctx context.Context, spreadsheetID, rangeAddr string) ([][]string, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := t.sheets.Spreadsheets.Values.Get(spreadsheetID, rangeAddr).Context(ctx).Do()
	if err != nil {
		return nil, wrapGoogleErr("read "+rangeAddr, err)
	}

	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, fmt.Sprint(v))
		}
		out = append(out, cells)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (t *GoogleTransport) WriteRange(ctx context.Context, spreadsheetID, rangeAddr string, values [][]string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}

	vr := &sheetsapi.ValueRange{Values: make([][]interface{}, 0, len(values))}
	for _, row := range values {
		cells := make([]interface{}, 0, len(row))
		for _, v := range row {
			cells = append(cells, v)
		}
		vr.Values = append(vr.Values, cells)
	}

	_, err := t.sheets.Spreadsheets.Values.Update(spreadsheetID, rangeAddr, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return wrapGoogleErr("write "+rangeAddr, err)
	}
	return nil
}

func (t *GoogleTransport) CreateTab(ctx context.Context, spreadsheetID, tabName string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: tabName},
			},
		}},
	}
	if _, err := t.sheets.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return wrapGoogleErr("create tab "+tabName, err)
	}
	return nil
}

func (t *GoogleTransport) DeleteTab(ctx context.Context, spreadsheetID string, tabID int64) error {
	if err := t.wait(ctx); err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: tabID},
		}},
	}
	if _, err := t.sheets.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return wrapGoogleErr(fmt.Sprintf("delete tab %d", tabID), err)
	}
	return nil
}

func (t *GoogleTransport) CreateSpreadsheet(ctx context.Context, name string) (string, error) {
	if err := t.wait(ctx); err != nil {
		return "", err
	}

	ss, err := t.sheets.Spreadsheets.Create(&sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return "", wrapGoogleErr("create spreadsheet "+name, err)
	}
	if ss.SpreadsheetId == "" {
		return "", apperr.New(apperr.TransportError, "create spreadsheet: response carried no id")
	}
	return ss.SpreadsheetId, nil
}

func (t *GoogleTransport) GetSpreadsheetMetadata(ctx context.Context, spreadsheetID string) (*SpreadsheetMetadata, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}

	ss, err := t.sheets.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, wrapGoogleErr("get spreadsheet "+spreadsheetID, err)
	}

	md := &SpreadsheetMetadata{SpreadsheetID: spreadsheetID}
	if ss.Properties != nil {
		md.Title = ss.Properties.Title
	}
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		info := TabInfo{Title: sh.Properties.Title, ID: sh.Properties.SheetId}
		if gp := sh.Properties.GridProperties; gp != nil {
			info.RowCount = gp.RowCount
			info.ColumnCount = gp.ColumnCount
		}
		md.Tabs = append(md.Tabs, info)
	}
	return md, nil
}

// SearchOwnedSpreadsheets queries Drive for spreadsheets matching name. The
// 'me' in owners clause is mandatory: without it a user could adopt another
// account's tracker spreadsheet shared with them.
func (t *GoogleTransport) SearchOwnedSpreadsheets(ctx context.Context, name string, exact bool) ([]FileInfo, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}

	nameClause := fmt.Sprintf("name contains '%s'", escapeDriveQuery(name))
	if exact {
		nameClause = fmt.Sprintf("name = '%s'", escapeDriveQuery(name))
	}
	query := fmt.Sprintf("%s and mimeType='%s' and trashed=false and 'me' in owners", nameClause, spreadsheetMimeType)

	resp, err := t.drive.Files.List().
		Q(query).
		Fields("files(id,name,createdTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapGoogleErr("search spreadsheets", err)
	}

	out := make([]FileInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		created, _ := time.Parse(time.RFC3339, f.CreatedTime)
		out = append(out, FileInfo{ID: f.Id, Name: f.Name, CreatedTime: created})
	}
	return out, nil
}

func escapeDriveQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func wrapGoogleErr(op string, err error) error {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		switch {
		case ge.Code == 401 || ge.Code == 403:
			return apperr.Wrap(apperr.AuthRequired, op, err)
		case ge.Code == 400 && strings.Contains(ge.Message, "Unable to parse range"):
			return fmt.Errorf("%s: %w", op, ErrTabNotFound)
		}
	}
	return apperr.Wrap(apperr.TransportError, op, err)
}
