package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"janelas-backend/internal/window"
)

const mimeGoogleSheet = "application/vnd.google-apps.spreadsheet"

// Client retrieves spreadsheet files from Google Drive. Native Google
// Sheets are read through the Sheets values API; anything else (the sources
// are sometimes uploaded XLSX workbooks) is downloaded and parsed as Excel.
type Client struct {
	drive  *drive.Service
	sheets *sheets.Service
}

// NewClient builds an authenticated client from a service account
// credentials JSON file.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, drive.DriveReadonlyScope, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	httpClient := conf.Client(ctx)

	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	sheetsSvc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{drive: driveSvc, sheets: sheetsSvc}, nil
}

// Fetch downloads one spreadsheet by file ID and returns its first sheet as
// a raw table.
func (c *Client) Fetch(ctx context.Context, fileID string) (*window.Sheet, error) {
	meta, err := c.drive.Files.Get(fileID).Fields("mimeType", "name").Context(ctx).Do()
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: err}
	}

	if meta.MimeType == mimeGoogleSheet {
		return c.fetchNative(ctx, fileID, meta.Name)
	}
	return c.fetchBinary(ctx, fileID, meta.Name)
}

// fetchNative reads the first sheet of a native Google Sheets file via the
// Sheets values API.
func (c *Client) fetchNative(ctx context.Context, fileID, name string) (*window.Sheet, error) {
	ss, err := c.sheets.Spreadsheets.Get(fileID).Fields("sheets(properties(title))").Context(ctx).Do()
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: err}
	}
	if len(ss.Sheets) == 0 {
		return nil, &FetchError{FileID: fileID, Err: fmt.Errorf("spreadsheet has no sheets")}
	}
	title := ss.Sheets[0].Properties.Title

	resp, err := c.sheets.Spreadsheets.Values.Get(fileID, title).Context(ctx).Do()
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: err}
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, cellString(v))
		}
		rows = append(rows, cells)
	}
	return sheetFromRows(name, rows), nil
}

// fetchBinary downloads the file content and parses it as an XLSX workbook.
func (c *Client) fetchBinary(ctx context.Context, fileID, name string) (*window.Sheet, error) {
	resp, err := c.drive.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: err}
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer wb.Close()

	sheetList := wb.GetSheetList()
	if len(sheetList) == 0 {
		return nil, &FetchError{FileID: fileID, Err: fmt.Errorf("workbook has no sheets")}
	}
	rows, err := wb.GetRows(sheetList[0])
	if err != nil {
		return nil, &FetchError{FileID: fileID, Err: fmt.Errorf("failed to read sheet %q: %w", sheetList[0], err)}
	}
	return sheetFromRows(name, rows), nil
}

// sheetFromRows splits a raw grid into header and data rows. An empty grid
// yields a sheet with no columns, which the normalizer reports as a schema
// mismatch.
func sheetFromRows(name string, rows [][]string) *window.Sheet {
	s := &window.Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	s.Columns = rows[0]
	s.Rows = rows[1:]
	return s
}

// cellString renders one Sheets API value as text. The values API returns
// formatted strings for the ranges we read, but numeric cells can come back
// as float64 depending on the sheet formatting.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
