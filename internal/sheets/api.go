// Package sheets persists work entries into a Google spreadsheet whose
// physical layout is not known in advance: column positions are discovered
// from header text and rows are located by fuzzy date matching, so the bot
// can write into a sheet the user already formatted by hand.
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/user/bramify/internal/httpclient"
)

// API is the raw spreadsheet backend: ranges in and out of one spreadsheet,
// addressed in A1 notation. All values travel as strings; the backend
// renders numbers itself because ranges are written USER_ENTERED.
type API interface {
	// ReadRange returns the cell values in the given A1 range, row-major.
	// Trailing empty cells may be omitted by the backend.
	ReadRange(ctx context.Context, a1Range string) ([][]string, error)
	// UpdateRange overwrites the given A1 range with the provided rows.
	UpdateRange(ctx context.Context, a1Range string, values [][]interface{}) error
	// SheetTitles lists the titles of all sheets in the spreadsheet.
	SheetTitles(ctx context.Context) ([]string, error)
	// AddSheet creates a new empty sheet with the given title.
	AddSheet(ctx context.Context, title string) error
	// InsertRow inserts one empty row at the given 1-based position,
	// shifting existing rows down.
	InsertRow(ctx context.Context, sheetTitle string, row int) error
}

// restAPI implements API against the Sheets v4 REST surface.
type restAPI struct {
	spreadsheetID string
	httpClient    *httpclient.Client
}

// New creates an API for the given spreadsheet, authenticated with the
// service account credentials file. HTTP behavior (timeouts, retries) comes
// from the "sheets" entry in configs/api.yaml.
func New(ctx context.Context, spreadsheetID, credentialsFile string) (API, error) {
	configs, err := httpclient.LoadConfig("configs/api.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load API configuration: %w", err)
	}

	clientConfig, err := configs.GetClientConfig("sheets")
	if err != nil {
		return nil, fmt.Errorf("failed to get Sheets client configuration: %w", err)
	}

	client, err := clientConfig.CreateClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	tokenSource, err := serviceAccountTokenSource(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	client.WithMiddleware(authMiddleware(tokenSource))

	return NewWithClient(spreadsheetID, client), nil
}

// NewWithClient creates an API on an existing HTTP client. Used by tests.
func NewWithClient(spreadsheetID string, client *httpclient.Client) API {
	return &restAPI{spreadsheetID: spreadsheetID, httpClient: client}
}

// authMiddleware injects a fresh bearer token from the token source into
// every request.
func authMiddleware(tokenSource oauth2.TokenSource) httpclient.Middleware {
	return func(next httpclient.Handler) httpclient.Handler {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			token, err := tokenSource.Token()
			if err != nil {
				return nil, fmt.Errorf("error fetching access token: %w", err)
			}
			token.SetAuthHeader(req)
			return next(ctx, req)
		}
	}
}

type valueRange struct {
	Range          string          `json:"range,omitempty"`
	MajorDimension string          `json:"majorDimension,omitempty"`
	Values         [][]interface{} `json:"values,omitempty"`
}

func (a *restAPI) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	path := fmt.Sprintf("%s/values/%s", a.spreadsheetID, url.PathEscape(a1Range))

	var result valueRange
	if err := a.httpClient.Get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("error reading range %s: %w", a1Range, err)
	}

	rows := make([][]string, len(result.Values))
	for i, row := range result.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellString(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (a *restAPI) UpdateRange(ctx context.Context, a1Range string, values [][]interface{}) error {
	path := fmt.Sprintf("%s/values/%s?valueInputOption=USER_ENTERED", a.spreadsheetID, url.PathEscape(a1Range))

	body := valueRange{
		Range:          a1Range,
		MajorDimension: "ROWS",
		Values:         values,
	}
	if err := a.httpClient.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("error updating range %s: %w", a1Range, err)
	}
	return nil
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			SheetID int64  `json:"sheetId"`
			Title   string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

func (a *restAPI) readMeta(ctx context.Context) (*spreadsheetMeta, error) {
	path := a.spreadsheetID + "?fields=sheets.properties(sheetId,title)"

	var meta spreadsheetMeta
	if err := a.httpClient.Get(ctx, path, &meta); err != nil {
		return nil, fmt.Errorf("error reading spreadsheet metadata: %w", err)
	}
	return &meta, nil
}

func (a *restAPI) SheetTitles(ctx context.Context) ([]string, error) {
	meta, err := a.readMeta(ctx)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(meta.Sheets))
	for _, sheet := range meta.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}

func (a *restAPI) AddSheet(ctx context.Context, title string) error {
	path := a.spreadsheetID + ":batchUpdate"

	body := map[string]interface{}{
		"requests": []map[string]interface{}{
			{"addSheet": map[string]interface{}{
				"properties": map[string]interface{}{"title": title},
			}},
		},
	}
	if err := a.httpClient.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("error creating sheet %q: %w", title, err)
	}
	return nil
}

func (a *restAPI) InsertRow(ctx context.Context, sheetTitle string, row int) error {
	meta, err := a.readMeta(ctx)
	if err != nil {
		return err
	}

	sheetID := int64(-1)
	for _, sheet := range meta.Sheets {
		if sheet.Properties.Title == sheetTitle {
			sheetID = sheet.Properties.SheetID
			break
		}
	}
	if sheetID == -1 {
		return fmt.Errorf("sheet %q not found", sheetTitle)
	}

	path := a.spreadsheetID + ":batchUpdate"
	body := map[string]interface{}{
		"requests": []map[string]interface{}{
			{"insertDimension": map[string]interface{}{
				"range": map[string]interface{}{
					"sheetId":    sheetID,
					"dimension":  "ROWS",
					"startIndex": row - 1,
					"endIndex":   row,
				},
				"inheritFromBefore": true,
			}},
		},
	}
	if err := a.httpClient.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("error inserting row %d into %q: %w", row, sheetTitle, err)
	}
	return nil
}

// cellString renders one JSON cell value the way it reads in the sheet.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
