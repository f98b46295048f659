package sheetsstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/api/sheets/v4"
)

// API узкая прослойка над Google Sheets, ровно те вызовы, что нужны хранилищу.
// Номера строк 1-based, как в интерфейсе таблицы.
type API interface {
	EnsureTab(ctx context.Context, tab string, header []string) error
	Get(ctx context.Context, readRange string) ([][]string, error)
	Append(ctx context.Context, tab string, row []string) error
	Update(ctx context.Context, writeRange string, row []string) error
	DeleteRow(ctx context.Context, tab string, rowNum int64) error
}

func NewGoogleAPI(srv *sheets.Service, spreadsheetID string) API {
	return &googleAPI{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetIDs:      map[string]int64{},
	}
}

type googleAPI struct {
	srv           *sheets.Service
	spreadsheetID string
	mu            sync.Mutex
	sheetIDs      map[string]int64
}

func (g *googleAPI) EnsureTab(ctx context.Context, tab string, header []string) error {
	if _, err := g.sheetID(ctx, tab); err != nil {
		if !errors.Is(err, errTabNotFound) {
			return err
		}
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab}}},
			},
		}
		if _, err = g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return errors.Wrapf(err, "add tab %q", tab)
		}
		g.resetSheetIDs()
	}
	current, err := g.Get(ctx, quoteTab(tab)+"!1:1")
	if err != nil {
		return err
	}
	if len(current) > 0 && len(current[0]) > 0 {
		return nil
	}
	lastCol, err := columnName(len(header))
	if err != nil {
		return err
	}
	return g.Update(ctx, fmt.Sprintf("%s!A1:%s1", quoteTab(tab), lastCol), header)
}

func (g *googleAPI) Get(ctx context.Context, readRange string) ([][]string, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	result := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		values := make([]string, len(row))
		for idx, cell := range row {
			values[idx] = fmt.Sprint(cell)
		}
		result = append(result, values)
	}
	return result, nil
}

func (g *googleAPI) Append(ctx context.Context, tab string, row []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err := g.srv.Spreadsheets.Values.Append(g.spreadsheetID, quoteTab(tab)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (g *googleAPI) Update(ctx context.Context, writeRange string, row []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err := g.srv.Spreadsheets.Values.Update(g.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (g *googleAPI) DeleteRow(ctx context.Context, tab string, rowNum int64) error {
	sheetID, err := g.sheetID(ctx, tab)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:         sheetID,
						Dimension:       "ROWS",
						StartIndex:      rowNum - 1,
						EndIndex:        rowNum,
						ForceSendFields: []string{"SheetId", "StartIndex"},
					},
				},
			},
		},
	}
	_, err = g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

var errTabNotFound = errors.New("tab not found")

func (g *googleAPI) sheetID(ctx context.Context, tab string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id, ok := g.sheetIDs[tab]; ok {
		return id, nil
	}
	resp, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			g.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	if id, ok := g.sheetIDs[tab]; ok {
		return id, nil
	}
	return 0, errors.Wrapf(errTabNotFound, "%q", tab)
}

func (g *googleAPI) resetSheetIDs() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sheetIDs = map[string]int64{}
}

func toInterfaces(row []string) []interface{} {
	result := make([]interface{}, len(row))
	for idx, v := range row {
		result[idx] = v
	}
	return result
}

func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
