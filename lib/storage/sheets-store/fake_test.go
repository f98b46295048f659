package sheetsstore

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// fakeAPI таблица в памяти с поведением Values API: хвостовые пустые ячейки и строки не возвращаются
type fakeAPI struct {
	mu       sync.Mutex
	tabs     map[string][][]string
	failures map[string][]error
	// ошибка после фактически выполненной операции (ответ потерян по дороге)
	lostResponse map[string]error
	calls        map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tabs:         map[string][][]string{},
		failures:     map[string][]error{},
		lostResponse: map[string]error{},
		calls:        map[string]int{},
	}
}

func (f *fakeAPI) fail(op string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], errs...)
}

func (f *fakeAPI) loseResponse(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lostResponse[op] = err
}

func (f *fakeAPI) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) rows(tab string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([][]string, 0, len(f.tabs[tab]))
	for _, r := range f.tabs[tab] {
		result = append(result, append([]string(nil), r...))
	}
	return result
}

func (f *fakeAPI) setRows(tab string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tabs[tab] = rows
}

// before учитывает вызов и возвращает очередную внедренную ошибку
func (f *fakeAPI) before(op string) error {
	f.calls[op]++
	if queue := f.failures[op]; len(queue) > 0 {
		f.failures[op] = queue[1:]
		return queue[0]
	}
	return nil
}

func (f *fakeAPI) after(op string) error {
	if err, ok := f.lostResponse[op]; ok {
		delete(f.lostResponse, op)
		return err
	}
	return nil
}

func (f *fakeAPI) EnsureTab(ctx context.Context, tab string, header []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("ensure"); err != nil {
		return err
	}
	if len(f.tabs[tab]) == 0 {
		f.tabs[tab] = [][]string{append([]string(nil), header...)}
	}
	return nil
}

var rangeRe = regexp.MustCompile(`^'(.+)'!([A-Z]*)(\d+):([A-Z]*)(\d*)$`)

func parseRange(r string) (tab string, startRow int, onlyFirstCol bool, err error) {
	m := rangeRe.FindStringSubmatch(r)
	if m == nil {
		return "", 0, false, errors.Errorf("bad range %q", r)
	}
	startRow, _ = strconv.Atoi(m[3])
	return strings.ReplaceAll(m[1], "''", "'"), startRow, m[4] == "A", nil
}

func (f *fakeAPI) Get(ctx context.Context, readRange string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("get"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tab, startRow, onlyFirstCol, err := parseRange(readRange)
	if err != nil {
		return nil, err
	}
	rows := f.tabs[tab]
	result := [][]string{}
	for idx := startRow - 1; idx < len(rows); idx++ {
		r := rows[idx]
		if onlyFirstCol && len(r) > 1 {
			r = r[:1]
		}
		result = append(result, trimRight(r))
	}
	for len(result) > 0 && len(result[len(result)-1]) == 0 {
		result = result[:len(result)-1]
	}
	return result, f.after("get")
}

func (f *fakeAPI) Append(ctx context.Context, tab string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("append"); err != nil {
		return err
	}
	f.tabs[tab] = append(f.tabs[tab], append([]string(nil), row...))
	return f.after("append")
}

func (f *fakeAPI) Update(ctx context.Context, writeRange string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("update"); err != nil {
		return err
	}
	tab, rowNum, _, err := parseRange(writeRange)
	if err != nil {
		return err
	}
	for len(f.tabs[tab]) < rowNum {
		f.tabs[tab] = append(f.tabs[tab], []string{})
	}
	f.tabs[tab][rowNum-1] = append([]string(nil), row...)
	return f.after("update")
}

func (f *fakeAPI) DeleteRow(ctx context.Context, tab string, rowNum int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("delete"); err != nil {
		return err
	}
	rows := f.tabs[tab]
	if int(rowNum) > len(rows) || rowNum < 1 {
		return errors.Errorf("row %d out of range", rowNum)
	}
	f.tabs[tab] = append(rows[:rowNum-1], rows[rowNum:]...)
	return f.after("delete")
}

func trimRight(r []string) []string {
	end := len(r)
	for end > 0 && r[end-1] == "" {
		end--
	}
	return append([]string(nil), r[:end]...)
}
