package sheetsstore

import (
	"careers-backend/lib/storage"
	"careers-backend/lib/utils/retry"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Tabs struct {
	Users        string
	AdminUsers   string
	Jobs         string
	Applications string
}

type Config struct {
	Tabs              Tabs
	Timeout           time.Duration // таймаут одного вызова API
	Retry             retry.Policy
	RequestsPerSecond float64
}

// table лист таблицы с фиксированным набором колонок
type table struct {
	name    string
	columns []string
}

// row строка листа; num - номер строки в таблице (1-based, с учетом заголовка)
type row struct {
	num    int64
	values []string
}

func (r row) id() string {
	if len(r.values) == 0 {
		return ""
	}
	return strings.TrimSpace(r.values[0])
}

// NewInstance хранилище поверх Google Sheets. Поиск строки по id - линейный проход по колонке A
// при каждом обращении: таблицу правят руками, поэтому кэш номеров строк не ведется.
// Изменения одного листа сериализуются мьютексом, чтобы найденный номер строки не уехал до записи.
func NewInstance(ctx context.Context, api API, cfg Config) (storage.Provider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	i := &impl{
		api:          api,
		cfg:          cfg,
		limiter:      rate.NewLimiter(limit, 1),
		users:        table{name: cfg.Tabs.Users, columns: userColumns},
		adminUsers:   table{name: cfg.Tabs.AdminUsers, columns: adminUserColumns},
		jobs:         table{name: cfg.Tabs.Jobs, columns: jobColumns},
		applications: table{name: cfg.Tabs.Applications, columns: applicationColumns},
		locks:        map[string]*sync.Mutex{},
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, t := range []table{i.users, i.adminUsers, i.jobs, i.applications} {
		if t.name == "" {
			return nil, errors.New("sheets store: tab name is empty")
		}
		i.locks[t.name] = &sync.Mutex{}
		t := t
		err := i.call(ctx, true, func(ctx context.Context) error {
			return i.api.EnsureTab(ctx, t.name, t.columns)
		})
		if err != nil {
			return nil, storage.Unavailable("ensure tab "+t.name, err)
		}
	}
	return i, nil
}

type impl struct {
	api          API
	cfg          Config
	limiter      *rate.Limiter
	users        table
	adminUsers   table
	jobs         table
	applications table
	locks        map[string]*sync.Mutex
	now          func() time.Time
	newID        func() string
}

func (i *impl) Ping(ctx context.Context) error {
	_, err := i.readIDs(ctx, i.jobs)
	return err
}

func (i *impl) GetUser(ctx context.Context, id string) (*dbmodels.User, error) {
	r, err := i.findRow(ctx, i.users, id)
	if err != nil || r == nil {
		return nil, err
	}
	rec := i.decodeUserRow(*r)
	return &rec, nil
}

func (i *impl) GetUserByUsername(ctx context.Context, username string) (*dbmodels.User, error) {
	list, err := i.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		if strings.EqualFold(rec.Username, username) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i *impl) CreateUser(ctx context.Context, rec dbmodels.User) (*dbmodels.User, error) {
	if rec.Username == "" {
		return nil, errors.New("username is required")
	}
	unlock := i.lock(i.users)
	defer unlock()
	list, err := i.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, existed := range list {
		if strings.EqualFold(existed.Username, rec.Username) {
			return nil, errors.Wrapf(storage.ErrDuplicate, "username %q", rec.Username)
		}
	}
	ids := make([]string, 0, len(list))
	for _, existed := range list {
		ids = append(ids, existed.ID)
	}
	rec.ID = i.uniqueID(ids)
	rec.CreatedAt = i.now()
	if err = i.appendRow(ctx, i.users, rec.ID, encodeUser(rec)); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i *impl) GetAdminUser(ctx context.Context, id string) (*dbmodels.AdminPanelUser, error) {
	r, err := i.findRow(ctx, i.adminUsers, id)
	if err != nil || r == nil {
		return nil, err
	}
	rec := i.decodeAdminUserRow(*r)
	return &rec, nil
}

func (i *impl) GetAdminUserByEmail(ctx context.Context, email string) (*dbmodels.AdminPanelUser, error) {
	list, err := i.ListAdminUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		if strings.EqualFold(rec.Email, email) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i *impl) CreateAdminUser(ctx context.Context, rec dbmodels.AdminPanelUser) (*dbmodels.AdminPanelUser, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	unlock := i.lock(i.adminUsers)
	defer unlock()
	list, err := i.ListAdminUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, existed := range list {
		if strings.EqualFold(existed.Email, rec.Email) {
			return nil, errors.Wrapf(storage.ErrDuplicate, "email %q", rec.Email)
		}
	}
	ids := make([]string, 0, len(list))
	for _, existed := range list {
		ids = append(ids, existed.ID)
	}
	rec.ID = i.uniqueID(ids)
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	if err = i.appendRow(ctx, i.adminUsers, rec.ID, encodeAdminUser(rec)); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i *impl) UpdateAdminUser(ctx context.Context, id string, upd storage.AdminUserUpdate) (*dbmodels.AdminPanelUser, error) {
	unlock := i.lock(i.adminUsers)
	defer unlock()
	list, err := i.ListAdminUsers(ctx)
	if err != nil {
		return nil, err
	}
	var rec *dbmodels.AdminPanelUser
	for idx := range list {
		if list[idx].ID == id {
			rec = &list[idx]
			continue
		}
		if upd.Email != nil && strings.EqualFold(list[idx].Email, *upd.Email) {
			return nil, errors.Wrapf(storage.ErrDuplicate, "email %q", *upd.Email)
		}
	}
	if rec == nil {
		return nil, nil
	}
	upd.Apply(rec)
	rec.UpdatedAt = i.now()
	found, err := i.updateRow(ctx, i.adminUsers, id, encodeAdminUser(*rec))
	if err != nil || !found {
		return nil, err
	}
	return rec, nil
}

func (i *impl) DeleteAdminUser(ctx context.Context, id string) (bool, error) {
	unlock := i.lock(i.adminUsers)
	defer unlock()
	return i.deleteRow(ctx, i.adminUsers, id)
}

func (i *impl) ListAdminUsers(ctx context.Context) ([]dbmodels.AdminPanelUser, error) {
	rows, err := i.readRows(ctx, i.adminUsers)
	if err != nil {
		return nil, err
	}
	result := make([]dbmodels.AdminPanelUser, 0, len(rows))
	for _, r := range rows {
		result = append(result, i.decodeAdminUserRow(r))
	}
	return result, nil
}

func (i *impl) GetAllJobs(ctx context.Context) ([]dbmodels.Job, error) {
	return i.listJobs(ctx, func(dbmodels.Job) bool { return true })
}

func (i *impl) GetActiveJobs(ctx context.Context) ([]dbmodels.Job, error) {
	return i.listJobs(ctx, func(rec dbmodels.Job) bool { return rec.Active })
}

func (i *impl) GetJob(ctx context.Context, id string) (*dbmodels.Job, error) {
	r, err := i.findRow(ctx, i.jobs, id)
	if err != nil || r == nil {
		return nil, err
	}
	rec := i.decodeJobRow(*r)
	return &rec, nil
}

func (i *impl) CreateJob(ctx context.Context, data storage.JobData) (*dbmodels.Job, error) {
	rec := data.ToRecord()
	unlock := i.lock(i.jobs)
	defer unlock()
	ids, err := i.readIDs(ctx, i.jobs)
	if err != nil {
		return nil, err
	}
	rec.ID = i.uniqueID(ids)
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	if err = i.appendRow(ctx, i.jobs, rec.ID, encodeJob(rec)); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i *impl) UpdateJob(ctx context.Context, id string, upd storage.JobUpdate) (*dbmodels.Job, error) {
	unlock := i.lock(i.jobs)
	defer unlock()
	r, err := i.findRow(ctx, i.jobs, id)
	if err != nil || r == nil {
		return nil, err
	}
	rec := i.decodeJobRow(*r)
	upd.Apply(&rec)
	rec.UpdatedAt = i.now()
	found, err := i.updateRow(ctx, i.jobs, id, encodeJob(rec))
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (i *impl) DeleteJob(ctx context.Context, id string) (bool, error) {
	unlock := i.lock(i.jobs)
	defer unlock()
	return i.deleteRow(ctx, i.jobs, id)
}

func (i *impl) SearchJobs(ctx context.Context, keyword string) ([]dbmodels.Job, error) {
	return i.listJobs(ctx, func(rec dbmodels.Job) bool { return rec.MatchKeyword(keyword) })
}

func (i *impl) GetApplicationsForJob(ctx context.Context, jobID string) ([]dbmodels.Application, error) {
	return i.listApplications(ctx, func(rec dbmodels.Application) bool { return rec.JobID == jobID })
}

func (i *impl) GetAllApplications(ctx context.Context) ([]dbmodels.Application, error) {
	return i.listApplications(ctx, func(dbmodels.Application) bool { return true })
}

func (i *impl) GetApplication(ctx context.Context, id string) (*dbmodels.Application, error) {
	r, err := i.findRow(ctx, i.applications, id)
	if err != nil || r == nil {
		return nil, err
	}
	rec := i.decodeApplicationRow(*r)
	return &rec, nil
}

func (i *impl) CreateApplication(ctx context.Context, rec dbmodels.Application) (*dbmodels.Application, error) {
	job, err := i.findRow(ctx, i.jobs, rec.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.Wrapf(storage.ErrUnknownJob, "job_id %q", rec.JobID)
	}
	unlock := i.lock(i.applications)
	defer unlock()
	ids, err := i.readIDs(ctx, i.applications)
	if err != nil {
		return nil, err
	}
	rec.ID = i.uniqueID(ids)
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	rec.Status = models.ApplicationStatusPending
	if err = i.appendRow(ctx, i.applications, rec.ID, encodeApplication(rec)); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i *impl) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes *string) (*dbmodels.Application, error) {
	if err := status.Validate(); err != nil {
		return nil, errors.Wrap(storage.ErrInvalidStatus, err.Error())
	}
	unlock := i.lock(i.applications)
	defer unlock()
	r, err := i.findRow(ctx, i.applications, id)
	if err != nil || r == nil {
		return nil, err
	}
	rec := i.decodeApplicationRow(*r)
	rec.Status = status
	if notes != nil {
		rec.Notes = *notes
	}
	rec.UpdatedAt = i.now()
	found, err := i.updateRow(ctx, i.applications, id, encodeApplication(rec))
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (i *impl) listUsers(ctx context.Context) ([]dbmodels.User, error) {
	rows, err := i.readRows(ctx, i.users)
	if err != nil {
		return nil, err
	}
	result := make([]dbmodels.User, 0, len(rows))
	for _, r := range rows {
		result = append(result, i.decodeUserRow(r))
	}
	return result, nil
}

func (i *impl) listJobs(ctx context.Context, match func(dbmodels.Job) bool) ([]dbmodels.Job, error) {
	rows, err := i.readRows(ctx, i.jobs)
	if err != nil {
		return nil, err
	}
	result := make([]dbmodels.Job, 0, len(rows))
	for _, r := range rows {
		rec := i.decodeJobRow(r)
		if match(rec) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (i *impl) listApplications(ctx context.Context, match func(dbmodels.Application) bool) ([]dbmodels.Application, error) {
	rows, err := i.readRows(ctx, i.applications)
	if err != nil {
		return nil, err
	}
	result := make([]dbmodels.Application, 0, len(rows))
	for _, r := range rows {
		rec := i.decodeApplicationRow(r)
		if match(rec) {
			result = append(result, rec)
		}
	}
	return result, nil
}

// readRows все строки данных листа, пустые строки (без id) пропускаются
func (i *impl) readRows(ctx context.Context, t table) ([]row, error) {
	lastCol, err := columnName(len(t.columns))
	if err != nil {
		return nil, err
	}
	readRange := fmt.Sprintf("%s!A2:%s", quoteTab(t.name), lastCol)
	return i.read(ctx, t, readRange)
}

// readIDs только колонка id - дешевле, чем читать лист целиком
func (i *impl) readIDs(ctx context.Context, t table) ([]string, error) {
	rows, err := i.read(ctx, t, quoteTab(t.name)+"!A2:A")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.id())
	}
	return ids, nil
}

func (i *impl) read(ctx context.Context, t table, readRange string) ([]row, error) {
	var values [][]string
	err := i.call(ctx, true, func(ctx context.Context) (err error) {
		values, err = i.api.Get(ctx, readRange)
		return err
	})
	if err != nil {
		return nil, storage.Unavailable("read "+t.name, err)
	}
	result := make([]row, 0, len(values))
	for idx, v := range values {
		r := row{num: int64(idx) + 2, values: v}
		if r.id() == "" {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (i *impl) findRow(ctx context.Context, t table, id string) (*row, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	rows, err := i.readRows(ctx, t)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.id() == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (i *impl) findRowNum(ctx context.Context, t table, id string) (int64, error) {
	rows, err := i.read(ctx, t, quoteTab(t.name)+"!A2:A")
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if r.id() == id {
			return r.num, nil
		}
	}
	return 0, nil
}

// appendRow добавление строки не повторяется вслепую: при сбое выполняется сверочное чтение
// колонки id, и если строка все-таки записалась - вставка считается успешной
func (i *impl) appendRow(ctx context.Context, t table, id string, values []string) error {
	logger := log.
		WithField("tab", t.name).
		WithField("id", id)
	err := i.call(ctx, false, func(ctx context.Context) error {
		return i.api.Append(ctx, t.name, values)
	})
	if err == nil {
		return nil
	}
	num, findErr := i.findRowNum(ctx, t, id)
	if findErr != nil {
		logger.
			WithError(err).
			WithField("reconcile_error", findErr.Error()).
			Error("не удалось проверить результат добавления строки, состояние неизвестно")
		return storage.Unconfirmed("append "+t.name, err)
	}
	if num > 0 {
		logger.
			WithError(err).
			WithField("row", num).
			Warn("ошибка при добавлении строки, но строка найдена при сверке")
		return nil
	}
	return storage.Unavailable("append "+t.name, err)
}

// updateRow перезаписывает строку с указанным id. Номер строки ищется заново на каждой попытке.
func (i *impl) updateRow(ctx context.Context, t table, id string, values []string) (found bool, err error) {
	lastCol, err := columnName(len(t.columns))
	if err != nil {
		return false, err
	}
	err = i.call(ctx, true, func(ctx context.Context) error {
		num, err := i.rowNum(ctx, t, id)
		if err != nil {
			return err
		}
		found = num > 0
		if !found {
			return nil
		}
		writeRange := fmt.Sprintf("%s!A%d:%s%d", quoteTab(t.name), num, lastCol, num)
		return i.api.Update(ctx, writeRange, values)
	})
	if err != nil {
		return false, storage.Unavailable("update "+t.name, err)
	}
	return found, nil
}

// deleteRow удаляет строку с указанным id. Удаление по номеру строки не идемпотентно,
// поэтому перед каждой попыткой строка ищется заново: если после сбоя ее уже нет - удаление состоялось.
func (i *impl) deleteRow(ctx context.Context, t table, id string) (deleted bool, err error) {
	// issued: запрос на удаление уже отправлялся, строка могла исчезнуть из-за него
	issued := false
	err = i.call(ctx, true, func(ctx context.Context) error {
		num, err := i.rowNum(ctx, t, id)
		if err != nil {
			return err
		}
		if num == 0 {
			deleted = issued
			return nil
		}
		issued = true
		if err = i.api.DeleteRow(ctx, t.name, num); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, storage.Unavailable("delete "+t.name, err)
	}
	return deleted, nil
}

// rowNum номер строки с id, 0 если строки нет. Без повторов - вызывается внутри call.
func (i *impl) rowNum(ctx context.Context, t table, id string) (int64, error) {
	values, err := i.api.Get(ctx, quoteTab(t.name)+"!A2:A")
	if err != nil {
		return 0, err
	}
	for idx, v := range values {
		if len(v) > 0 && strings.TrimSpace(v[0]) == id {
			return int64(idx) + 2, nil
		}
	}
	return 0, nil
}

// call выполняет обращение к API с ограничением частоты и таймаутом на каждую попытку.
// retryable=false - ровно одна попытка.
func (i *impl) call(ctx context.Context, retryable bool, fn func(ctx context.Context) error) error {
	policy := i.cfg.Retry
	if !retryable {
		policy.Attempts = 1
	}
	return retry.Do(ctx, policy, isTransient, func(ctx context.Context) error {
		if err := i.limiter.Wait(ctx); err != nil {
			return err
		}
		callCtx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
		return fn(callCtx)
	})
}

func (i *impl) lock(t table) (unlock func()) {
	mu := i.locks[t.name]
	mu.Lock()
	return mu.Unlock
}

// uniqueID новый uuid, которого нет среди существующих id листа
func (i *impl) uniqueID(existed []string) string {
	taken := make(map[string]struct{}, len(existed))
	for _, id := range existed {
		taken[id] = struct{}{}
	}
	for {
		id := i.newID()
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

func (i *impl) decodeUserRow(r row) dbmodels.User {
	rec, err := decodeUser(r.values)
	i.logDecodeErr(i.users, r, err)
	return rec
}

func (i *impl) decodeAdminUserRow(r row) dbmodels.AdminPanelUser {
	rec, err := decodeAdminUser(r.values)
	i.logDecodeErr(i.adminUsers, r, err)
	return rec
}

func (i *impl) decodeJobRow(r row) dbmodels.Job {
	rec, err := decodeJob(r.values)
	i.logDecodeErr(i.jobs, r, err)
	return rec
}

func (i *impl) decodeApplicationRow(r row) dbmodels.Application {
	rec, err := decodeApplication(r.values)
	i.logDecodeErr(i.applications, r, err)
	return rec
}

func (i *impl) logDecodeErr(t table, r row, err error) {
	if err == nil {
		return
	}
	log.
		WithField("tab", t.name).
		WithField("row", r.num).
		WithError(err).
		Warn("строка таблицы содержит некорректные значения, поля заполнены частично")
}
