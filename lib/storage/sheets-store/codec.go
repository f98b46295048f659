package sheetsstore

import (
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Схемы листов. Колонка A всегда id, первая строка листа - заголовок.
var (
	userColumns = []string{"id", "username", "password_hash", "created_at"}

	adminUserColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "role",
		"is_active", "last_login", "created_at", "updated_at"}

	jobColumns = []string{"id", "title", "department", "type", "location", "experience", "description",
		"requirements", "active", "created_at", "updated_at"}

	applicationColumns = []string{"id", "job_id", "first_name", "last_name", "email", "phone", "can_travel",
		"current_salary", "expected_salary", "motivation", "cv_file_ref", "cv_file_name",
		"job_specific_answers", "status", "notes", "created_at", "updated_at"}
)

const timeLayout = time.RFC3339Nano

func columnName(n int) (string, error) {
	return excelize.ColumnNumberToName(n)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// cellReader читает ячейки строки, накапливая первую ошибку разбора.
// Строки, отредактированные вручную, бывают короче схемы - недостающие ячейки пустые.
type cellReader struct {
	values []string
	err    error
}

func (r *cellReader) str(idx int) string {
	if idx < len(r.values) {
		return r.values[idx]
	}
	return ""
}

func (r *cellReader) time(idx int) time.Time {
	value := strings.TrimSpace(r.str(idx))
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		r.fail(errors.Wrapf(err, "column %d", idx+1))
		return time.Time{}
	}
	return t
}

func (r *cellReader) bool(idx int) bool {
	value := strings.TrimSpace(r.str(idx))
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		r.fail(errors.Wrapf(err, "column %d", idx+1))
		return false
	}
	return b
}

func (r *cellReader) json(idx int, out interface{}) {
	value := strings.TrimSpace(r.str(idx))
	if value == "" {
		return
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		r.fail(errors.Wrapf(err, "column %d", idx+1))
	}
}

func (r *cellReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func encodeUser(rec dbmodels.User) []string {
	return []string{rec.ID, rec.Username, rec.PasswordHash, formatTime(rec.CreatedAt)}
}

func decodeUser(values []string) (dbmodels.User, error) {
	r := cellReader{values: values}
	rec := dbmodels.User{
		ID:           r.str(0),
		Username:     r.str(1),
		PasswordHash: r.str(2),
		CreatedAt:    r.time(3),
	}
	return rec, r.err
}

func encodeAdminUser(rec dbmodels.AdminPanelUser) []string {
	return []string{
		rec.ID,
		rec.Email,
		rec.PasswordHash,
		rec.FirstName,
		rec.LastName,
		string(rec.Role),
		strconv.FormatBool(rec.IsActive),
		formatTime(rec.LastLogin),
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	}
}

func decodeAdminUser(values []string) (dbmodels.AdminPanelUser, error) {
	r := cellReader{values: values}
	rec := dbmodels.AdminPanelUser{
		Email:        r.str(1),
		PasswordHash: r.str(2),
		FirstName:    r.str(3),
		LastName:     r.str(4),
		Role:         models.UserRole(r.str(5)),
		IsActive:     r.bool(6),
		LastLogin:    r.time(7),
	}
	rec.ID = r.str(0)
	rec.CreatedAt = r.time(8)
	rec.UpdatedAt = r.time(9)
	return rec, r.err
}

func encodeJob(rec dbmodels.Job) []string {
	requirements := ""
	if len(rec.Requirements) != 0 {
		requirements = mustJSON(rec.Requirements)
	}
	return []string{
		rec.ID,
		rec.Title,
		rec.Department,
		string(rec.Type),
		rec.Location,
		rec.Experience,
		rec.Description,
		requirements,
		strconv.FormatBool(rec.Active),
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	}
}

func decodeJob(values []string) (dbmodels.Job, error) {
	r := cellReader{values: values}
	rec := dbmodels.Job{
		Title:       r.str(1),
		Department:  r.str(2),
		Type:        models.JobType(r.str(3)),
		Location:    r.str(4),
		Experience:  r.str(5),
		Description: r.str(6),
		Active:      r.bool(8),
	}
	r.json(7, &rec.Requirements)
	rec.ID = r.str(0)
	rec.CreatedAt = r.time(9)
	rec.UpdatedAt = r.time(10)
	return rec, r.err
}

func encodeApplication(rec dbmodels.Application) []string {
	answers := ""
	if len(rec.JobSpecificAnswers) != 0 {
		answers = mustJSON(rec.JobSpecificAnswers)
	}
	return []string{
		rec.ID,
		rec.JobID,
		rec.FirstName,
		rec.LastName,
		rec.Email,
		rec.Phone,
		string(rec.CanTravel),
		rec.CurrentSalary,
		rec.ExpectedSalary,
		rec.Motivation,
		rec.CVFileRef,
		rec.CVFileName,
		answers,
		string(rec.Status),
		rec.Notes,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	}
}

func decodeApplication(values []string) (dbmodels.Application, error) {
	r := cellReader{values: values}
	rec := dbmodels.Application{
		JobID:          r.str(1),
		FirstName:      r.str(2),
		LastName:       r.str(3),
		Email:          r.str(4),
		Phone:          r.str(5),
		CanTravel:      models.TravelAnswer(r.str(6)),
		CurrentSalary:  r.str(7),
		ExpectedSalary: r.str(8),
		Motivation:     r.str(9),
		CVFileRef:      r.str(10),
		CVFileName:     r.str(11),
		Status:         models.ApplicationStatus(r.str(13)),
		Notes:          r.str(14),
	}
	r.json(12, &rec.JobSpecificAnswers)
	rec.ID = r.str(0)
	rec.CreatedAt = r.time(15)
	rec.UpdatedAt = r.time(16)
	return rec, r.err
}
