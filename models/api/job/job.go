package jobapimodels

import (
	"careers-backend/lib/storage"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type JobData struct {
	Title        string         `json:"title"`
	Department   string         `json:"department"`
	Type         models.JobType `json:"type"`
	Location     string         `json:"location"`
	Experience   string         `json:"experience"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Active       *bool          `json:"active,omitempty"`
}

func (j JobData) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("job title is required")
	}
	if strings.TrimSpace(j.Department) == "" {
		return errors.New("department is required")
	}
	return j.Type.Validate()
}

func (j JobData) ToStorage() storage.JobData {
	return storage.JobData{
		Title:        strings.TrimSpace(j.Title),
		Department:   strings.TrimSpace(j.Department),
		Type:         j.Type,
		Location:     j.Location,
		Experience:   j.Experience,
		Description:  j.Description,
		Requirements: j.Requirements,
		Active:       j.Active,
	}
}

type JobUpdate struct {
	Title        *string         `json:"title"`
	Department   *string         `json:"department"`
	Type         *models.JobType `json:"type"`
	Location     *string         `json:"location"`
	Experience   *string         `json:"experience"`
	Description  *string         `json:"description"`
	Requirements *[]string       `json:"requirements"`
	Active       *bool           `json:"active"`
}

func (u JobUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return errors.New("job title must not be empty")
	}
	if u.Department != nil && strings.TrimSpace(*u.Department) == "" {
		return errors.New("department must not be empty")
	}
	if u.Type != nil {
		return u.Type.Validate()
	}
	return nil
}

func (u JobUpdate) ToStorage() storage.JobUpdate {
	return storage.JobUpdate{
		Title:        u.Title,
		Department:   u.Department,
		Type:         u.Type,
		Location:     u.Location,
		Experience:   u.Experience,
		Description:  u.Description,
		Requirements: u.Requirements,
		Active:       u.Active,
	}
}

type JobView struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Department   string         `json:"department"`
	Type         models.JobType `json:"type"`
	Location     string         `json:"location,omitempty"`
	Experience   string         `json:"experience,omitempty"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func JobConvert(rec dbmodels.Job) JobView {
	requirements := rec.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return JobView{
		ID:           rec.ID,
		Title:        rec.Title,
		Department:   rec.Department,
		Type:         rec.Type,
		Location:     rec.Location,
		Experience:   rec.Experience,
		Description:  rec.Description,
		Requirements: requirements,
		Active:       rec.Active,
		CreatedAt:    rec.CreatedAt,
	}
}

// JobAdminView вакансия для админки, с количеством откликов
type JobAdminView struct {
	JobView
	ApplicationsCount int `json:"applications_count"`
}

type ListFilter struct {
	Search     string `json:"search"`
	ActiveOnly bool   `json:"active_only"`
}
