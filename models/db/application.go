package dbmodels

import (
	"careers-backend/models"
	"strings"
)

type Application struct {
	BaseModel
	JobID              string              `gorm:"type:varchar(36);index"`
	FirstName          string              `gorm:"type:varchar(255)"`
	LastName           string              `gorm:"type:varchar(255)"`
	Email              string              `gorm:"type:varchar(255)"`
	Phone              string              `gorm:"type:varchar(50)"`
	CanTravel          models.TravelAnswer `gorm:"type:varchar(10)"`
	CurrentSalary      string              `gorm:"type:varchar(100)"`
	ExpectedSalary     string              `gorm:"type:varchar(100)"`
	Motivation         string
	CVFileRef          string                   `gorm:"type:varchar(512)"` // ключ объекта в S3
	CVFileName         string                   `gorm:"type:varchar(255)"`
	JobSpecificAnswers map[string]string        `gorm:"serializer:json"`
	Status             models.ApplicationStatus `gorm:"type:varchar(50);index"`
	Notes              string
}

func (a Application) GetFIO() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// ApplicationWithJob заявка вместе с вакансией, для выгрузок
type ApplicationWithJob struct {
	Application
	Job *Job
}
