package dbmodels

import (
	"careers-backend/models"
	"strings"
)

type Job struct {
	BaseModel
	Title        string         `gorm:"type:varchar(255)"`
	Department   string         `gorm:"type:varchar(100);index"`
	Type         models.JobType `gorm:"type:varchar(50)"`
	Location     string         `gorm:"type:varchar(255)"`
	Experience   string         `gorm:"type:varchar(100)"`
	Description  string
	Requirements []string `gorm:"serializer:json"`
	Active       bool     `gorm:"index"`
}

// MatchKeyword регистронезависимый поиск подстроки по названию, отделу и описанию
func (j Job) MatchKeyword(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Title), keyword) ||
		strings.Contains(strings.ToLower(j.Department), keyword) ||
		strings.Contains(strings.ToLower(j.Description), keyword)
}
