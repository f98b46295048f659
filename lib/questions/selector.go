package questions

import (
	"careers-backend/lib/utils/helpers"
	dbmodels "careers-backend/models/db"
	"strings"
)

const (
	SetVideo        = "video"
	SetContentWrite = "content_writer"
	SetSocialMedia  = "social_media"
	SetMediaSales   = "media_sales"
	SetInternship   = "internship"
	SetGeneric      = "generic"
	setDepartment   = "department:"
)

// Selection результат подбора: имя сработавшего правила и вопросы в фиксированном порядке
type Selection struct {
	Rule      string     `json:"rule"`
	Questions []Question `json:"questions"`
}

// rule пара (условие, набор вопросов). Правила проверяются строго по порядку, срабатывает первое.
type rule struct {
	name  string
	match func(job dbmodels.Job) bool
	set   []Question
}

var rules = []rule{
	{name: SetVideo, match: titleHasAny("videographer", "video editor", "editor"), set: videoQuestions},
	{name: SetContentWrite, match: titleHasAny("content writer", "writer"), set: contentWriterQuestions},
	{name: SetSocialMedia, match: titleHasAny("social media"), set: socialMediaQuestions},
	{name: SetMediaSales, match: titleHasAny("media sales", "ad sales", "advertising sales"), set: mediaSalesQuestions},
	{name: SetInternship, match: isInternship, set: internshipQuestions},
}

// Select подбирает вопросы второго шага для вакансии:
// ключевые слова роли в названии, затем стажировка, затем таблица отделов, затем общие вопросы.
func Select(job dbmodels.Job) Selection {
	for _, r := range rules {
		if r.match(job) {
			return Selection{Rule: r.name, Questions: clone(r.set)}
		}
	}
	department := helpers.NormalizeKey(job.Department)
	if set, ok := departmentQuestions[department]; ok {
		return Selection{Rule: setDepartment + department, Questions: clone(set)}
	}
	return Selection{Rule: SetGeneric, Questions: clone(genericQuestions)}
}

// For только вопросы, без имени правила
func For(job dbmodels.Job) []Question {
	return Select(job).Questions
}

func titleHasAny(keywords ...string) func(job dbmodels.Job) bool {
	return func(job dbmodels.Job) bool {
		title := helpers.NormalizeKey(job.Title)
		for _, keyword := range keywords {
			if strings.Contains(title, keyword) {
				return true
			}
		}
		return false
	}
}

func isInternship(job dbmodels.Job) bool {
	return job.Type.IsInternship() || strings.Contains(helpers.NormalizeKey(job.Title), "intern")
}
