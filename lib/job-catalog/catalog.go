package jobcatalog

import (
	"careers-backend/lib/storage"
	"careers-backend/models"
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Openings стартовый набор вакансий
func Openings() []storage.JobData {
	return []storage.JobData{
		{
			Title:       "Video Editor",
			Department:  "content",
			Type:        models.JobTypeFullTime,
			Location:    "Navi Mumbai",
			Experience:  "2+ years",
			Description: "Cut long-form car and bike reviews, first drives and launch coverage for our YouTube channel.",
			Requirements: []string{
				"Strong command of Premiere Pro or DaVinci Resolve",
				"Portfolio of published automotive or lifestyle videos",
				"Colour grading and sound mixing basics",
			},
		},
		{
			Title:       "Videographer",
			Department:  "content",
			Type:        models.JobTypeFullTime,
			Location:    "Navi Mumbai",
			Experience:  "2+ years",
			Description: "Shoot road tests, tracking shots and studio walkarounds across India.",
			Requirements: []string{
				"Experience with cinema cameras and gimbals",
				"Willingness to travel for shoots",
			},
		},
		{
			Title:       "Content Writer",
			Department:  "content",
			Type:        models.JobTypeFullTime,
			Location:    "Navi Mumbai",
			Experience:  "1+ years",
			Description: "Write news, reviews and buying guides for cars and two-wheelers.",
			Requirements: []string{
				"Excellent written English",
				"Genuine interest in the Indian auto market",
			},
		},
		{
			Title:       "Social Media Executive",
			Department:  "content",
			Type:        models.JobTypeFullTime,
			Location:    "Navi Mumbai",
			Experience:  "1-3 years",
			Description: "Own our Instagram, YouTube Shorts and X presence, from planning to community management.",
			Requirements: []string{
				"Hands-on experience growing brand accounts",
				"Comfort with short-form video tools",
			},
		},
		{
			Title:       "Media Sales Manager",
			Department:  "sales",
			Type:        models.JobTypeFullTime,
			Location:    "Mumbai",
			Experience:  "4+ years",
			Description: "Sell branded content and advertising packages to automotive brands and agencies.",
			Requirements: []string{
				"Existing network in automotive marketing",
				"Track record of meeting revenue targets",
			},
		},
		{
			Title:       "Marketing Internship",
			Department:  "marketing",
			Type:        models.JobTypeInternship,
			Location:    "Navi Mumbai",
			Experience:  "Students and fresh graduates",
			Description: "Six-month internship supporting campaigns, events and partnerships.",
			Requirements: []string{
				"Currently enrolled or recently graduated",
				"Available full-time for six months",
			},
		},
		{
			Title:       "Graphic Designer",
			Department:  "design",
			Type:        models.JobTypeFullTime,
			Location:    "Navi Mumbai",
			Experience:  "2+ years",
			Description: "Design thumbnails, social creatives and print layouts.",
			Requirements: []string{
				"Strong Photoshop and Illustrator skills",
			},
		},
	}
}

// Seed записывает стартовые вакансии, если в хранилище вакансий еще нет
func Seed(ctx context.Context, store storage.Provider) (created int, err error) {
	existed, err := store.GetAllJobs(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения списка вакансий")
	}
	if len(existed) != 0 {
		log.WithField("jobs", len(existed)).Info("вакансии уже заполнены")
		return 0, nil
	}
	for _, data := range Openings() {
		rec, err := store.CreateJob(ctx, data)
		if err != nil {
			log.
				WithError(err).
				WithField("title", data.Title).
				Error("ошибка добавления вакансии")
			return created, err
		}
		log.
			WithField("job_id", rec.ID).
			WithField("title", rec.Title).
			Debug("добавлена вакансия")
		created++
	}
	log.WithField("jobs", created).Info("вакансии добавлены")
	return created, nil
}
