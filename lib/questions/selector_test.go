package questions

import (
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"testing"

	"github.com/stretchr/testify/require"
)

func job(title, department string, jobType models.JobType) dbmodels.Job {
	return dbmodels.Job{Title: title, Department: department, Type: jobType}
}

func texts(set []Question) []string {
	result := make([]string, 0, len(set))
	for _, q := range set {
		result = append(result, q.Text)
	}
	return result
}

func TestSelect(t *testing.T) {
	t.Run(`role keyword wins regardless of department`, func(t *testing.T) {
		for _, department := range []string{"content", "technology", "", "unknown"} {
			got := Select(job("Video Editor", department, models.JobTypeFullTime))
			require.Equal(t, SetVideo, got.Rule)
			require.Equal(t, texts(videoQuestions), texts(got.Questions))
		}
		require.Equal(t, SetVideo, Select(job("Senior Videographer", "content", models.JobTypeFullTime)).Rule)
		require.Equal(t, SetContentWrite, Select(job("Automotive Content Writer", "content", models.JobTypeFullTime)).Rule)
		require.Equal(t, SetMediaSales, Select(job("Ad Sales Manager", "sales", models.JobTypeFullTime)).Rule)
	})

	t.Run(`social media executive gets the social media set, not the content department set`, func(t *testing.T) {
		got := Select(job("Social Media Executive", "content", models.JobTypeFullTime))
		require.Equal(t, SetSocialMedia, got.Rule)
		require.Len(t, got.Questions, 5)
		require.Equal(t, texts(socialMediaQuestions), texts(got.Questions))
	})

	t.Run(`role keyword is checked before internship`, func(t *testing.T) {
		got := Select(job("Video Editor Intern", "content", models.JobTypeInternship))
		require.Equal(t, SetVideo, got.Rule)
	})

	t.Run(`marketing internship gets the internship set`, func(t *testing.T) {
		got := Select(job("Marketing Internship", "marketing", models.JobTypeInternship))
		require.Equal(t, SetInternship, got.Rule)
		require.Equal(t, []string{
			"Are you currently studying?",
			"Can you commit to a 6-month internship?",
			"This internship offers a fixed stipend. Do you acknowledge this?",
		}, texts(got.Questions))
	})

	t.Run(`intern in the title is enough`, func(t *testing.T) {
		require.Equal(t, SetInternship, Select(job("Finance Intern", "finance", models.JobTypeFullTime)).Rule)
	})

	t.Run(`department lookup is case insensitive`, func(t *testing.T) {
		got := Select(job("Account Manager", "  Marketing ", models.JobTypeFullTime))
		require.Equal(t, "department:marketing", got.Rule)
		require.Len(t, got.Questions, 2)
	})

	t.Run(`unknown department falls back to two generic questions`, func(t *testing.T) {
		got := Select(job("Driver", "logistics", models.JobTypeFullTime))
		require.Equal(t, SetGeneric, got.Rule)
		require.Equal(t, texts(genericQuestions), texts(got.Questions))
		require.Len(t, got.Questions, 2)
	})

	t.Run(`department with no questions`, func(t *testing.T) {
		got := For(job("Office Assistant", "Administration", models.JobTypePartTime))
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run(`callers cannot modify the tables`, func(t *testing.T) {
		got := For(job("Video Editor", "content", models.JobTypeFullTime))
		got[1].Options[0] = "changed"
		got[3].Scale.Max = 100
		again := For(job("Video Editor", "content", models.JobTypeFullTime))
		require.Equal(t, "Adobe Premiere Pro", again[1].Options[0])
		require.Equal(t, 5, again[3].Scale.Max)
	})

	t.Run(`static tables are valid`, func(t *testing.T) {
		all := [][]Question{videoQuestions, contentWriterQuestions, socialMediaQuestions, mediaSalesQuestions,
			internshipQuestions, genericQuestions}
		for _, set := range departmentQuestions {
			all = append(all, set)
		}
		for _, set := range all {
			seen := map[string]bool{}
			for _, q := range set {
				require.NoError(t, q.Validate())
				require.False(t, seen[q.Text], q.Text)
				seen[q.Text] = true
			}
		}
	})
}
