package xlsexport

import (
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportApplicationList(t *testing.T) {
	created := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	list := []dbmodels.ApplicationWithJob{
		{
			Application: dbmodels.Application{
				BaseModel:          dbmodels.BaseModel{ID: "app-1", CreatedAt: created},
				JobID:              "job-1",
				FirstName:          "Asha",
				LastName:           "Patil",
				Email:              "asha@example.com",
				CanTravel:          models.TravelAnswerYes,
				JobSpecificAnswers: map[string]string{"B?": "2", "A?": "1"},
				Status:             models.ApplicationStatusShortlisted,
			},
			Job: &dbmodels.Job{Title: "Video Editor", Department: "content"},
		},
		{
			Application: dbmodels.Application{JobID: "job-gone", FirstName: "Ravi", Status: models.ApplicationStatusPending},
		},
	}

	buf, err := impl{}.ExportApplicationList(list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Submitted", rows[0][0])
	require.Equal(t, len(applicationColumns), len(rows[0]))
	require.Equal(t, "2026-05-04 09:30", rows[1][0])
	require.Equal(t, "Video Editor", rows[1][1])
	require.Equal(t, "Asha Patil", rows[1][3])
	require.Equal(t, "A?: 1\nB?: 2", rows[1][10])
	require.Equal(t, "Shortlisted", rows[1][12])
	require.Equal(t, "job-gone", rows[2][1])
}

func TestExportEmptyList(t *testing.T) {
	buf, err := impl{}.ExportApplicationList(nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
