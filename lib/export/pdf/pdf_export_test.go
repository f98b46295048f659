package pdfexport

import (
	"bytes"
	"careers-backend/models"
	applicationapimodels "careers-backend/models/api/application"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateApplicationCard(t *testing.T) {
	view := applicationapimodels.ApplicationView{
		ID:                 "app-1",
		JobID:              "job-1",
		JobTitle:           "Video Editor",
		FirstName:          "Asha",
		LastName:           "Patil",
		Email:              "asha@example.com",
		Phone:              "+91 98200 12345",
		CanTravel:          models.TravelAnswerYes,
		Motivation:         strings.Repeat("I love cars and cameras. ", 40),
		JobSpecificAnswers: map[string]string{"Weekend shoots?": "Yes, No"},
		Status:             models.ApplicationStatusPending,
		StatusName:         models.ApplicationStatusPending.ToHuman(),
		CreatedAt:          time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}

	t.Run(`full application renders`, func(t *testing.T) {
		body, err := GenerateApplicationCard(view)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	})

	t.Run(`application without answers and job title renders`, func(t *testing.T) {
		short := view
		short.JobTitle = ""
		short.JobSpecificAnswers = map[string]string{}
		body, err := GenerateApplicationCard(short)
		require.NoError(t, err)
		require.NotEmpty(t, body)
	})
}
