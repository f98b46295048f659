package questions

import (
	"careers-backend/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuestion(t *testing.T) {
	t.Run(`constructors reject malformed questions`, func(t *testing.T) {
		require.Panics(t, func() { Radio("Pick one", "Only") })
		require.Panics(t, func() { Checkbox("Pick", "A", "A") })
		require.Panics(t, func() { Checkbox("Pick", "A, B", "C") })
		require.Panics(t, func() { Rating("Rate", 5, 1) })
		require.Panics(t, func() { Rating("Rate", 1, 5, "a", "b", "c") })
		require.Panics(t, func() { Text(" ") })
		require.NotPanics(t, func() { Rating("Rate", 1, 3, "low", "mid", "high") })
	})

	t.Run(`validate catches hand built variants`, func(t *testing.T) {
		require.Error(t, Question{Text: "Rate", Type: models.QuestionTypeRating}.Validate())
		require.Error(t, Question{Text: "Why", Type: models.QuestionTypeText, Options: []string{"a", "b"}}.Validate())
		require.Error(t, Question{Text: "Why", Type: "slider"}.Validate())
	})

	t.Run(`checkbox answers are joined in listed order`, func(t *testing.T) {
		q := Checkbox("Can you work weekends?", "Yes", "No")
		answer, err := q.Serialize([]string{"Yes", "No"})
		require.NoError(t, err)
		require.Equal(t, "Yes, No", answer)

		answer, err = q.Serialize([]string{"No", "Yes", "No"})
		require.NoError(t, err)
		require.Equal(t, "Yes, No", answer)
		require.NoError(t, q.ValidateAnswer(answer))

		_, err = q.Serialize(nil)
		require.Error(t, err)
		_, err = q.Serialize([]string{"Maybe"})
		require.Error(t, err)
	})

	t.Run(`serialized checkbox answers are checked`, func(t *testing.T) {
		q := Checkbox("Platforms", "Instagram", "YouTube", "LinkedIn")
		require.NoError(t, q.ValidateAnswer("Instagram, LinkedIn"))
		require.Error(t, q.ValidateAnswer("LinkedIn, Instagram"))
		require.Error(t, q.ValidateAnswer("Instagram, Instagram"))
		require.Error(t, q.ValidateAnswer("TikTok"))
		require.Error(t, q.ValidateAnswer(""))
	})

	t.Run(`single answers`, func(t *testing.T) {
		radio := Radio("Do you own a camera?", "Yes", "No")
		require.NoError(t, radio.ValidateAnswer("No"))
		require.Error(t, radio.ValidateAnswer("no"))
		_, err := radio.Serialize([]string{"Yes", "No"})
		require.Error(t, err)

		rating := Rating("Rate", 1, 5)
		require.NoError(t, rating.ValidateAnswer("5"))
		require.Error(t, rating.ValidateAnswer("6"))
		require.Error(t, rating.ValidateAnswer("three"))

		text := Textarea("Why us?")
		answer, err := text.Serialize([]string{"  because  "})
		require.NoError(t, err)
		require.Equal(t, "because", answer)
		require.Error(t, text.ValidateAnswer("   "))
	})

	t.Run(`every question needs an answer`, func(t *testing.T) {
		set := []Question{Text("When can you join?"), Radio("Relocate?", "Yes", "No")}
		require.NoError(t, ValidateAnswers(set, map[string]string{"When can you join?": "May", "Relocate?": "Yes"}))
		require.Error(t, ValidateAnswers(set, map[string]string{"When can you join?": "May"}))
		require.Error(t, ValidateAnswers(set, map[string]string{"When can you join?": "May", "Relocate?": "Yes", "Other": "x"}))
		require.NoError(t, ValidateAnswers(nil, nil))
		require.NoError(t, ValidateAnswers([]Question{}, map[string]string{}))
	})

	t.Run(`long answers are rejected`, func(t *testing.T) {
		set := []Question{Textarea("Tell us about your best video.")}
		ok := strings.Repeat("я", MaxAnswerLength)
		require.NoError(t, ValidateAnswers(set, map[string]string{"Tell us about your best video.": ok}))
		err := ValidateAnswers(set, map[string]string{"Tell us about your best video.": ok + "!"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be under")
	})
}
