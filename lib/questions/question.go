package questions

import (
	"careers-backend/models"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// AnswerSeparator разделитель выбранных вариантов в сохраненном ответе на checkbox-вопрос
const AnswerSeparator = ", "

// Question вопрос второго шага анкеты. Набор заполненных полей определяется типом:
// Options только у radio/checkbox, Scale только у rating.
type Question struct {
	Text    string              `json:"question"`
	Type    models.QuestionType `json:"type"`
	Options []string            `json:"options,omitempty"`
	Scale   *Scale              `json:"scale,omitempty"`
}

type Scale struct {
	Min    int      `json:"min"`
	Max    int      `json:"max"`
	Labels []string `json:"labels,omitempty"`
}

func Text(text string) Question {
	return mustBuild(Question{Text: text, Type: models.QuestionTypeText})
}

func Textarea(text string) Question {
	return mustBuild(Question{Text: text, Type: models.QuestionTypeTextarea})
}

func Radio(text string, options ...string) Question {
	return mustBuild(Question{Text: text, Type: models.QuestionTypeRadio, Options: options})
}

func Checkbox(text string, options ...string) Question {
	return mustBuild(Question{Text: text, Type: models.QuestionTypeCheckbox, Options: options})
}

func Rating(text string, min, max int, labels ...string) Question {
	return mustBuild(Question{Text: text, Type: models.QuestionTypeRating, Scale: &Scale{Min: min, Max: max, Labels: labels}})
}

// mustBuild конструкторы используются для статических таблиц, некорректный вопрос - ошибка программиста
func mustBuild(q Question) Question {
	if err := q.Validate(); err != nil {
		panic(err)
	}
	return q
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is empty")
	}
	switch q.Type {
	case models.QuestionTypeText, models.QuestionTypeTextarea:
		if len(q.Options) != 0 || q.Scale != nil {
			return errors.Errorf("question %q: %s question takes neither options nor scale", q.Text, q.Type)
		}
	case models.QuestionTypeRadio, models.QuestionTypeCheckbox:
		if q.Scale != nil {
			return errors.Errorf("question %q: %s question takes no scale", q.Text, q.Type)
		}
		if len(q.Options) < 2 {
			return errors.Errorf("question %q: %s question needs at least two options", q.Text, q.Type)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, option := range q.Options {
			if strings.TrimSpace(option) == "" {
				return errors.Errorf("question %q: empty option", q.Text)
			}
			if q.Type == models.QuestionTypeCheckbox && strings.Contains(option, AnswerSeparator) {
				return errors.Errorf("question %q: checkbox option %q contains the answer separator", q.Text, option)
			}
			if seen[option] {
				return errors.Errorf("question %q: duplicate option %q", q.Text, option)
			}
			seen[option] = true
		}
	case models.QuestionTypeRating:
		if len(q.Options) != 0 {
			return errors.Errorf("question %q: rating question takes no options", q.Text)
		}
		if q.Scale == nil {
			return errors.Errorf("question %q: rating question needs a scale", q.Text)
		}
		if q.Scale.Min >= q.Scale.Max {
			return errors.Errorf("question %q: rating scale min must be below max", q.Text)
		}
		if len(q.Scale.Labels) != 0 && len(q.Scale.Labels) != 2 && len(q.Scale.Labels) != q.Scale.Max-q.Scale.Min+1 {
			return errors.Errorf("question %q: rating labels must name both ends or every point of the scale", q.Text)
		}
	default:
		return errors.Errorf("question %q: unknown type %q", q.Text, q.Type)
	}
	return nil
}

// Serialize приводит выбранные значения к сохраняемой строке ответа.
// Для checkbox варианты склеиваются через ", " в порядке их перечисления в вопросе.
func (q Question) Serialize(values []string) (string, error) {
	if q.Type != models.QuestionTypeCheckbox {
		if len(values) != 1 {
			return "", errors.Errorf("question %q expects a single answer", q.Text)
		}
		answer := strings.TrimSpace(values[0])
		return answer, q.ValidateAnswer(answer)
	}
	selected := make(map[string]bool, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if !q.hasOption(value) {
			return "", errors.Errorf("%q is not an option of %q", value, q.Text)
		}
		selected[value] = true
	}
	if len(selected) == 0 {
		return "", errors.Errorf("please choose at least one option for %q", q.Text)
	}
	result := make([]string, 0, len(selected))
	for _, option := range q.Options {
		if selected[option] {
			result = append(result, option)
		}
	}
	return strings.Join(result, AnswerSeparator), nil
}

// ValidateAnswer проверяет уже сериализованный ответ
func (q Question) ValidateAnswer(answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return errors.Errorf("please answer %q", q.Text)
	}
	switch q.Type {
	case models.QuestionTypeRadio:
		if !q.hasOption(answer) {
			return errors.Errorf("%q is not an option of %q", answer, q.Text)
		}
	case models.QuestionTypeCheckbox:
		prev := -1
		for _, value := range strings.Split(answer, AnswerSeparator) {
			idx := q.optionIndex(value)
			if idx < 0 {
				return errors.Errorf("%q is not an option of %q", value, q.Text)
			}
			if idx <= prev {
				return errors.Errorf("options of %q must be listed once, in the listed order", q.Text)
			}
			prev = idx
		}
	case models.QuestionTypeRating:
		value, err := strconv.Atoi(answer)
		if err != nil || value < q.Scale.Min || value > q.Scale.Max {
			return errors.Errorf("answer to %q must be a number from %d to %d", q.Text, q.Scale.Min, q.Scale.Max)
		}
	}
	return nil
}

func (q Question) hasOption(value string) bool {
	return q.optionIndex(value) >= 0
}

func (q Question) optionIndex(value string) int {
	for idx, option := range q.Options {
		if option == value {
			return idx
		}
	}
	return -1
}

func (q Question) String() string {
	return fmt.Sprintf("%s(%s)", q.Type, q.Text)
}

// MaxAnswerLength ограничение длины одного ответа в символах
const MaxAnswerLength = 2000

// ValidateAnswers проверяет, что на каждый вопрос дан корректный ответ.
// Ответы на вопросы, которых нет в наборе, не допускаются.
func ValidateAnswers(set []Question, answers map[string]string) error {
	for _, q := range set {
		answer, ok := answers[q.Text]
		if !ok {
			return errors.Errorf("please answer %q", q.Text)
		}
		if utf8.RuneCountInString(answer) > MaxAnswerLength {
			return errors.Errorf("the answer to %q must be under %d characters", q.Text, MaxAnswerLength)
		}
		if err := q.ValidateAnswer(answer); err != nil {
			return err
		}
	}
	if len(answers) > len(set) {
		for text := range answers {
			if !contains(set, text) {
				return errors.Errorf("unexpected answer to %q", text)
			}
		}
	}
	return nil
}

func contains(set []Question, text string) bool {
	for _, q := range set {
		if q.Text == text {
			return true
		}
	}
	return false
}

func clone(set []Question) []Question {
	if set == nil {
		return []Question{}
	}
	result := make([]Question, 0, len(set))
	for _, q := range set {
		c := q
		c.Options = append([]string(nil), q.Options...)
		if q.Scale != nil {
			scale := *q.Scale
			scale.Labels = append([]string(nil), q.Scale.Labels...)
			c.Scale = &scale
		}
		result = append(result, c)
	}
	return result
}
