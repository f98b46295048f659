package wizard

import (
	"careers-backend/lib/questions"
	applicationapimodels "careers-backend/models/api/application"
	dbmodels "careers-backend/models/db"

	"github.com/pkg/errors"
)

type Step string

const (
	StepBasicInfo Step = "basic_info"
	StepAnswers   Step = "job_specific_answers"
	StepSubmitted Step = "submitted"
	StepCancelled Step = "cancelled"
)

var ErrWrongStep = errors.New("action is not allowed at this step")

// Workflow анкета отклика из двух шагов. Единственный владелец состояния формы:
// шаг, данные первого шага и ответы второго хранятся только здесь.
type Workflow struct {
	jobID      string
	questions  []questions.Question
	rules      applicationapimodels.Rules
	step       Step
	basicInfo  applicationapimodels.BasicInfo
	answers    map[string][]string
	submission *Submission
}

func New(job dbmodels.Job, rules applicationapimodels.Rules) *Workflow {
	return NewWithQuestions(job.ID, questions.For(job), rules)
}

// NewWithQuestions для случаев, когда вопросы уже получены с сервера (GET /api/jobs/:id/questions)
func NewWithQuestions(jobID string, set []questions.Question, rules applicationapimodels.Rules) *Workflow {
	return &Workflow{
		jobID:     jobID,
		questions: set,
		rules:     rules,
		step:      StepBasicInfo,
		answers:   map[string][]string{},
	}
}

func (w *Workflow) Step() Step {
	return w.step
}

func (w *Workflow) Questions() []questions.Question {
	return w.questions
}

// BasicInfo введенные на первом шаге данные (в том числе после возврата со второго шага)
func (w *Workflow) BasicInfo() applicationapimodels.BasicInfo {
	return w.basicInfo
}

// Answers выбранные на втором шаге значения
func (w *Workflow) Answers() map[string][]string {
	result := make(map[string][]string, len(w.answers))
	for k, v := range w.answers {
		result[k] = append([]string(nil), v...)
	}
	return result
}

// SubmitBasicInfo проверяет первый шаг. При ошибке анкета остается на первом шаге,
// введенные значения сохраняются. Если вопросов второго шага нет - анкета сразу отправляется.
func (w *Workflow) SubmitBasicInfo(info applicationapimodels.BasicInfo) error {
	if w.step != StepBasicInfo {
		return ErrWrongStep
	}
	w.basicInfo = info
	if err := info.Validate(w.rules); err != nil {
		return err
	}
	w.basicInfo = info.Normalize()
	if len(w.questions) == 0 {
		w.submit(map[string]string{})
		return nil
	}
	w.step = StepAnswers
	return nil
}

// Back со второго шага на первый, ничего не теряя
func (w *Workflow) Back() error {
	if w.step != StepAnswers {
		return ErrWrongStep
	}
	w.step = StepBasicInfo
	return nil
}

// SubmitAnswers проверяет, что ответ дан на каждый вопрос, и собирает единую заявку
func (w *Workflow) SubmitAnswers(answers map[string][]string) error {
	if w.step != StepAnswers {
		return ErrWrongStep
	}
	w.answers = map[string][]string{}
	for k, v := range answers {
		w.answers[k] = append([]string(nil), v...)
	}
	errs := applicationapimodels.FieldErrors{}
	serialized := make(map[string]string, len(w.questions))
	for _, q := range w.questions {
		value, err := q.Serialize(answers[q.Text])
		if err != nil {
			errs = append(errs, applicationapimodels.FieldError{Field: q.Text, Message: err.Error()})
			continue
		}
		serialized[q.Text] = value
	}
	if len(errs) != 0 {
		return errs
	}
	w.submit(serialized)
	return nil
}

// Cancel закрытие формы: состояние сбрасывается, заявка не формируется
func (w *Workflow) Cancel() {
	w.step = StepCancelled
	w.basicInfo = applicationapimodels.BasicInfo{}
	w.answers = map[string][]string{}
	w.submission = nil
}

// Submission готовая заявка, доступна только после успешного завершения обоих шагов
func (w *Workflow) Submission() (*Submission, bool) {
	if w.step != StepSubmitted || w.submission == nil {
		return nil, false
	}
	return w.submission, true
}

func (w *Workflow) submit(answers map[string]string) {
	w.submission = &Submission{
		JobID:              w.jobID,
		BasicInfo:          w.basicInfo,
		JobSpecificAnswers: answers,
	}
	w.step = StepSubmitted
}
