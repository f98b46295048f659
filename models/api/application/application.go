package applicationapimodels

import (
	"careers-backend/models"
	apimodels "careers-backend/models/api"
	dbmodels "careers-backend/models/db"
	"io"
	"net/mail"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Поля multipart-формы POST /api/applications
const (
	FieldJobID              = "jobId"
	FieldFirstName          = "firstName"
	FieldLastName           = "lastName"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldCanTravel          = "canTravelToNaviMumbai"
	FieldCurrentSalary      = "currentSalary"
	FieldExpectedSalary     = "expectedSalary"
	FieldMotivation         = "whyMotorOctane"
	FieldCV                 = "cv"
	FieldJobSpecificAnswers = "jobSpecificAnswers"
)

const (
	maxShortFieldLen = 100
	// MaxMotivationLength ограничение в символах, ячейка таблицы вмещает не больше 50000
	MaxMotivationLength = 5000
)

// Rules ограничения первого шага анкеты
type Rules struct {
	MinMotivationLength int
	MaxCVSize           int64
	AllowedCVExt        []string
}

func DefaultRules() Rules {
	return Rules{
		MinMotivationLength: 50,
		MaxCVSize:           5 << 20,
		AllowedCVExt:        []string{".pdf", ".doc", ".docx"},
	}
}

// ParseExtList ".pdf, .doc,docx" -> [.pdf .doc .docx]
func ParseExtList(value string) []string {
	result := []string{}
	for _, ext := range strings.Split(value, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		result = append(result, ext)
	}
	return result
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors ошибки валидации по полям формы, в порядке полей
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, item := range e {
		messages = append(messages, item.Message)
	}
	return strings.Join(messages, "; ")
}

// Get сообщение для поля, пустая строка если поле корректно
func (e FieldErrors) Get(field string) string {
	for _, item := range e {
		if item.Field == field {
			return item.Message
		}
	}
	return ""
}

func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

type CVFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// BasicInfo первый шаг анкеты
type BasicInfo struct {
	FirstName      string              `json:"firstName"`
	LastName       string              `json:"lastName"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	CanTravel      models.TravelAnswer `json:"canTravelToNaviMumbai"`
	CurrentSalary  string              `json:"currentSalary,omitempty"`
	ExpectedSalary string              `json:"expectedSalary,omitempty"`
	Motivation     string              `json:"whyMotorOctane"`
	CV             *CVFile             `json:"-"`
}

// Normalize убирает пробелы по краям текстовых полей
func (b BasicInfo) Normalize() BasicInfo {
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	b.Email = strings.TrimSpace(b.Email)
	b.Phone = strings.TrimSpace(b.Phone)
	b.CanTravel = models.TravelAnswer(strings.ToLower(strings.TrimSpace(string(b.CanTravel))))
	b.CurrentSalary = strings.TrimSpace(b.CurrentSalary)
	b.ExpectedSalary = strings.TrimSpace(b.ExpectedSalary)
	b.Motivation = strings.TrimSpace(b.Motivation)
	return b
}

// Validate возвращает FieldErrors со всеми найденными ошибками или nil
func (b BasicInfo) Validate(rules Rules) error {
	b = b.Normalize()
	errs := FieldErrors{}
	if b.FirstName == "" {
		errs.add(FieldFirstName, "first name is required")
	} else if utf8.RuneCountInString(b.FirstName) > maxShortFieldLen {
		errs.add(FieldFirstName, "first name is too long")
	}
	if b.LastName == "" {
		errs.add(FieldLastName, "last name is required")
	} else if utf8.RuneCountInString(b.LastName) > maxShortFieldLen {
		errs.add(FieldLastName, "last name is too long")
	}
	if addr, err := mail.ParseAddress(b.Email); err != nil || addr.Address != b.Email {
		errs.add(FieldEmail, "please enter a valid email address")
	}
	if !validPhone(b.Phone) {
		errs.add(FieldPhone, "please enter a valid phone number")
	}
	if err := b.CanTravel.Validate(); err != nil {
		errs.add(FieldCanTravel, err.Error())
	}
	if len(b.CurrentSalary) > maxShortFieldLen {
		errs.add(FieldCurrentSalary, "current salary is too long")
	}
	if len(b.ExpectedSalary) > maxShortFieldLen {
		errs.add(FieldExpectedSalary, "expected salary is too long")
	}
	if motivationLen := utf8.RuneCountInString(b.Motivation); motivationLen < rules.MinMotivationLength {
		errs.add(FieldMotivation, "please tell us a little more about why you want to join (at least "+
			strconv.Itoa(rules.MinMotivationLength)+" characters)")
	} else if motivationLen > MaxMotivationLength {
		errs.add(FieldMotivation, "please keep your answer under "+strconv.Itoa(MaxMotivationLength)+" characters")
	}
	if b.CV != nil {
		if err := validateCV(*b.CV, rules); err != nil {
			errs.add(FieldCV, err.Error())
		}
	}
	return errs.orNil()
}

func validateCV(cv CVFile, rules Rules) error {
	ext := strings.ToLower(filepath.Ext(cv.Name))
	allowed := false
	for _, item := range rules.AllowedCVExt {
		if ext == item {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Errorf("CV must be one of: %s", strings.Join(rules.AllowedCVExt, ", "))
	}
	if cv.Size <= 0 {
		return errors.New("CV file is empty")
	}
	if rules.MaxCVSize > 0 && cv.Size > rules.MaxCVSize {
		return ErrCVTooLarge
	}
	return nil
}

var ErrCVTooLarge = errors.New("CV file is too large")

// validPhone допускает +, пробелы, дефисы и скобки; цифр от 10 до 15
func validPhone(phone string) bool {
	digits := 0
	for idx, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && idx == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 10 && digits <= 15
}

type ApplicationView struct {
	ID                 string                   `json:"id"`
	JobID              string                   `json:"jobId"`
	JobTitle           string                   `json:"jobTitle,omitempty"`
	FirstName          string                   `json:"firstName"`
	LastName           string                   `json:"lastName"`
	Email              string                   `json:"email"`
	Phone              string                   `json:"phone"`
	CanTravel          models.TravelAnswer      `json:"canTravelToNaviMumbai"`
	CurrentSalary      string                   `json:"currentSalary,omitempty"`
	ExpectedSalary     string                   `json:"expectedSalary,omitempty"`
	Motivation         string                   `json:"whyMotorOctane"`
	CVFileName         string                   `json:"cvFileName,omitempty"`
	HasCV              bool                     `json:"hasCv"`
	JobSpecificAnswers map[string]string        `json:"jobSpecificAnswers"`
	Status             models.ApplicationStatus `json:"status"`
	StatusName         string                   `json:"statusName"`
	Notes              string                   `json:"notes,omitempty"`
	CreatedAt          time.Time                `json:"createdAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
}

func ApplicationConvert(rec dbmodels.Application, job *dbmodels.Job) ApplicationView {
	answers := rec.JobSpecificAnswers
	if answers == nil {
		answers = map[string]string{}
	}
	result := ApplicationView{
		ID:                 rec.ID,
		JobID:              rec.JobID,
		FirstName:          rec.FirstName,
		LastName:           rec.LastName,
		Email:              rec.Email,
		Phone:              rec.Phone,
		CanTravel:          rec.CanTravel,
		CurrentSalary:      rec.CurrentSalary,
		ExpectedSalary:     rec.ExpectedSalary,
		Motivation:         rec.Motivation,
		CVFileName:         rec.CVFileName,
		HasCV:              rec.CVFileRef != "",
		JobSpecificAnswers: answers,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		Notes:              rec.Notes,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
	if job != nil {
		result.JobTitle = job.Title
	}
	return result
}

// StatusUpdate смена статуса заявки из админки
type StatusUpdate struct {
	Status models.ApplicationStatus `json:"status"`
	Notes  *string                  `json:"notes"`
}

func (s StatusUpdate) Validate() error {
	return s.Status.Validate()
}

type ListFilter struct {
	JobID  string                   `json:"job_id"`
	Status models.ApplicationStatus `json:"status"`
	Search string                   `json:"search"` // ФИО или email
}

func (f ListFilter) Validate() error {
	if f.Status != "" {
		return f.Status.Validate()
	}
	return nil
}

// Match применяется к заявкам, полученным из хранилища
func (f ListFilter) Match(rec dbmodels.Application) bool {
	if f.JobID != "" && rec.JobID != f.JobID {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search != "" {
		return strings.Contains(strings.ToLower(rec.GetFIO()), search) ||
			strings.Contains(strings.ToLower(rec.Email), search)
	}
	return true
}

// Submit заявка в том виде, в каком ее присылает сайт вакансий
type Submit struct {
	JobID              string
	BasicInfo          BasicInfo
	JobSpecificAnswers map[string]string
}

type ListRequest struct {
	ListFilter
	apimodels.Pagination
}

// CVDownload файл резюме для отдачи в админке
type CVDownload struct {
	FileName    string
	ContentType string
	Body        []byte
}
