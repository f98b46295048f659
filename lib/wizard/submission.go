package wizard

import (
	"bytes"
	apimodels "careers-backend/models/api"
	applicationapimodels "careers-backend/models/api/application"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const applicationsPath = "/api/applications"

// Submission данные обоих шагов анкеты, отправляются одним запросом
type Submission struct {
	JobID              string
	BasicInfo          applicationapimodels.BasicInfo
	JobSpecificAnswers map[string]string
}

// Multipart тело запроса POST /api/applications
func (s Submission) Multipart() (body *bytes.Buffer, contentType string, err error) {
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	info := s.BasicInfo
	fields := []struct {
		name, value string
	}{
		{applicationapimodels.FieldJobID, s.JobID},
		{applicationapimodels.FieldFirstName, info.FirstName},
		{applicationapimodels.FieldLastName, info.LastName},
		{applicationapimodels.FieldEmail, info.Email},
		{applicationapimodels.FieldPhone, info.Phone},
		{applicationapimodels.FieldCanTravel, string(info.CanTravel)},
		{applicationapimodels.FieldCurrentSalary, info.CurrentSalary},
		{applicationapimodels.FieldExpectedSalary, info.ExpectedSalary},
		{applicationapimodels.FieldMotivation, info.Motivation},
	}
	for _, field := range fields {
		if field.value == "" && (field.name == applicationapimodels.FieldCurrentSalary || field.name == applicationapimodels.FieldExpectedSalary) {
			continue
		}
		if err = writer.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	if len(s.JobSpecificAnswers) != 0 {
		answers, err := json.Marshal(s.JobSpecificAnswers)
		if err != nil {
			return nil, "", errors.Wrap(err, "ошибка сериализации ответов")
		}
		if err = writer.WriteField(applicationapimodels.FieldJobSpecificAnswers, string(answers)); err != nil {
			return nil, "", err
		}
	}
	if info.CV != nil {
		if err = writeCV(writer, *info.CV); err != nil {
			return nil, "", err
		}
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func writeCV(writer *multipart.Writer, cv applicationapimodels.CVFile) error {
	if cv.Open == nil {
		return errors.New("CV file has no content")
	}
	reader, err := cv.Open()
	if err != nil {
		return errors.Wrap(err, "ошибка чтения файла резюме")
	}
	defer reader.Close()
	part, err := writer.CreateFormFile(applicationapimodels.FieldCV, filepath.Base(cv.Name))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, reader)
	return err
}

// APIError отказ сервера; Message - то, что нужно показать пользователю (details или error)
type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Submit отправляет заявку ровно один раз. Повтор остается на усмотрение пользователя:
// создание заявки не идемпотентно.
func (c *Client) Submit(ctx context.Context, s Submission) (*applicationapimodels.ApplicationView, error) {
	logger := log.WithField("job_id", s.JobID)
	body, contentType, err := s.Multipart()
	if err != nil {
		return nil, err
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+applicationsPath, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", contentType)
	r.Header.Set("Accept", "application/json")
	response, err := c.httpClient.Do(r)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки заявки")
		return nil, errors.Wrap(err, "failed to submit application")
	}
	defer response.Body.Close()
	responseBody, _ := io.ReadAll(response.Body)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		result := struct {
			Data applicationapimodels.ApplicationView `json:"data"`
		}{}
		if err = json.Unmarshal(responseBody, &result); err != nil {
			return nil, errors.Wrap(err, "ошибка сериализации ответа")
		}
		return &result.Data, nil
	}

	errorResp := apimodels.Response{}
	if err = json.Unmarshal(responseBody, &errorResp); err != nil || errorResp.UserMessage() == "" {
		logger.
			WithField("response_body", string(responseBody)).
			WithField("status_code", response.StatusCode).
			Warn("сервер вернул ошибку в неизвестном формате")
		return nil, APIError{StatusCode: response.StatusCode, Message: http.StatusText(response.StatusCode)}
	}
	return nil, APIError{StatusCode: response.StatusCode, Message: errorResp.UserMessage()}
}
