package publicapi

import (
	"careers-backend/controllers"
	applicationhandler "careers-backend/lib/application"
	jobhandler "careers-backend/lib/job"
	"careers-backend/lib/storage"
	usershandler "careers-backend/lib/users"
	"careers-backend/middleware"
	"careers-backend/models"
	apimodels "careers-backend/models/api"
	applicationapimodels "careers-backend/models/api/application"
	authapimodels "careers-backend/models/api/auth"
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type careersApiController struct {
	controllers.BaseAPIController
	store storage.Provider
}

// InitCareersApiRouters публичное api сайта вакансий
func InitCareersApiRouters(app *fiber.App, store storage.Provider, submissionsPerMinute int) {
	controller := careersApiController{store: store}
	app.Get("health", controller.health)
	app.Route("jobs", func(router fiber.Router) {
		router.Get("", controller.jobList)
		router.Get("search", controller.jobSearch)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.jobGet)
			idRoute.Get("questions", controller.jobQuestions)
		})
	})
	app.Post("applications", middleware.SubmissionRateLimit(submissionsPerMinute), controller.applicationSubmit)
	app.Post("users/register", controller.userRegister)
}

// @Summary Проверка доступности
// @Tags Сайт вакансий
// @Description Проверка доступности сервиса и хранилища
// @Success 200 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/health [get]
func (c *careersApiController) health(ctx *fiber.Ctx) error {
	if err := c.store.Ping(ctx.UserContext()); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), storage.Unavailable("ping", err), "Хранилище недоступно")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"storage": "ok"}))
}

// @Summary Список открытых вакансий
// @Tags Сайт вакансий
// @Description Список открытых вакансий
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.JobView}
// @Failure 500 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/jobs [get]
func (c *careersApiController) jobList(ctx *fiber.Ctx) error {
	list, err := jobhandler.Instance.ListActive(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вакансий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Поиск вакансий
// @Tags Сайт вакансий
// @Description Поиск по названию, отделу и описанию открытых вакансий
// @Param   q          		query    string  false         "ключевое слово"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.JobView}
// @Failure 500 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/jobs/search [get]
func (c *careersApiController) jobSearch(ctx *fiber.Ctx) error {
	list, err := jobhandler.Instance.Search(ctx.UserContext(), ctx.Query("q"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка поиска вакансий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Вакансия
// @Tags Сайт вакансий
// @Description Открытая вакансия по идентификатору
// @Param   id          		path    string  true         "ID вакансии"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/jobs/{id} [get]
func (c *careersApiController) jobGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	resp, err := jobhandler.Instance.GetActive(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вакансии")
	}
	if resp == nil {
		return c.SendNotFound(ctx, "job not found")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Вопросы анкеты по вакансии
// @Tags Сайт вакансий
// @Description Вопросы второго шага анкеты; пустой список - шаг пропускается
// @Param   id          		path    string  true         "ID вакансии"
// @Success 200 {object} apimodels.Response{data=questions.Selection}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/jobs/{id}/questions [get]
func (c *careersApiController) jobQuestions(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	resp, err := jobhandler.Instance.Questions(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вопросов анкеты")
	}
	if resp == nil {
		return c.SendNotFound(ctx, "job not found")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отправка заявки
// @Tags Сайт вакансий
// @Description Заявка на вакансию, multipart/form-data
// @Accept  multipart/form-data
// @Param   jobId          		formData    string  true         "ID вакансии"
// @Param   firstName          		formData    string  true         "имя"
// @Param   lastName          		formData    string  true         "фамилия"
// @Param   email          		formData    string  true         "email"
// @Param   phone          		formData    string  true         "телефон"
// @Param   canTravelToNaviMumbai          		formData    string  true         "yes | no"
// @Param   currentSalary          		formData    string  false         "текущая зарплата"
// @Param   expectedSalary          		formData    string  false         "ожидаемая зарплата"
// @Param   whyMotorOctane          		formData    string  true         "мотивация"
// @Param   jobSpecificAnswers          		formData    string  false         "JSON: вопрос -> ответ"
// @Param   cv		formData	file 	false 	"резюме"
// @Success 201 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 413 {object} apimodels.Response
// @Failure 429 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/applications [post]
func (c *careersApiController) applicationSubmit(ctx *fiber.Ctx) error {
	request, err := parseSubmit(ctx)
	if err != nil {
		return sendFieldErrors(ctx, err)
	}
	logger := c.GetLogger(ctx).WithField("job_id", request.JobID)
	resp, err := applicationhandler.Instance.Submit(ctx.UserContext(), *request)
	if err != nil {
		var fieldErrs applicationapimodels.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			return sendFieldErrors(ctx, fieldErrs)
		case errors.Is(err, storage.ErrUnknownJob):
			return ctx.Status(fiber.StatusNotFound).
				JSON(apimodels.NewErrorWithDetails("job not found", "This position is no longer open."))
		}
		return c.SendError(ctx, logger, err, "Ошибка отправки заявки")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

func parseSubmit(ctx *fiber.Ctx) (*applicationapimodels.Submit, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		log.WithError(err).Warn("ошибка разбора multipart формы заявки")
		return nil, applicationapimodels.FieldErrors{{Field: "form", Message: "application must be sent as multipart/form-data"}}
	}
	value := func(name string) string {
		if values := form.Value[name]; len(values) != 0 {
			return values[0]
		}
		return ""
	}
	request := &applicationapimodels.Submit{
		JobID: strings.TrimSpace(value(applicationapimodels.FieldJobID)),
		BasicInfo: applicationapimodels.BasicInfo{
			FirstName:      value(applicationapimodels.FieldFirstName),
			LastName:       value(applicationapimodels.FieldLastName),
			Email:          value(applicationapimodels.FieldEmail),
			Phone:          value(applicationapimodels.FieldPhone),
			CanTravel:      models.TravelAnswer(value(applicationapimodels.FieldCanTravel)),
			CurrentSalary:  value(applicationapimodels.FieldCurrentSalary),
			ExpectedSalary: value(applicationapimodels.FieldExpectedSalary),
			Motivation:     value(applicationapimodels.FieldMotivation),
		},
		JobSpecificAnswers: map[string]string{},
	}
	if request.JobID == "" {
		return nil, applicationapimodels.FieldErrors{{Field: applicationapimodels.FieldJobID, Message: "job id is required"}}
	}
	if raw := strings.TrimSpace(value(applicationapimodels.FieldJobSpecificAnswers)); raw != "" {
		if err = json.Unmarshal([]byte(raw), &request.JobSpecificAnswers); err != nil {
			return nil, applicationapimodels.FieldErrors{{
				Field:   applicationapimodels.FieldJobSpecificAnswers,
				Message: "job specific answers must be a JSON object of question to answer",
			}}
		}
	}
	if files := form.File[applicationapimodels.FieldCV]; len(files) != 0 {
		request.BasicInfo.CV = cvFile(files[0])
	}
	return request, nil
}

func cvFile(header *multipart.FileHeader) *applicationapimodels.CVFile {
	return &applicationapimodels.CVFile{
		Name: header.Filename,
		Size: header.Size,
		Open: func() (io.ReadCloser, error) { return header.Open() },
	}
}

// sendFieldErrors 400 с описанием полей; слишком большой файл резюме - 413
func sendFieldErrors(ctx *fiber.Ctx, err error) error {
	var fieldErrs applicationapimodels.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	status := fiber.StatusBadRequest
	if fieldErrs.Get(applicationapimodels.FieldCV) == applicationapimodels.ErrCVTooLarge.Error() {
		status = fiber.StatusRequestEntityTooLarge
	}
	details := make([]string, 0, len(fieldErrs))
	for _, item := range fieldErrs {
		details = append(details, item.Field+": "+item.Message)
	}
	resp := apimodels.NewErrorWithDetails("validation failed", strings.Join(details, "; "))
	resp.Data = fieldErrs
	return ctx.Status(status).JSON(resp)
}

// @Summary Регистрация соискателя
// @Tags Сайт вакансий
// @Description Регистрация учетной записи соискателя
// @Param	body				body		authapimodels.RegisterRequest	true	"request body"
// @Success 201 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/users/register [post]
func (c *careersApiController) userRegister(ctx *fiber.Ctx) error {
	var payload authapimodels.RegisterRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	resp, hMsg, err := usershandler.Instance.Register(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка регистрации соискателя")
	}
	if hMsg != "" {
		return c.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}
