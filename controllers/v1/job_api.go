package apiv1

import (
	"careers-backend/controllers"
	jobhandler "careers-backend/lib/job"
	"careers-backend/middleware"
	apimodels "careers-backend/models/api"
	jobapimodels "careers-backend/models/api/job"

	"github.com/gofiber/fiber/v2"
)

type jobApiController struct {
	controllers.BaseAPIController
}

func InitJobApiRouters(app *fiber.App, jwtSecret string) {
	controller := jobApiController{}
	job := fiber.New()
	app.Mount("/job", job)
	job.Use(middleware.AdminPanelAuthorizationRequired(jwtSecret))
	job.Use(middleware.ActiveAdminRequired())
	job.Post("", controller.create)
	job.Post("list", controller.list)
	job.Route(":id", func(idRoute fiber.Router) {
		idRoute.Get("", controller.get)
		idRoute.Put("", controller.update)
		idRoute.Delete("", controller.delete)
	})
}

// @Summary Создание вакансии
// @Tags Админ панель. Вакансии
// @Description Создание вакансии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 jobapimodels.JobData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/job [post]
func (c *jobApiController) create(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	id, err := jobhandler.Instance.Create(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания вакансии")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Изменение вакансии
// @Tags Админ панель. Вакансии
// @Description Изменение вакансии, передаются только изменяемые поля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID вакансии"
// @Param	body body	 jobapimodels.JobUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/job/{id} [put]
func (c *jobApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	var payload jobapimodels.JobUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	hMsg, err := jobhandler.Instance.Update(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("job_id", id), err, "Ошибка изменения вакансии")
	}
	if hMsg != "" {
		return c.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение вакансии
// @Tags Админ панель. Вакансии
// @Description Вакансия с количеством заявок
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID вакансии"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobAdminView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/job/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	resp, err := jobhandler.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("job_id", id), err, "Ошибка получения вакансии")
	}
	if resp == nil {
		return c.SendNotFound(ctx, "job not found")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление вакансии
// @Tags Админ панель. Вакансии
// @Description Удаление вакансии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID вакансии"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/job/{id} [delete]
func (c *jobApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	hMsg, err := jobhandler.Instance.Delete(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("job_id", id), err, "Ошибка удаления вакансии")
	}
	if hMsg != "" {
		return c.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список вакансий
// @Tags Админ панель. Вакансии
// @Description Все вакансии, включая закрытые
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 jobapimodels.ListFilter	false	"request body"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.JobAdminView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/job/list [post]
func (c *jobApiController) list(ctx *fiber.Ctx) error {
	var payload jobapimodels.ListFilter
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return c.SendBadRequest(ctx, err.Error())
		}
	}
	resp, err := jobhandler.Instance.List(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вакансий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
