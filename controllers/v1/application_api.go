package apiv1

import (
	"careers-backend/controllers"
	applicationhandler "careers-backend/lib/application"
	"careers-backend/middleware"
	apimodels "careers-backend/models/api"
	applicationapimodels "careers-backend/models/api/application"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type applicationApiController struct {
	controllers.BaseAPIController
}

func InitApplicationApiRouters(app *fiber.App, jwtSecret string) {
	controller := applicationApiController{}
	application := fiber.New()
	app.Mount("/application", application)
	application.Use(middleware.AdminPanelAuthorizationRequired(jwtSecret))
	application.Use(middleware.ActiveAdminRequired())
	application.Post("list", controller.list)
	application.Post("export", controller.export)
	application.Route(":id", func(idRoute fiber.Router) {
		idRoute.Get("", controller.get)
		idRoute.Put("status", controller.updateStatus)
		idRoute.Get("cv", controller.cv)
		idRoute.Get("pdf", controller.pdf)
	})
}

// @Summary Список заявок
// @Tags Админ панель. Заявки
// @Description Заявки, новые первыми; фильтр по вакансии, статусу, ФИО или email
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 applicationapimodels.ListRequest	false	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/application/list [post]
func (c *applicationApiController) list(ctx *fiber.Ctx) error {
	var payload applicationapimodels.ListRequest
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return c.SendBadRequest(ctx, err.Error())
		}
	}
	if err := payload.ListFilter.Validate(); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	list, rowCount, err := applicationhandler.Instance.List(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Заявка
// @Tags Админ панель. Заявки
// @Description Заявка по идентификатору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID заявки"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/application/{id} [get]
func (c *applicationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	resp, err := applicationhandler.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "Ошибка получения заявки")
	}
	if resp == nil {
		return c.SendNotFound(ctx, "application not found")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Смена статуса заявки
// @Tags Админ панель. Заявки
// @Description Смена статуса заявки и заметки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID заявки"
// @Param	body body	 applicationapimodels.StatusUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/application/{id}/status [put]
func (c *applicationApiController) updateStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	var payload applicationapimodels.StatusUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	hMsg, err := applicationhandler.Instance.UpdateStatus(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "Ошибка изменения статуса заявки")
	}
	if hMsg != "" {
		return c.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Резюме
// @Tags Админ панель. Заявки
// @Description Файл резюме, приложенный к заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID заявки"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/application/{id}/cv [get]
func (c *applicationApiController) cv(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	resp, hMsg, err := applicationhandler.Instance.GetCV(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "Ошибка получения резюме")
	}
	if hMsg != "" {
		return c.SendBadRequest(ctx, hMsg)
	}
	ctx.Attachment(resp.FileName)
	ctx.Set(fiber.HeaderContentType, resp.ContentType)
	return ctx.Send(resp.Body)
}

// @Summary Заявка в pdf
// @Tags Админ панель. Заявки
// @Description Карточка заявки в pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "ID заявки"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/application/{id}/pdf [get]
func (c *applicationApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	body, fileName, err := applicationhandler.Instance.GetPDF(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "Ошибка формирования pdf заявки")
	}
	if body == nil {
		return c.SendNotFound(ctx, "application not found")
	}
	ctx.Attachment(fileName)
	return ctx.Send(body)
}

// @Summary Выгрузка заявок в Excel
// @Tags Админ панель. Заявки
// @Description Выгрузка заявок по фильтру в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 applicationapimodels.ListFilter	false	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/application/export [post]
func (c *applicationApiController) export(ctx *fiber.Ctx) error {
	var payload applicationapimodels.ListFilter
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return c.SendBadRequest(ctx, err.Error())
		}
	}
	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err.Error())
	}
	data, err := applicationhandler.Instance.Export(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки заявок в Excel")
	}
	fileName := fmt.Sprintf("applications-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
