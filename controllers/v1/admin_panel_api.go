package apiv1

import (
	"careers-backend/controllers"
	adminpanelhandler "careers-backend/lib/admin-panel"
	adminpanelauthhandler "careers-backend/lib/admin-panel/auth"
	"careers-backend/middleware"
	apimodels "careers-backend/models/api"
	adminpanelapimodels "careers-backend/models/api/admin-panel"
	authapimodels "careers-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type adminApiController struct {
	controllers.BaseAPIController
}

// InitAdminApiRouters вход в админку и управление ее пользователями
func InitAdminApiRouters(app *fiber.App, jwtSecret string) {
	controller := adminApiController{}
	app.Post("login", controller.login)

	// доступ суперадминам
	user := fiber.New()
	app.Mount("/user", user)
	user.Use(middleware.AdminPanelAuthorizationRequired(jwtSecret))
	user.Use(middleware.ActiveAdminRequired())
	user.Use(middleware.SuperAdminRole())
	user.Get("get/:id", controller.userGet)
	user.Post("create", controller.userCreate)
	user.Put("update/:id", controller.userUpdate)
	user.Delete("delete/:id", controller.userDelete)
	user.Post("list", controller.userList)
}

// @Summary Аутентификация пользователя
// @Tags Админ панель
// @Description Аутентификация пользователя
// @Param	body				body		authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/login [post]
func (a *adminApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := a.BodyParser(ctx, &payload); err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	if err := payload.Validate(); err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	resp, hMsg, err := adminpanelauthhandler.Instance.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.SendError(ctx, a.GetLogger(ctx), err, "Ошибка аутентификации пользователя админки")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание пользователя
// @Tags Админ панель. Пользователи
// @Description Создание пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 adminpanelapimodels.User	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/user/create [post]
func (a *adminApiController) userCreate(ctx *fiber.Ctx) error {
	var payload adminpanelapimodels.User
	if err := a.BodyParser(ctx, &payload); err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	if err := payload.Validate(); err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	id, hMsg, err := adminpanelhandler.Instance.CreateUser(ctx.UserContext(), payload)
	if err != nil {
		return a.SendError(ctx, a.GetLogger(ctx), err, "Ошибка создания пользователя админки")
	}
	if hMsg != "" {
		return a.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Изменение пользователя
// @Tags Админ панель. Пользователи
// @Description Изменение пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Param	body body	 adminpanelapimodels.UserUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/user/update/{id} [put]
func (a *adminApiController) userUpdate(ctx *fiber.Ctx) error {
	id, err := a.GetID(ctx)
	if err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	var payload adminpanelapimodels.UserUpdate
	if err = a.BodyParser(ctx, &payload); err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	if err = payload.Validate(); err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	hMsg, err := adminpanelhandler.Instance.UpdateUser(ctx.UserContext(), id, payload)
	if err != nil {
		return a.SendError(ctx, a.GetLogger(ctx).WithField("user_id", id), err, "Ошибка изменения пользователя админки")
	}
	if hMsg != "" {
		return a.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление пользователя
// @Tags Админ панель. Пользователи
// @Description Удаление пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/user/delete/{id} [delete]
func (a *adminApiController) userDelete(ctx *fiber.Ctx) error {
	id, err := a.GetID(ctx)
	if err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	hMsg, err := adminpanelhandler.Instance.DeleteUser(ctx.UserContext(), id)
	if err != nil {
		return a.SendError(ctx, a.GetLogger(ctx).WithField("user_id", id), err, "Ошибка удаления пользователя админки")
	}
	if hMsg != "" {
		return a.SendBadRequest(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение пользователя
// @Tags Админ панель. Пользователи
// @Description Получение пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response{data=adminpanelapimodels.UserView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/user/get/{id} [get]
func (a *adminApiController) userGet(ctx *fiber.Ctx) error {
	id, err := a.GetID(ctx)
	if err != nil {
		return a.SendBadRequest(ctx, err.Error())
	}
	resp, err := adminpanelhandler.Instance.GetUser(ctx.UserContext(), id)
	if err != nil {
		return a.SendError(ctx, a.GetLogger(ctx).WithField("user_id", id), err, "Ошибка получения пользователя админки")
	}
	if resp == nil {
		return a.SendNotFound(ctx, "user not found")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список пользователей
// @Tags Админ панель. Пользователи
// @Description Список пользователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]adminpanelapimodels.UserView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/admin_panel/user/list [post]
func (a *adminApiController) userList(ctx *fiber.Ctx) error {
	resp, err := adminpanelhandler.Instance.List(ctx.UserContext())
	if err != nil {
		return a.SendError(ctx, a.GetLogger(ctx), err, "Ошибка получения списка пользователей админки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
