package main

import (
	"careers-backend/config"
	apiv1 "careers-backend/controllers/v1"
	publicapi "careers-backend/controllers/v1/public"
	"careers-backend/fiberlog"
	"careers-backend/initializers"
	"careers-backend/middleware"
	apimodels "careers-backend/models/api"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMb << 20
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(apimodels.NewError(err.Error()))
		},
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	api := fiber.New()
	api.Use(fiberlog.New(*initializers.LoggerConfig))
	if config.Conf.App.ErrNotifyURL != "" {
		api.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL))
	}
	api.Use(cors.New(cors.Config{
		AllowOrigins: config.Conf.App.CorsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	api.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	app.Mount("/api", api)

	// сайт вакансий
	publicapi.InitCareersApiRouters(api, initializers.Store, config.Conf.Submission.RateLimitPerMinute)

	//админка
	adminPanel := fiber.New()
	api.Mount("/admin_panel", adminPanel)
	jwtSecret := config.Conf.AdminPanelAuth.JWTSecret
	apiv1.InitAdminApiRouters(adminPanel, jwtSecret)
	apiv1.InitJobApiRouters(adminPanel, jwtSecret)
	apiv1.InitApplicationApiRouters(adminPanel, jwtSecret)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.WithError(err).Error("HTTP server stopped with error")
		cancel()
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
