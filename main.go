package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	apiv1 "hr-pipeline/controllers/v1"
	"hr-pipeline/fiberlog"
	"hr-pipeline/initializers"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/transcript"
	"hr-pipeline/lib/ws"
	"hr-pipeline/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(middleware.WithBodyLimit(int64(bodyLimit)))

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	authHandlers := []fiber.Handler{middleware.AuthorizationRequired(), middleware.SessionRequired(session.Instance)}
	apiv1.InitSessionRouters(apiV1, authHandlers...)

	// маршруты сессии зарегистрированы раньше, вход проходит без токена
	authorized := apiV1.Group("", authHandlers...)
	apiv1.InitJobsRouters(authorized)
	apiv1.InitApplicantRouters(authorized)
	apiv1.InitDraftRouters(authorized)
	apiv1.InitInterviewRouters(authorized)
	apiv1.InitOfferRouters(authorized)
	apiv1.InitReviewRouters(authorized)
	apiv1.InitTranscriptRouters(authorized, transcript.NewInstance(atsclient.Instance, notify.Instance))
	apiv1.InitFilesRouters(authorized)
	ws.InitWs(authorized.Group("/ws"))

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
