package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/audio"
	"github.com/mrsingh-rishi/voice-doc/config"
	"github.com/mrsingh-rishi/voice-doc/dictation"
	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/service"
)

// Deps are the collaborators the router hands requests to. Context bounds
// every vendor call made on behalf of a request; cancelling it aborts
// in-flight calls during shutdown. A nil Context means context.Background().
type Deps struct {
	Context  context.Context
	Service  *service.DocumentService
	Store    *audio.Store
	Sessions *dictation.Registry
}

type handlers struct {
	ctx       context.Context
	svc       *service.DocumentService
	store     *audio.Store
	sessions  *dictation.Registry
	bodyLimit int
}

// New builds the fiber app with middleware and every route mounted.
func New(cfg config.ServerConfig, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "voice-doc",
		BodyLimit:             cfg.BodyLimit(),
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	origins := cfg.AllowedOrigins()
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger)
	app.Use(enforceOrigin(origins))
	app.Use(cors.New(cors.Config{
		AllowOrigins: joinOrigins(origins),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	h := &handlers{
		ctx:       ctx,
		svc:       deps.Service,
		store:     deps.Store,
		sessions:  deps.Sessions,
		bodyLimit: cfg.BodyLimit(),
	}

	app.Get("/health", h.health)

	generate := app.Group("/generate")
	generate.Post("/text", h.generateText)
	generate.Post("/application-form", h.generateApplication)
	generate.Post("/audio", h.generateFromAudio)

	app.Post("/speech-to-text", h.speechToText)
	app.Post("/text-to-speech", h.textToSpeech)
	app.Static(audio.PublicPrefix, deps.Store.OutputDir())

	// Websocket routes require an upgrade request.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/dictate", websocket.New(h.dictate))

	return app
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(model.OK("ok", fiber.Map{
		"status":   "healthy",
		"provider": h.svc.ProviderName(),
	}))
}

// errorHandler turns any error that escapes a handler into a failure envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := MsgGenericFail

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logger.Errorf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(model.Fail(message, err.Error()))
}
