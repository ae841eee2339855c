package api

import (
	"github.com/EglimarRamirez/Implementacion-rag/docs"
	"github.com/EglimarRamirez/Implementacion-rag/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

func SetupRouter(
	docHandler *handlers.DocumentHandler,
	queryHandler *handlers.QueryHandler,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	// Swagger - importing the docs package registers the spec through init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/status", docHandler.Status)
	app.Get("/documents", docHandler.ListDocuments)
	app.Post("/upload-file", docHandler.UploadFile)
	app.Post("/generate-embeddings", docHandler.GenerateEmbeddings)
	app.Post("/search", queryHandler.Search)
	app.Post("/query", queryHandler.Ask)

	return app
}
