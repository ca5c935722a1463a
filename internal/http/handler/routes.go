package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/justinloyola/alma/internal/http/middleware"
	"github.com/justinloyola/alma/internal/service"
	"github.com/justinloyola/alma/internal/upload"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. The public
// surface is the submission form and login; everything touching existing
// leads sits behind bearer auth.
func RegisterRoutes(app *fiber.App, db *sql.DB, leadSvc service.LeadService, authSvc service.AuthService, policy *upload.Policy) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/login", Login(authSvc))

	// Public submission endpoint.
	app.Post("/leads", CreateLead(leadSvc, policy))

	// Everything else on leads requires a valid token.
	leads := app.Group("/leads", middleware.RequireAuth(authSvc))
	leads.Get("/", ListLeads(leadSvc))
	leads.Get("/:id", GetLead(leadSvc))
	leads.Get("/:id/resume", DownloadResume(leadSvc))
	leads.Put("/:id", UpdateLead(leadSvc))
	leads.Put("/:id/reached-out", MarkReachedOut(leadSvc))
	leads.Delete("/:id", DeleteLead(leadSvc))
}
