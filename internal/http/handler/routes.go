package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"

	"github.com/veermshah/congruency/internal/config"
	"github.com/veermshah/congruency/internal/http/middleware"
	"github.com/veermshah/congruency/internal/service"
	"github.com/veermshah/congruency/internal/token"
)

// RegisterRoutes attaches all HTTP routes to the Fiber app. Contract routes
// sit behind the session guard; auth, health, and docs stay public.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	authSvc service.AuthService,
	contractSvc service.ContractService,
	tokens token.Manager,
	authCfg config.AuthConfig,
	esignOAuth *oauth2.Config,
) {
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

	app.Get(middleware.SignInPath, SignInPage())
	app.Post("/auth/sign-up", SignUp(authSvc, authCfg))
	app.Post("/auth/sign-in", SignIn(authSvc, authCfg))
	app.Post("/auth/sign-out", SignOut(authCfg))

	app.Get("/esign/auth", ESignAuth(esignOAuth))
	app.Get("/esign/callback", ESignCallback(esignOAuth))

	guard := middleware.RequireUser(tokens, authCfg.CookieName)

	app.Post("/generate", guard, GenerateContract(contractSvc))

	contracts := app.Group("/contracts", guard)
	contracts.Get("/", ListContracts(contractSvc))
	contracts.Post("/", SaveContract(contractSvc))
	contracts.Post("/upload", UploadContract(contractSvc))
	contracts.Get("/:name/download", DownloadContract(contractSvc))
	contracts.Get("/:name/link", ShareContractLink(contractSvc))
	contracts.Delete("/:name", DeleteContract(contractSvc))
	contracts.Post("/:name/sign", SignContract(contractSvc))
}
