package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/skillverge/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, analyses *handlers.AnalysisHandler, authMW fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)

	// Candidate's own resume analyses; candidate id comes from the token subject.
	ra := v1.Group("/resume-analyses", authMW)
	ra.Post("/", analyses.Upload)
	ra.Post("/text", analyses.SubmitText)
	ra.Get("/latest", analyses.Latest)
	ra.Get("/", analyses.History)

	v1.Get("/profile", authMW, analyses.Profile)

	adm := v1.Group("/candidates", authMW, handlers.RequireAdmin)
	adm.Get("/:id/resume-analyses/latest", analyses.CandidateLatest)
	adm.Get("/:id/resume-analyses", analyses.CandidateHistory)
}
