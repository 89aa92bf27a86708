package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/itsabhishekkr/resuma-score/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
	resumes *handlers.ResumeHandler,
	interviews *handlers.InterviewHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)

	// Recruiter-facing resume analysis (JWT-protected)
	r := v1.Group("/resumes", authMW)
	r.Post("/upload", resumes.Upload)
	r.Get("/qualified", resumes.ListQualified)
	r.Post("/rewrite", resumes.Rewrite)
	r.Get("/", resumes.List)
	r.Get("/:id", resumes.Get)
	r.Post("/:id/tailor", resumes.Tailor)

	// Candidate-facing interview flow; the session token is the only auth.
	pub := api.Group("/public/interview")
	pub.Get("/:token", interviews.GetSession)
	pub.Post("/:token/start", interviews.Start)
	pub.Post("/:token/answer", interviews.Answer)
}
