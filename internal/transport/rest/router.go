package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/docportal-access/internal/assignment"
	"github.com/frahmantamala/docportal-access/internal/audit"
	"github.com/frahmantamala/docportal-access/internal/auth"
	"github.com/frahmantamala/docportal-access/internal/category"
	"github.com/frahmantamala/docportal-access/internal/department"
	"github.com/frahmantamala/docportal-access/internal/grant"
	"github.com/frahmantamala/docportal-access/internal/permission"
	"github.com/frahmantamala/docportal-access/internal/report"
	"github.com/frahmantamala/docportal-access/internal/template"
	"github.com/frahmantamala/docportal-access/internal/transport/middleware"
	"github.com/frahmantamala/docportal-access/internal/user"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	Permission  *permission.Handler
	Grant       *grant.Handler
	Template    *template.Handler
	Assignment  *assignment.Handler
	Report      *report.Handler
	Audit       *audit.Handler
	User        *user.Handler
	Category    *category.Handler
	Department  *department.Handler
	AuthGateway *auth.Middleware
	Authorizer  *auth.Authorizer
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.AuthGateway.RequireAuth)

			managePermissions := handlers.Authorizer.RequirePermission("users.manage_permissions")
			manageTemplates := handlers.Authorizer.RequirePermission("system.manage_templates")
			assignUsers := handlers.Authorizer.RequirePermission("departments.assign_users")
			viewLogs := handlers.Authorizer.RequirePermission("system.view_logs")

			pr.Route("/permissions", func(pmr chi.Router) {
				// Self-service resolution queries.
				pmr.Get("/available", handlers.Permission.GetAvailablePermissions)
				pmr.Get("/user", handlers.Permission.GetMyPermissions)
				pmr.Get("/check", handlers.Permission.CheckPermission)
				pmr.Get("/documents/{id}", handlers.Permission.GetDocumentPermissions)

				// Administrative surface.
				pmr.Group(func(mr chi.Router) {
					mr.Use(managePermissions)
					mr.Get("/", handlers.Grant.GetAllPermissions)
					mr.Post("/", handlers.Grant.GrantPermission)
					mr.Delete("/{id}", handlers.Grant.RevokePermission)
					mr.Get("/report", handlers.Report.GetPermissionReport)
					mr.Get("/{entityType}/{entityID}", handlers.Grant.GetEntityPermissions)
				})

				pmr.Group(func(ar chi.Router) {
					ar.Use(viewLogs)
					ar.Get("/audit", handlers.Audit.GetAuditLog)
				})
			})

			pr.Route("/permission-templates", func(tr chi.Router) {
				tr.Use(manageTemplates)
				tr.Get("/", handlers.Template.ListTemplates)
				tr.Post("/", handlers.Template.CreateTemplate)
				tr.Get("/{id}", handlers.Template.GetTemplate)
				tr.Patch("/{id}", handlers.Template.UpdateTemplate)
				tr.Delete("/{id}", handlers.Template.DeleteTemplate)
				tr.Post("/{id}/apply", handlers.Template.ApplyTemplate)
			})

			pr.Route("/assignments", func(asr chi.Router) {
				asr.Use(assignUsers)
				asr.Get("/", handlers.Assignment.ListAssignments)
				asr.Post("/", handlers.Assignment.CreateAssignment)
				asr.Get("/{id}", handlers.Assignment.GetAssignment)
				asr.Patch("/{id}", handlers.Assignment.UpdateAssignment)
				asr.Post("/{id}/end", handlers.Assignment.EndAssignment)
			})

			pr.Group(func(er chi.Router) {
				er.Use(assignUsers)
				er.Get("/employees/available", handlers.User.GetAvailableEmployees)
			})

			pr.Get("/users/{id}", handlers.User.GetUser)

			pr.Route("/categories", func(cr chi.Router) {
				cr.Get("/", handlers.Category.ListCategories)
				cr.Get("/accessible", handlers.Permission.GetAccessibleCategories)
				cr.Get("/{id}", handlers.Category.GetCategory)
			})

			pr.Route("/departments", func(dr chi.Router) {
				dr.Get("/", handlers.Department.ListDepartments)
				dr.Get("/{id}", handlers.Department.GetDepartment)
			})
		})
	})
}
