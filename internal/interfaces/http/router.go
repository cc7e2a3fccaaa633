package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/crm-pro/internal/application/account"
	"github.com/tu-usuario/crm-pro/internal/application/auth"
	"github.com/tu-usuario/crm-pro/internal/application/crm"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions    *auth.SessionStore
	SessionRepo repository.SessionRepository
	AccountUC   *account.UseCase
	ClientUC    *crm.ClientUseCase
	ProjectUC   *crm.ProjectUseCase
	TaskUC      *crm.TaskUseCase
	InvoiceUC   *crm.InvoiceUseCase
	ProposalUC  *crm.ProposalUseCase
	TimeEntryUC *crm.TimeEntryUseCase
	LeadUC      *crm.LeadUseCase
	DashboardUC *crm.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Sessions)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/signin", authHandler.SignIn)
	authGroup.Get("/session", authHandler.Session)

	// Rutas protegidas (requieren Bearer Token con sesión vigente)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.SessionRepo))
	protected.Post("/auth/signout", authHandler.SignOut)

	// Perfil y miembros (protegido, sin exigir organización)
	profileHandler := NewProfileHandler(deps.AccountUC)
	protected.Get("/me", profileHandler.Me)
	protected.Put("/me", profileHandler.UpdateMe)

	// Organizaciones
	orgHandler := NewOrganizationHandler(deps.AccountUC)
	protected.Post("/organizations", orgHandler.Create)
	protected.Put("/organizations/:id/status", RequireSuperAdmin(), orgHandler.UpdateStatus)

	// Rutas con organización activa (CRM)
	scoped := protected.Group("/", RequireActiveTenant(deps.AccountUC))

	scoped.Get("/members", profileHandler.ListMembers)
	scoped.Patch("/members/:id/role", RequireAdmin(), profileHandler.UpdateMemberRole)

	scoped.Get("/organization", orgHandler.Get)
	scoped.Put("/organization", RequireAdmin(), orgHandler.Update)

	// Clients
	clients := scoped.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Projects
	projects := scoped.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Get("/", projectHandler.List)
	projects.Post("/", projectHandler.Create)
	projects.Get("/:id", projectHandler.Get)
	projects.Put("/:id", projectHandler.Update)
	projects.Delete("/:id", projectHandler.Delete)

	// Tasks y subtareas
	tasks := scoped.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Patch("/:id/status", taskHandler.UpdateStatus)
	tasks.Delete("/:id", taskHandler.Delete)
	tasks.Post("/:id/subtasks", taskHandler.CreateSubtask)

	subtasks := scoped.Group("/subtasks")
	subtasks.Put("/:id", taskHandler.UpdateSubtask)
	subtasks.Patch("/:id/status", taskHandler.UpdateSubtaskStatus)
	subtasks.Delete("/:id", taskHandler.DeleteSubtask)

	// Invoices
	invoices := scoped.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.ExportPDF)
	invoices.Get("/:id/xml", invoiceHandler.ExportXML)

	// Proposals
	proposals := scoped.Group("/proposals")
	proposalHandler := NewProposalHandler(deps.ProposalUC)
	proposals.Get("/", proposalHandler.List)
	proposals.Post("/", proposalHandler.Create)
	proposals.Put("/:id", proposalHandler.Update)
	proposals.Delete("/:id", proposalHandler.Delete)

	// Time entries
	timeEntries := scoped.Group("/time-entries")
	timeEntryHandler := NewTimeEntryHandler(deps.TimeEntryUC)
	timeEntries.Get("/", timeEntryHandler.List)
	timeEntries.Post("/", timeEntryHandler.Create)
	timeEntries.Put("/:id", timeEntryHandler.Update)
	timeEntries.Delete("/:id", timeEntryHandler.Delete)

	// Leads
	leads := scoped.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Put("/:id", leadHandler.Update)
	leads.Delete("/:id", leadHandler.Delete)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	scoped.Get("/dashboard", dashboardHandler.Get)
}
