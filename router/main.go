package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/config"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/handlers"
	academic_handlers "github.com/sahilchouksey/secure-notes-api/handlers/academic"
	admin_handlers "github.com/sahilchouksey/secure-notes-api/handlers/admin"
	auth_handlers "github.com/sahilchouksey/secure-notes-api/handlers/auth"
	student_handlers "github.com/sahilchouksey/secure-notes-api/handlers/student"
	teacher_handlers "github.com/sahilchouksey/secure-notes-api/handlers/teacher"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/services/storage"
	"github.com/sahilchouksey/secure-notes-api/utils/auth"
	"github.com/sahilchouksey/secure-notes-api/utils/cache"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, backend storage.Backend, getEnv *config.EnviornmentVariable) {
	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "secure-notes-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        getEnv.JWT_SECRET,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis cache for brute force protection
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Core services
	accessService := services.NewAccessService(db)
	moduleService := services.NewModuleService(db, accessService)
	noteService := services.NewNoteService(db, accessService, backend)
	deliveryService := services.NewDeliveryService(db, accessService, backend)
	progressService := services.NewProgressService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	academicHandler := academic_handlers.NewAcademicHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db)
	teacherHandler := teacher_handlers.NewTeacherHandler(db, accessService, moduleService, noteService, getEnv.MAX_UPLOAD_MB)
	studentHandler := student_handlers.NewStudentHandler(db, accessService, moduleService, noteService, deliveryService, progressService)

	// Apply security middleware
	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))
	app.Get("/health", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/bootstrap-admin", authHandler.BootstrapAdmin)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.Refresh)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.Profile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Academic hierarchy routes. Listing is open to any authenticated user;
	// mutations are admin-only and audited.
	branches := api.Group("/branches", authMiddleware.Required())
	branches.Get("/", academicHandler.ListBranches)
	branches.Post("/", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "branch_create", "branches"), academicHandler.CreateBranch)
	branches.Put("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "branch_update", "branches"), academicHandler.UpdateBranch)
	branches.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "branch_delete", "branches"), academicHandler.DeleteBranch)

	semesters := api.Group("/semesters", authMiddleware.Required())
	semesters.Get("/", academicHandler.ListSemesters)
	semesters.Post("/", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "semester_create", "semesters"), academicHandler.CreateSemester)
	semesters.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "semester_delete", "semesters"), academicHandler.DeleteSemester)

	sections := api.Group("/sections", authMiddleware.Required())
	sections.Get("/", academicHandler.ListSections)
	sections.Post("/", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "section_create", "sections"), academicHandler.CreateSection)
	sections.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "section_delete", "sections"), academicHandler.DeleteSection)

	subjects := api.Group("/subjects", authMiddleware.Required(), authMiddleware.RequireAdmin())
	subjects.Get("/", academicHandler.ListSubjects)
	subjects.Get("/:id", academicHandler.GetSubject)
	subjects.Post("/", middleware.AdminAuditLog(db, "subject_create", "subjects"), academicHandler.CreateSubject)
	subjects.Put("/:id", middleware.AdminAuditLog(db, "subject_update", "subjects"), academicHandler.UpdateSubject)
	subjects.Delete("/:id", middleware.AdminAuditLog(db, "subject_delete", "subjects"), academicHandler.DeleteSubject)

	// Admin routes
	adminGroup := api.Group("/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	adminGroup.Get("/stats", adminHandler.Stats)
	adminGroup.Get("/audit-logs", adminHandler.ListAuditLogs)

	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/users/:id", adminHandler.GetUser)
	adminGroup.Post("/users", middleware.AdminAuditLog(db, "user_create", "users"), adminHandler.CreateUser)
	adminGroup.Put("/users/:id", middleware.AdminAuditLog(db, "user_update", "users"), adminHandler.UpdateUser)
	adminGroup.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), adminHandler.DeleteUser)

	adminGroup.Get("/subject-assignments", adminHandler.ListSubjectAssignments)
	adminGroup.Post("/subject-assignments", middleware.AdminAuditLog(db, "subject_assignment_create", "subject_assignments"), adminHandler.CreateSubjectAssignment)
	adminGroup.Delete("/subject-assignments/:id", middleware.AdminAuditLog(db, "subject_assignment_delete", "subject_assignments"), adminHandler.DeleteSubjectAssignment)

	adminGroup.Get("/teacher-assignments", adminHandler.ListTeacherAssignments)
	adminGroup.Post("/teacher-assignments", middleware.AdminAuditLog(db, "teacher_assignment_create", "teacher_assignments"), adminHandler.CreateTeacherAssignment)
	adminGroup.Delete("/teacher-assignments/:id", middleware.AdminAuditLog(db, "teacher_assignment_delete", "teacher_assignments"), adminHandler.DeleteTeacherAssignment)

	// Teacher routes. Admins pass the role gate too so they can manage
	// content directly.
	teacherGroup := api.Group("/teacher", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
	teacherGroup.Get("/subjects", teacherHandler.ListSubjects)
	teacherGroup.Get("/subjects/:id", teacherHandler.GetSubject)
	teacherGroup.Get("/subjects/:id/students", teacherHandler.ListStudents)

	teacherGroup.Post("/modules", teacherHandler.CreateModule)
	teacherGroup.Put("/modules/:id", teacherHandler.UpdateModule)
	teacherGroup.Delete("/modules/:id", teacherHandler.DeleteModule)
	teacherGroup.Get("/modules/:id/notes", teacherHandler.ListModuleNotes)

	teacherGroup.Post("/notes", middleware.UploadLimiter(), teacherHandler.UploadNote)
	teacherGroup.Put("/notes/:id", teacherHandler.UpdateNote)
	teacherGroup.Delete("/notes/:id", teacherHandler.DeleteNote)
	teacherGroup.Get("/notes/search", teacherHandler.SearchNotes)

	// Student routes
	studentGroup := api.Group("/student", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent))
	studentGroup.Get("/subjects", studentHandler.ListSubjects)
	studentGroup.Get("/subjects/:id", studentHandler.GetSubject)
	studentGroup.Get("/modules/:id/notes", studentHandler.ListModuleNotes)
	studentGroup.Get("/notes/search", studentHandler.SearchNotes)
	studentGroup.Get("/notes/:id/view", studentHandler.ViewNote)
	studentGroup.Post("/notes/:id/complete", studentHandler.CompleteNote)
	studentGroup.Get("/progress", studentHandler.ProgressSummary)
	studentGroup.Get("/recent", studentHandler.RecentNotes)
}
