package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// Services bundles the service layer for handler construction.
type Services struct {
	Simulations   services.SimulationService
	Questions     services.QuestionService
	Assignments   services.AssignmentService
	Sessions      services.SessionService
	Grading       services.GradingService
	VirtualRooms  services.VirtualRoomService
	Results       services.ResultService
	Export        services.ExportService
	Notifications services.NotificationService
	Events        services.NotificationEventService
}

// HandlerManager holds all handler instances and wires them into routes
type HandlerManager struct {
	SimulationHandler   *SimulationHandler
	QuestionHandler     *QuestionHandler
	AssignmentHandler   *AssignmentHandler
	SessionHandler      *SessionHandler
	GradingHandler      *GradingHandler
	VirtualRoomHandler  *VirtualRoomHandler
	ResultHandler       *ResultHandler
	NotificationHandler *NotificationHandler
}

// NewHandlerManager creates handlers for every resource
func NewHandlerManager(svcs Services, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		SimulationHandler:   NewSimulationHandler(svcs.Simulations, logger),
		QuestionHandler:     NewQuestionHandler(svcs.Questions, logger),
		AssignmentHandler:   NewAssignmentHandler(svcs.Assignments, logger),
		SessionHandler:      NewSessionHandler(svcs.Sessions, logger),
		GradingHandler:      NewGradingHandler(svcs.Grading, logger),
		VirtualRoomHandler:  NewVirtualRoomHandler(svcs.VirtualRooms, logger),
		ResultHandler:       NewResultHandler(svcs.Results, svcs.Export, logger),
		NotificationHandler: NewNotificationHandler(svcs.Notifications, svcs.Events, logger),
	}
}

// SetupRoutes configures all API routes. Everything under /api/v1 requires an
// authenticated caller; staff only routes add RequireStaff on top.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authenticate gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "simulation-service"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(authenticate)
	{
		simulations := v1.Group("/simulations")
		{
			simulations.POST("", hm.SimulationHandler.Create)
			simulations.GET("", hm.SimulationHandler.List)
			simulations.GET("/:id", hm.SimulationHandler.GetByID)
			simulations.PUT("/:id", hm.SimulationHandler.Update)
			simulations.DELETE("/:id", hm.SimulationHandler.Delete)
			simulations.POST("/:id/publish", hm.SimulationHandler.Publish)
			simulations.POST("/:id/archive", hm.SimulationHandler.Archive)

			simulations.GET("/:id/questions", hm.SimulationHandler.GetQuestions)
			simulations.POST("/:id/questions", hm.SimulationHandler.AddQuestion)
			simulations.DELETE("/:id/questions/:questionId", hm.SimulationHandler.RemoveQuestion)
			simulations.PUT("/:id/questions/:questionId", hm.SimulationHandler.UpdateQuestionOverride)

			simulations.GET("/:id/access", hm.SessionHandler.CheckAccess)
			simulations.POST("/:id/sessions", hm.SessionHandler.Start)

			simulations.GET("/:id/room", hm.VirtualRoomHandler.GetOpen)

			staff := simulations.Group("", middleware.RequireStaff())
			{
				staff.GET("/:id/stats", hm.SimulationHandler.GetStats)
				staff.GET("/:id/assignments", hm.AssignmentHandler.ListBySimulation)
				staff.GET("/:id/results", hm.ResultHandler.ListBySimulation)
				staff.GET("/:id/results/export", hm.ResultHandler.Export)
				staff.GET("/:id/pending", hm.GradingHandler.ListPending)
				staff.POST("/:id/room", hm.VirtualRoomHandler.Open)
			}
		}

		questions := v1.Group("/questions")
		{
			questions.POST("", hm.QuestionHandler.Create)
			questions.GET("/:id", hm.QuestionHandler.GetByID)
			questions.PUT("/:id", hm.QuestionHandler.Update)
			questions.DELETE("/:id", hm.QuestionHandler.Delete)
		}

		assignments := v1.Group("/assignments")
		{
			assignments.GET("/mine", hm.AssignmentHandler.ListMine)
			assignments.GET("/:id", hm.AssignmentHandler.GetByID)

			staff := assignments.Group("", middleware.RequireStaff())
			{
				staff.POST("", hm.AssignmentHandler.Create)
				staff.PUT("/:id", hm.AssignmentHandler.Update)
				staff.DELETE("/:id", hm.AssignmentHandler.Delete)
				staff.POST("/:id/close", hm.AssignmentHandler.Close)
			}
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id", hm.SessionHandler.GetByID)
			sessions.PUT("/:id/answers", hm.SessionHandler.SaveAnswer)
			sessions.POST("/:id/submit", hm.SessionHandler.Submit)
			sessions.POST("/:id/abandon", hm.SessionHandler.Abandon)
		}

		results := v1.Group("/results")
		{
			results.GET("/mine", hm.ResultHandler.ListMine)
			results.GET("/:id", hm.ResultHandler.GetByID)
			results.PUT("/:id/answers/:questionId/grade", middleware.RequireStaff(), hm.GradingHandler.GradeAnswer)
		}

		rooms := v1.Group("/virtual-rooms", middleware.RequireStaff())
		{
			rooms.POST("/:id/close", hm.VirtualRoomHandler.Close)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.NotificationHandler.ListMine)
			notifications.POST("/:id/read", hm.NotificationHandler.MarkRead)
			notifications.POST("/bulk", middleware.RequireStaff(), hm.NotificationHandler.SendBulk)
		}
	}
}
