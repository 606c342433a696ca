package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/constants"
	"github.com/yukikurage/task-scheduler/internal/middleware"
	"github.com/yukikurage/task-scheduler/internal/services"
)

// Dependencies wires the services into the router
type Dependencies struct {
	Users          *services.UserService
	Resources      *services.ResourceService
	Tasks          *services.TaskService
	Ping           func(context.Context) error
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with middleware and all API routes
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(deps.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AddAllowHeaders(constants.HeaderRequestID)
	corsConfig.AddExposeHeaders(constants.HeaderRequestID)
	r.Use(cors.New(corsConfig))

	userHandler := NewUserHandler(deps.Users)
	resourceHandler := NewResourceHandler(deps.Resources)
	taskHandler := NewTaskHandler(deps.Tasks)
	healthHandler := NewHealthHandler(deps.Ping)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)

			user := users.Group("/:id", middleware.LoadUser(deps.Users))
			user.GET("", userHandler.GetUser)
			user.PATCH("", userHandler.UpdateUser)
			user.DELETE("", userHandler.DeleteUser)
			user.GET("/tasks", userHandler.ListAssignedTasks)
			user.GET("/created-tasks", userHandler.ListCreatedTasks)
		}

		resources := api.Group("/resources")
		{
			resources.POST("", resourceHandler.CreateResource)
			resources.GET("", resourceHandler.ListResources)

			resource := resources.Group("/:id", middleware.LoadResource(deps.Resources))
			resource.GET("", resourceHandler.GetResource)
			resource.PATCH("", resourceHandler.UpdateResource)
			resource.POST("/deactivate", resourceHandler.DeactivateResource)
			resource.DELETE("", resourceHandler.DeleteResource)
			resource.GET("/tasks", resourceHandler.ListTasks)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)

			task := tasks.Group("/:id", middleware.LoadTask(deps.Tasks))
			task.GET("", taskHandler.GetTask)
			task.PATCH("", taskHandler.UpdateTask)
			task.DELETE("", taskHandler.DeleteTask)
			task.GET("/users", taskHandler.ListUsers)
			task.POST("/users", taskHandler.AssignUsers)
			task.DELETE("/users/:user_id", taskHandler.UnassignUser)
			task.GET("/resources", taskHandler.ListResources)
			task.POST("/resources", taskHandler.AssignResources)
			task.DELETE("/resources/:resource_id", taskHandler.UnassignResource)
		}
	}

	return r
}
