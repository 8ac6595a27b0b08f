package http

import "github.com/gin-gonic/gin"

// Register attaches tracker routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.GET("", h.listClients)
		clients.POST("", h.createClient)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.updateClient)
		clients.DELETE("/:id", h.deleteClient)
		clients.GET("/:id/projects", h.clientProjects)
	}

	projects := rg.Group("/projects")
	{
		projects.GET("", h.listProjects)
		projects.POST("", h.createProject)
		projects.GET("/:id", h.getProject)
		projects.PUT("/:id", h.updateProject)
		projects.DELETE("/:id", h.deleteProject)
		projects.GET("/:id/tasks", h.projectTasks)
	}

	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.listTasks)
		tasks.POST("", h.createTask)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}

	entries := rg.Group("/time-entries")
	{
		entries.GET("", h.listTimeEntries)
		entries.POST("", h.createTimeEntry)
		entries.GET("/:id", h.getTimeEntry)
		entries.PUT("/:id", h.updateTimeEntry)
		entries.DELETE("/:id", h.deleteTimeEntry)
	}

	settings := rg.Group("/settings")
	{
		settings.GET("", h.getSettings)
		settings.GET("/:key", h.getSetting)
		settings.PUT("/:key", h.setSetting)
		settings.DELETE("/:key", h.deleteSetting)
	}

	rg.GET("/data", h.allData)

	sheets := rg.Group("/sheets")
	{
		sheets.GET("/info", h.spreadsheetInfo)
		sheets.GET("/verify", h.verifyIntegrity)
		sheets.POST("/verify", h.verifyIntegrity)
		sheets.GET("/overview", h.dataOverview)
	}
}
