package http

import (
	"github.com/gin-gonic/gin"

	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

func (h *Handler) listClients(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	clients, err := svc.GetClients(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, clients)
}

func (h *Handler) getClient(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	client, err := svc.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, client)
}

func (h *Handler) createClient(c *gin.Context) {
	var form domain.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	client, err := svc.CreateClient(c.Request.Context(), form)
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	var patch domain.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	client, err := svc.UpdateClient(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, client)
}

func (h *Handler) deleteClient(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := svc.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, nil)
}

func (h *Handler) clientProjects(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	bundle, err := svc.GetClientWithProjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, bundle)
}

func (h *Handler) listProjects(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	projects, err := svc.GetProjects(c.Request.Context(), c.Query("clientId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, projects)
}

func (h *Handler) getProject(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	project, err := svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, project)
}

func (h *Handler) createProject(c *gin.Context) {
	var form domain.ProjectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	project, err := svc.CreateProject(c.Request.Context(), form)
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, project)
}

func (h *Handler) updateProject(c *gin.Context) {
	var patch domain.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	project, err := svc.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, project)
}

func (h *Handler) deleteProject(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, nil)
}

func (h *Handler) projectTasks(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	bundle, err := svc.GetProjectWithTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, bundle)
}

func (h *Handler) listTasks(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	tasks, err := svc.GetTasks(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, tasks)
}

func (h *Handler) getTask(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	task, err := svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, task)
}

func (h *Handler) createTask(c *gin.Context) {
	var form domain.TaskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	task, err := svc.CreateTask(c.Request.Context(), form)
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, task)
}

func (h *Handler) updateTask(c *gin.Context) {
	var patch domain.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	task, err := svc.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, task)
}

func (h *Handler) deleteTask(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := svc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, nil)
}
