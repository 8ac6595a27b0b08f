package http

import (
	"github.com/gin-gonic/gin"

	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

func (h *Handler) getSettings(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	settings, err := svc.GetSettings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, settings)
}

func (h *Handler) getSetting(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	value, err := svc.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, gin.H{"key": c.Param("key"), "value": value})
}

type setSettingReq struct {
	Value any `json:"value"`
}

func (h *Handler) setSetting(c *gin.Context) {
	var req setSettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	key := c.Param("key")
	if err := svc.SetSetting(c.Request.Context(), key, req.Value); err != nil {
		fail(c, err)
		return
	}
	respond(c, gin.H{"key": key, "value": req.Value})
}

func (h *Handler) deleteSetting(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := svc.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	respond(c, nil)
}

// allData returns every collection in one payload, fetched sequentially so a
// dashboard load does not burn four concurrent slots of the rate budget.
func (h *Handler) allData(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	clients, err := svc.GetClients(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	projects, err := svc.GetProjects(ctx, "")
	if err != nil {
		fail(c, err)
		return
	}
	tasks, err := svc.GetTasks(ctx, "")
	if err != nil {
		fail(c, err)
		return
	}
	entries, err := svc.GetTimeEntries(ctx, domain.TimeEntryFilter{Limit: 1000})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, gin.H{
		"clients":     clients,
		"projects":    projects,
		"tasks":       tasks,
		"timeEntries": entries,
	})
}

func (h *Handler) spreadsheetInfo(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	info, err := svc.GetSpreadsheetInfo(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, info)
}

func (h *Handler) verifyIntegrity(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	report, err := svc.VerifyIntegrity(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, report)
}

func (h *Handler) dataOverview(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	overview, err := svc.GetDataOverview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, overview)
}
