package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

func invalidBody(err error) error {
	return apperr.Wrap(apperr.ValidationFailed, "Invalid request body", err)
}

func parseFilter(c *gin.Context) domain.TimeEntryFilter {
	filter := domain.TimeEntryFilter{
		ClientID:  c.Query("clientId"),
		ProjectID: c.Query("projectId"),
		TaskID:    c.Query("taskId"),
	}
	if raw := c.Query("startDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.Start = &t
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.End = &t
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Page = n
		}
	}
	return filter
}

func (h *Handler) listTimeEntries(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	entries, err := svc.GetTimeEntries(c.Request.Context(), parseFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, entries)
}

func (h *Handler) getTimeEntry(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	entry, err := svc.GetTimeEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, entry)
}

func (h *Handler) createTimeEntry(c *gin.Context) {
	var form domain.TimeEntryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	entry, err := svc.CreateTimeEntry(c.Request.Context(), form)
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, entry)
}

func (h *Handler) updateTimeEntry(c *gin.Context) {
	var patch domain.TimeEntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, invalidBody(err))
		return
	}
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	entry, err := svc.UpdateTimeEntry(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, entry)
}

func (h *Handler) deleteTimeEntry(c *gin.Context) {
	svc, err := h.factory(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := svc.DeleteTimeEntry(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, nil)
}
