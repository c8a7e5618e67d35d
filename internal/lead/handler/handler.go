package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead/service"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
)

type leadInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId"`
}

type contactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type statusInput struct {
	Status string `json:"status"`
}

// RegisterLeadRoutes mounts the public submission endpoints and the admin
// review endpoints. admin guards the review endpoints.
func RegisterLeadRoutes(r gin.IRouter, svc *service.Service, admin gin.HandlerFunc) {
	r.POST("/api/leads", func(c *gin.Context) {
		var in leadInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		l, err := svc.SubmitLead(c.Request.Context(), &lead.Lead{
			Name: in.Name, Email: in.Email, Phone: in.Phone, Message: in.Message, PropertyID: in.PropertyID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": l.ID})
	})

	r.POST("/api/contact", func(c *gin.Context) {
		var in contactInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		cl, err := svc.SubmitContact(c.Request.Context(), &lead.ContactLead{
			Name: in.Name, Email: in.Email, Phone: in.Phone, Subject: in.Subject, Message: in.Message,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": cl.ID})
	})

	r.GET("/api/leads", admin, func(c *gin.Context) {
		status, ok := statusQuery(c)
		if !ok {
			return
		}
		items, err := svc.ListLeads(c.Request.Context(), status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "leads": items, "count": len(items)})
	})

	r.GET("/api/contact-leads", admin, func(c *gin.Context) {
		status, ok := statusQuery(c)
		if !ok {
			return
		}
		items, err := svc.ListContacts(c.Request.Context(), status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "contactLeads": items, "count": len(items)})
	})

	r.GET("/api/leads/:id", admin, func(c *gin.Context) {
		l, err := svc.GetLead(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "lead": l})
	})

	r.GET("/api/contact-leads/:id", admin, func(c *gin.Context) {
		cl, err := svc.GetContact(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "contactLead": cl})
	})

	r.PATCH("/api/leads/:id", admin, func(c *gin.Context) {
		var in statusInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		l, err := svc.SetLeadStatus(c.Request.Context(), c.Param("id"), in.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "lead": l})
	})

	r.PATCH("/api/contact-leads/:id", admin, func(c *gin.Context) {
		var in statusInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		cl, err := svc.SetContactStatus(c.Request.Context(), c.Param("id"), in.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "contactLead": cl})
	})

	r.DELETE("/api/leads/:id", admin, func(c *gin.Context) {
		if err := svc.DeleteLead(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.DELETE("/api/contact-leads/:id", admin, func(c *gin.Context) {
		if err := svc.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func statusQuery(c *gin.Context) (string, bool) {
	status := c.Query("status")
	if status != "" && !lead.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be new, contacted or closed"})
		return "", false
	}
	return status, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lead.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Lead not found"})
	case errors.Is(err, lead.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		logger.Errorf("lead handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
