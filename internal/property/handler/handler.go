package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/service"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
)

const maxPageSize = 100

// propertyInput is the editable part of a listing.
type propertyInput struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Price        float64          `json:"price"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	ZipCode      string           `json:"zipCode"`
	Bedrooms     int              `json:"bedrooms"`
	Bathrooms    int              `json:"bathrooms"`
	AreaSqFt     float64          `json:"areaSqFt"`
	PropertyType string           `json:"propertyType"`
	ListingType  string           `json:"listingType"`
	Status       string           `json:"status"`
	Featured     bool             `json:"featured"`
	Images       []property.Image `json:"images"`
	Amenities    []string         `json:"amenities"`
}

func (in propertyInput) toProperty() *property.Property {
	return &property.Property{
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		AreaSqFt:     in.AreaSqFt,
		PropertyType: in.PropertyType,
		ListingType:  in.ListingType,
		Status:       in.Status,
		Featured:     in.Featured,
		Images:       in.Images,
		Amenities:    in.Amenities,
	}
}

// RegisterPropertyRoutes mounts the public listing reads and the admin
// writes. admin guards every mutating route.
func RegisterPropertyRoutes(r gin.IRouter, svc service.Service, admin gin.HandlerFunc) {
	r.GET("/api/properties", func(c *gin.Context) {
		f, err := parseFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		f.IncludeDeleted = false
		list(c, svc, f)
	})

	r.GET("/api/properties/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "property": p})
	})

	r.GET("/api/admin/properties", admin, func(c *gin.Context) {
		f, err := parseFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		f.IncludeDeleted = c.Query("includeDeleted") == "true"
		list(c, svc, f)
	})

	r.POST("/api/properties", admin, func(c *gin.Context) {
		var in propertyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		p, err := svc.Create(c.Request.Context(), in.toProperty())
		if err != nil {
			writeError(c, err)
			return
		}
		logger.Infof("property %s created", p.ID)
		c.JSON(http.StatusCreated, gin.H{"success": true, "property": p})
	})

	r.PUT("/api/properties/:id", admin, func(c *gin.Context) {
		var in propertyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), in.toProperty())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "property": p})
	})

	r.DELETE("/api/properties/:id", admin, func(c *gin.Context) {
		id := c.Param("id")
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		logger.Infof("property %s deleted", id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func list(c *gin.Context, svc service.Service, f property.Filter) {
	items, err := svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "properties": items, "count": len(items)})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, property.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Property not found"})
	case errors.Is(err, property.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		logger.Errorf("property handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}

type queryError string

func (e queryError) Error() string { return string(e) }

func parseFilter(c *gin.Context) (property.Filter, error) {
	f := property.Filter{
		Status:       c.Query("status"),
		City:         c.Query("city"),
		PropertyType: c.Query("propertyType"),
		ListingType:  c.Query("listingType"),
	}
	var err error
	if f.MinPrice, err = floatQuery(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatQuery(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinBedrooms, err = intQuery(c, "bedrooms"); err != nil {
		return f, err
	}
	if f.Limit, err = intQuery(c, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intQuery(c, "offset"); err != nil {
		return f, err
	}
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if v := c.Query("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, queryError("featured must be true or false")
		}
		f.Featured = &b
	}
	return f, nil
}

func floatQuery(c *gin.Context, name string) (float64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, queryError(name + " must be a non-negative number")
	}
	return n, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, queryError(name + " must be a non-negative integer")
	}
	return n, nil
}
