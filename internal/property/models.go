package property

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/storage"
)

var (
	ErrNotFound = errors.New("property not found")
	ErrInvalid  = errors.New("invalid property")
)

const (
	ListingSale = "sale"
	ListingRent = "rent"

	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusSold      = "sold"
)

// Image is a hosted picture; Key addresses it in object storage.
type Image struct {
	URL string `json:"url" bson:"url"`
	Key string `json:"key,omitempty" bson:"key,omitempty"`
}

// Property is a listing. Deleted listings keep their record with IsDeleted set.
type Property struct {
	ID           string     `json:"id" bson:"_id"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description" bson:"description"`
	Price        float64    `json:"price" bson:"price"`
	Address      string     `json:"address" bson:"address"`
	City         string     `json:"city" bson:"city"`
	State        string     `json:"state" bson:"state"`
	ZipCode      string     `json:"zipCode" bson:"zipCode"`
	Bedrooms     int        `json:"bedrooms" bson:"bedrooms"`
	Bathrooms    int        `json:"bathrooms" bson:"bathrooms"`
	AreaSqFt     float64    `json:"areaSqFt" bson:"areaSqFt"`
	PropertyType string     `json:"propertyType" bson:"propertyType"`
	ListingType  string     `json:"listingType" bson:"listingType"`
	Status       string     `json:"status" bson:"status"`
	Featured     bool       `json:"featured" bson:"featured"`
	Images       []Image    `json:"images" bson:"images"`
	Amenities    []string   `json:"amenities" bson:"amenities"`
	IsDeleted    bool       `json:"isDeleted" bson:"isDeleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Filter selects listings. Zero values mean "any".
type Filter struct {
	Status         string
	City           string
	PropertyType   string
	ListingType    string
	MinPrice       float64
	MaxPrice       float64
	MinBedrooms    int
	Featured       *bool
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Normalize trims text fields and applies the default status.
func (p *Property) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.City = strings.TrimSpace(p.City)
	p.ListingType = strings.ToLower(strings.TrimSpace(p.ListingType))
	p.Status = strings.ToLower(strings.TrimSpace(p.Status))
	if p.Status == "" {
		p.Status = StatusAvailable
	}
	if p.ListingType == "" {
		p.ListingType = ListingSale
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
}

// Validate checks the fields a listing cannot be saved without.
func (p *Property) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalid)
	}
	switch p.ListingType {
	case ListingSale, ListingRent:
	default:
		return fmt.Errorf("%w: listingType must be sale or rent", ErrInvalid)
	}
	switch p.Status {
	case StatusAvailable, StatusPending, StatusSold:
	default:
		return fmt.Errorf("%w: status must be available, pending or sold", ErrInvalid)
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.AreaSqFt < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalid)
	}
	// image keys are later handed to DeleteFile
	for _, img := range p.Images {
		if img.Key != "" && !storage.ValidKey(img.Key) {
			return fmt.Errorf("%w: image key %q is not an upload key", ErrInvalid, img.Key)
		}
	}
	return nil
}

// Matches reports whether p satisfies f, ignoring paging.
func (f Filter) Matches(p *Property) bool {
	if p.IsDeleted && !f.IncludeDeleted {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.City != "" && !strings.EqualFold(p.City, f.City) {
		return false
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.ListingType != "" && p.ListingType != f.ListingType {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinBedrooms > 0 && p.Bedrooms < f.MinBedrooms {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	return true
}
