package lead

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound = errors.New("lead not found")
	ErrInvalid  = errors.New("invalid lead")
)

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	}
	return false
}

// Lead is an inquiry about a specific listing.
type Lead struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Message       string    `json:"message,omitempty" bson:"message,omitempty"`
	PropertyID    string    `json:"propertyId,omitempty" bson:"propertyId,omitempty"`
	PropertyTitle string    `json:"propertyTitle,omitempty" bson:"propertyTitle,omitempty"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ContactLead is a general contact-form submission.
type ContactLead struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (l *Lead) GetID() string      { return l.ID }
func (l *Lead) SetID(id string)    { l.ID = id }
func (l *Lead) GetStatus() string  { return l.Status }
func (l *Lead) SetStatus(s string) { l.Status = s }
func (l *Lead) Created() time.Time { return l.CreatedAt }
func (l *Lead) Stamp(t time.Time)  { l.CreatedAt, l.UpdatedAt = t, t }
func (l *Lead) Touch(t time.Time)  { l.UpdatedAt = t }

func (c *ContactLead) GetID() string      { return c.ID }
func (c *ContactLead) SetID(id string)    { c.ID = id }
func (c *ContactLead) GetStatus() string  { return c.Status }
func (c *ContactLead) SetStatus(s string) { c.Status = s }
func (c *ContactLead) Created() time.Time { return c.CreatedAt }
func (c *ContactLead) Stamp(t time.Time)  { c.CreatedAt, c.UpdatedAt = t, t }
func (c *ContactLead) Touch(t time.Time)  { c.UpdatedAt = t }

var validate = validator.New()

// checkContact validates the fields every submission carries.
func checkContact(name, email string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrInvalid)
	}
	return nil
}

func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Phone = strings.TrimSpace(l.Phone)
	l.PropertyID = strings.TrimSpace(l.PropertyID)
}

func (l *Lead) Validate() error { return checkContact(l.Name, l.Email) }

func (c *ContactLead) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Subject = strings.TrimSpace(c.Subject)
}

func (c *ContactLead) Validate() error { return checkContact(c.Name, c.Email) }
