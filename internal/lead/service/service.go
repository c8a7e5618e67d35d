package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead/repository"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/mailer"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

const notifyTimeout = 10 * time.Second

// PropertyLookup resolves the listing a lead asks about.
type PropertyLookup interface {
	Get(ctx context.Context, id string) (*property.Property, error)
}

// Service records inquiries and notifies the brokerage inbox.
type Service struct {
	leads      repository.Repository[lead.Lead]
	contacts   repository.Repository[lead.ContactLead]
	properties PropertyLookup
	mail       mailer.Sender
	notifyTo   string
}

// New wires the service. properties may be nil, in which case property ids
// are stored unchecked. mail may be nil to skip notifications.
func New(leads repository.Repository[lead.Lead], contacts repository.Repository[lead.ContactLead], properties PropertyLookup, mail mailer.Sender, notifyTo string) *Service {
	return &Service{leads: leads, contacts: contacts, properties: properties, mail: mail, notifyTo: notifyTo}
}

// NewMemoryService returns a Service backed by in-memory repositories.
func NewMemoryService(properties PropertyLookup, mail mailer.Sender, notifyTo string) *Service {
	return New(repository.NewMemoryRepo[lead.Lead](), repository.NewMemoryRepo[lead.ContactLead](), properties, mail, notifyTo)
}

// NewMongoService returns a Service backed by the leads and contact_leads collections.
func NewMongoService(db *mongo.Database, properties PropertyLookup, mail mailer.Sender, notifyTo string) *Service {
	return New(
		repository.NewMongoRepo[lead.Lead](db.Collection(repository.LeadsCollection)),
		repository.NewMongoRepo[lead.ContactLead](db.Collection(repository.ContactLeadsCollection)),
		properties, mail, notifyTo,
	)
}

// SubmitLead records a property inquiry. An unknown or deleted property id is
// rejected with lead.ErrInvalid.
func (s *Service) SubmitLead(ctx context.Context, l *lead.Lead) (*lead.Lead, error) {
	l.ID = ""
	l.Status = lead.StatusNew
	l.PropertyTitle = ""
	l.Normalize()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.PropertyID != "" && s.properties != nil {
		p, err := s.properties.Get(ctx, l.PropertyID)
		if err != nil {
			if errors.Is(err, property.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown property", lead.ErrInvalid)
			}
			return nil, err
		}
		l.PropertyTitle = p.Title
	}
	if err := s.leads.Create(ctx, l); err != nil {
		return nil, err
	}
	metrics.LeadsSubmitted.WithLabelValues("property").Inc()

	subject := "New property inquiry from " + l.Name
	if l.PropertyTitle != "" {
		subject = "New inquiry: " + l.PropertyTitle
	}
	s.notify(ctx, subject, mailer.Notification{
		Heading: "New property inquiry",
		Fields: []mailer.Field{
			{Label: "Name", Value: l.Name},
			{Label: "Email", Value: l.Email},
			{Label: "Phone", Value: l.Phone},
			{Label: "Property", Value: l.PropertyTitle},
			{Label: "Property ID", Value: l.PropertyID},
			{Label: "Message", Value: l.Message},
		},
	})
	return l, nil
}

// SubmitContact records a contact-form submission.
func (s *Service) SubmitContact(ctx context.Context, c *lead.ContactLead) (*lead.ContactLead, error) {
	c.ID = ""
	c.Status = lead.StatusNew
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	metrics.LeadsSubmitted.WithLabelValues("contact").Inc()

	subject := "New contact message from " + c.Name
	if c.Subject != "" {
		subject = "Contact: " + c.Subject
	}
	s.notify(ctx, subject, mailer.Notification{
		Heading: "New contact form submission",
		Fields: []mailer.Field{
			{Label: "Name", Value: c.Name},
			{Label: "Email", Value: c.Email},
			{Label: "Phone", Value: c.Phone},
			{Label: "Subject", Value: c.Subject},
			{Label: "Message", Value: c.Message},
		},
	})
	return c, nil
}

// notify sends the inbox alert. Failures are logged and counted only; the
// submission is already stored.
func (s *Service) notify(ctx context.Context, subject string, n mailer.Notification) {
	if s.mail == nil || s.notifyTo == "" {
		return
	}
	body, err := n.Render()
	if err != nil {
		logger.Errorf("lead notify: render: %v", err)
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.mail.Send(ctx, mailer.Message{To: s.notifyTo, Subject: subject, HTML: body}); err != nil {
		logger.Errorf("lead notify: send: %v", err)
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()
}

func (s *Service) ListLeads(ctx context.Context, status string) ([]*lead.Lead, error) {
	return s.leads.List(ctx, status)
}

func (s *Service) ListContacts(ctx context.Context, status string) ([]*lead.ContactLead, error) {
	return s.contacts.List(ctx, status)
}

func (s *Service) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	return s.leads.Get(ctx, id)
}

func (s *Service) GetContact(ctx context.Context, id string) (*lead.ContactLead, error) {
	return s.contacts.Get(ctx, id)
}

func (s *Service) SetLeadStatus(ctx context.Context, id, status string) (*lead.Lead, error) {
	if !lead.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status must be new, contacted or closed", lead.ErrInvalid)
	}
	return s.leads.SetStatus(ctx, id, status)
}

func (s *Service) SetContactStatus(ctx context.Context, id, status string) (*lead.ContactLead, error) {
	if !lead.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status must be new, contacted or closed", lead.ErrInvalid)
	}
	return s.contacts.SetStatus(ctx, id, status)
}

func (s *Service) DeleteLead(ctx context.Context, id string) error {
	return s.leads.Delete(ctx, id)
}

func (s *Service) DeleteContact(ctx context.Context, id string) error {
	return s.contacts.Delete(ctx, id)
}
