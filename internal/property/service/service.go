package service

import (
	"context"

	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/repository"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/storage"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// ImageStore removes hosted images that no listing references any more.
type ImageStore interface {
	DeleteFile(ctx context.Context, key string) error
}

// Service defines the listing operations used by the handler layer.
type Service interface {
	Create(ctx context.Context, p *property.Property) (*property.Property, error)
	Get(ctx context.Context, id string) (*property.Property, error)
	List(ctx context.Context, f property.Filter) ([]*property.Property, error)
	Update(ctx context.Context, id string, p *property.Property) (*property.Property, error)
	Delete(ctx context.Context, id string) error
}

// NewService returns a Service over repo. images may be nil when no object
// store is configured.
func NewService(repo repository.Repository, images ImageStore) Service {
	return &service{repo: repo, images: images}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(images ImageStore) Service {
	return NewService(repository.NewMemoryRepo(), images)
}

// NewMongoService returns a Service backed by a MongoDB collection.
func NewMongoService(col *mongo.Collection, images ImageStore) Service {
	return NewService(repository.NewMongoRepo(col), images)
}

type service struct {
	repo   repository.Repository
	images ImageStore
}

func (s *service) Create(ctx context.Context, p *property.Property) (*property.Property, error) {
	p.ID = ""
	p.IsDeleted = false
	p.DeletedAt = nil
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*property.Property, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, f property.Filter) ([]*property.Property, error) {
	return s.repo.List(ctx, f)
}

// Update replaces the editable fields of a live listing. Images dropped by
// the update are removed from storage.
func (s *service) Update(ctx context.Context, id string, p *property.Property) (*property.Property, error) {
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.removeImages(ctx, id, droppedImages(prev.Images, p.Images))
	return p, nil
}

// Delete soft-deletes the listing, then removes its hosted images.
func (s *service) Delete(ctx context.Context, id string) error {
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.removeImages(ctx, id, prev.Images)
	return nil
}

func (s *service) removeImages(ctx context.Context, id string, imgs []property.Image) {
	if s.images == nil {
		return
	}
	for _, img := range imgs {
		if img.Key == "" {
			continue
		}
		// rows written before keys were validated may still carry foreign keys
		if !storage.ValidKey(img.Key) {
			logger.Warnf("property %s: skipping image with foreign key %q", id, img.Key)
			continue
		}
		if err := s.images.DeleteFile(ctx, img.Key); err != nil {
			logger.Warnf("property %s: removing image %s: %v", id, img.Key, err)
		}
	}
}

func droppedImages(before, after []property.Image) []property.Image {
	kept := make(map[string]struct{}, len(after))
	for _, img := range after {
		kept[img.Key] = struct{}{}
	}
	var out []property.Image
	for _, img := range before {
		if _, ok := kept[img.Key]; !ok {
			out = append(out, img)
		}
	}
	return out
}
