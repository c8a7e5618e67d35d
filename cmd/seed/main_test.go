package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property/service"
)

func TestSeed_InsertsValidListings(t *testing.T) {
	svc := service.NewMemoryService(nil)
	ctx := context.Background()

	n, err := seed(ctx, svc, sampleListings())
	require.NoError(t, err)
	require.Equal(t, len(sampleListings()), n)

	all, err := svc.List(ctx, property.Filter{})
	require.NoError(t, err)
	require.Len(t, all, n)

	featured := true
	list, err := svc.List(ctx, property.Filter{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestSeed_StopsOnInvalidListing(t *testing.T) {
	svc := service.NewMemoryService(nil)
	listings := append(sampleListings()[:1], &property.Property{Title: "no price"})

	n, err := seed(context.Background(), svc, listings)
	require.ErrorIs(t, err, property.ErrInvalid)
	require.Equal(t, 1, n)
}
