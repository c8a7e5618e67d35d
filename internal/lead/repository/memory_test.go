package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead"
)

func TestMemoryRepo_Leads(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo[lead.Lead]()

	a := &lead.Lead{Name: "Asha", Email: "asha@example.com", PropertyID: "p1"}
	require.NoError(t, r.Create(ctx, a))
	require.NotEmpty(t, a.ID)
	require.Equal(t, lead.StatusNew, a.Status)
	require.False(t, a.CreatedAt.IsZero())

	b := &lead.Lead{Name: "Bala", Email: "bala@example.com"}
	require.NoError(t, r.Create(ctx, b))

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, b.ID, all[0].ID)

	upd, err := r.SetStatus(ctx, a.ID, lead.StatusContacted)
	require.NoError(t, err)
	require.Equal(t, lead.StatusContacted, upd.Status)
	require.False(t, upd.UpdatedAt.Before(upd.CreatedAt))

	contacted, _ := r.List(ctx, lead.StatusContacted)
	require.Len(t, contacted, 1)
	require.Equal(t, a.ID, contacted[0].ID)

	require.NoError(t, r.Delete(ctx, a.ID))
	_, err = r.Get(ctx, a.ID)
	require.ErrorIs(t, err, lead.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, a.ID), lead.ErrNotFound)
	_, err = r.SetStatus(ctx, a.ID, lead.StatusClosed)
	require.ErrorIs(t, err, lead.ErrNotFound)
}

func TestMemoryRepo_ContactLeadsAreCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo[lead.ContactLead]()
	c := &lead.ContactLead{Name: "C", Email: "c@example.com", Subject: "Visit"}
	require.NoError(t, r.Create(ctx, c))

	c.Subject = "changed after create"
	got, err := r.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Visit", got.Subject)

	got.Status = lead.StatusClosed
	again, _ := r.Get(ctx, c.ID)
	require.Equal(t, lead.StatusNew, again.Status)
}
