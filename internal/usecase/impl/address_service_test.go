package impl

import (
	"testing"

	domainerrors "greenhood/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressService_ResolveOrCreateIsIdempotent(t *testing.T) {
	h := newHarness(t)
	tuple := h.store.Localities[0].Tuple(12, 3, 7)

	first, err := h.addresses.ResolveOrCreate(h.ctx, tuple)
	require.NoError(t, err)
	second, err := h.addresses.ResolveOrCreate(h.ctx, tuple)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	tuple.DoorNo = 8
	third, err := h.addresses.ResolveOrCreate(h.ctx, tuple)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)

	var count int64
	require.NoError(t, h.store.DB.Table("addresses").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAddressService_RejectsIncompleteTuple(t *testing.T) {
	h := newHarness(t)

	tuple := h.store.Localities[0].Tuple(1, 0, 0)
	tuple.StreetID = 0
	_, err := h.addresses.ResolveOrCreate(h.ctx, tuple)
	assertFailure(t, err, domainerrors.KeyInvalidAddress)

	tuple = h.store.Localities[0].Tuple(1, -1, 0)
	_, err = h.addresses.ResolveOrCreate(h.ctx, tuple)
	assertFailure(t, err, domainerrors.KeyInvalidAddress)
}

func TestAddressService_LocalitiesAndText(t *testing.T) {
	h := newHarness(t)
	locality := h.store.Localities[1]

	provinces, err := h.addresses.Provinces(h.ctx)
	require.NoError(t, err)
	require.Len(t, provinces, 1)
	assert.Equal(t, "Ankara", provinces[0].Name)

	districts, err := h.addresses.Districts(h.ctx, locality.ProvinceID)
	require.NoError(t, err)
	require.Len(t, districts, 1)

	neighborhoods, err := h.addresses.Neighborhoods(h.ctx, locality.DistrictID)
	require.NoError(t, err)
	require.Len(t, neighborhoods, 2)
	assert.Equal(t, "Bahçelievler", neighborhoods[0].Name)

	streets, err := h.addresses.Streets(h.ctx, locality.NeighborhoodID)
	require.NoError(t, err)
	require.Len(t, streets, 1)
	assert.Equal(t, "Bahçelievler Caddesi", streets[0].Name)

	id, err := h.addresses.ResolveOrCreate(h.ctx, locality.Tuple(4, 2, 0))
	require.NoError(t, err)
	text, err := h.addresses.AddressText(h.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bahçelievler Mah. Bahçelievler Caddesi Sok. No: 4, Kat: 2, Çankaya/Ankara", text)

	text, err = h.addresses.AddressText(h.ctx, id+100)
	require.NoError(t, err)
	assert.Empty(t, text)
}
