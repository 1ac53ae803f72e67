package realty

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProperty(t *testing.T) *Property {
	t.Helper()
	p, err := NewProperty(PropertyTypeApartment, "Two-room apartment downtown",
		decimal.NewFromInt(250000), decimal.NewFromInt(54))
	require.NoError(t, err)
	return p
}

func TestParsePropertyStatus(t *testing.T) {
	status, err := ParsePropertyStatus("available")
	require.NoError(t, err)
	assert.Equal(t, PropertyStatusAvailable, status)

	_, err = ParsePropertyStatus("OCCUPIED")
	require.Error(t, err)
	assert.Equal(t, "INVALID_INPUT", err.(*shared.DomainError).Code)
}

func TestParsePropertyType(t *testing.T) {
	pt, err := ParsePropertyType(" house ")
	require.NoError(t, err)
	assert.Equal(t, PropertyTypeHouse, pt)

	_, err = ParsePropertyType("CASTLE")
	require.Error(t, err)
}

func TestPropertyReserve(t *testing.T) {
	p := newTestProperty(t)
	require.NoError(t, p.Reserve())
	assert.Equal(t, PropertyStatusReserved, p.Status)

	// a reserved property cannot be reserved again
	require.Error(t, p.Reserve())
}

func TestPropertyLifecycle(t *testing.T) {
	p := newTestProperty(t)
	require.NoError(t, p.Reserve())
	p.MarkRented()
	assert.Equal(t, PropertyStatusRented, p.Status)
	assert.True(t, p.Status.Occupied())

	p.Release()
	assert.Equal(t, PropertyStatusAvailable, p.Status)
	assert.False(t, p.Status.Occupied())
}

func TestPropertySetStatus(t *testing.T) {
	p := newTestProperty(t)

	require.NoError(t, p.SetStatus(PropertyStatusUnavailable))
	assert.Equal(t, PropertyStatusUnavailable, p.Status)

	err := p.SetStatus(PropertyStatusRented)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)

	require.NoError(t, p.SetStatus(PropertyStatusAvailable))
	require.NoError(t, p.Reserve())
	err = p.SetStatus(PropertyStatusUnavailable)
	require.Error(t, err)
}

func TestPropertyAssignOwner(t *testing.T) {
	p := newTestProperty(t)
	assert.False(t, p.HasOwner())

	owner := uuid.New()
	require.NoError(t, p.AssignOwner(owner))
	assert.True(t, p.HasOwner())
	assert.Equal(t, owner, *p.OwnerID)

	require.Error(t, p.AssignOwner(uuid.Nil))
}
