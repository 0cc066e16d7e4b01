package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusPendente, StatusConfirmado, true},
		{StatusPendente, StatusCancelado, true},
		{StatusPendente, StatusEmRota, false},
		{StatusPendente, StatusColetado, false},
		{StatusConfirmado, StatusEmRota, true},
		{StatusConfirmado, StatusColetado, true},
		{StatusConfirmado, StatusCancelado, true},
		{StatusConfirmado, StatusPendente, false},
		{StatusEmRota, StatusColetado, true},
		{StatusEmRota, StatusCancelado, true},
		{StatusEmRota, StatusConfirmado, false},
		{StatusColetado, StatusCancelado, false},
		{StatusColetado, StatusPendente, false},
		{StatusCancelado, StatusPendente, false},
		{StatusCancelado, StatusConfirmado, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusKnown(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPendente, StatusConfirmado, StatusEmRota, StatusColetado, StatusCancelado} {
		assert.True(t, s.Known(), string(s))
	}
	assert.False(t, AppointmentStatus("agendado").Known())
	assert.False(t, AppointmentStatus("").Known())
}

func TestTagListRoundTrip(t *testing.T) {
	tags := TagList{
		{ID: uuid.New(), Nome: "urgente", Cor: "#ff0000"},
		{ID: uuid.New(), Nome: "domiciliar", Cor: "#00ff00"},
	}

	value, err := tags.Value()
	require.NoError(t, err)

	var scanned TagList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, tags, scanned)
}

func TestTagListNilValue(t *testing.T) {
	var tags TagList
	value, err := tags.Value()
	require.NoError(t, err)
	// Nil serializes as an empty array, never null.
	assert.JSONEq(t, "[]", string(value.([]byte)))
}

func TestEnderecoScanNull(t *testing.T) {
	var e Endereco
	require.NoError(t, (&e).Scan(nil))
	assert.Equal(t, Endereco{}, e)
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = Pagination{Page: -3, PageSize: 5000}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)

	p = Pagination{Page: 3, PageSize: 25}
	p.Normalize()
	assert.Equal(t, 50, p.Offset())
}
