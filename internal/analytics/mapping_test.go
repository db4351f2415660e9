package analytics

import (
	"testing"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingJoinHit(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "X", Cases: 10, LandingRate: 3, MRP: 5}})
	s.AddPO(po("PO-1", "Acme", "X", 25, 20, domain.StatusCompleted))

	rows := engine.Mapping()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "X", row.SKUCode)
	assert.Equal(t, 10.0, row.Units)
	assert.Equal(t, 2.5, row.Cases)
	assert.Equal(t, 2.0, row.GRNCase)
	assert.Equal(t, 3.0, row.LandingRate)
	assert.Equal(t, 5.0, row.MRP)
	assert.Equal(t, 60.0, row.GRNBillValue)
}

func TestMappingJoinMiss(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "X", Cases: 10, LandingRate: 3}})
	s.AddPO(po("PO-1", "Acme", "Y", 7, 4, domain.StatusCompleted))

	rows := engine.Mapping()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Y", row.SKUCode)
	assert.Equal(t, 1.0, row.Units)
	assert.Equal(t, 7.0, row.Cases)
	assert.Equal(t, 4.0, row.GRNCase)
	assert.Zero(t, row.LandingRate)
	assert.Zero(t, row.MRP)
	assert.Zero(t, row.GRNBillValue)
}

func TestMappingNonPositiveCasesFallsBackToOneUnit(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "X", Cases: 0, LandingRate: 2}})
	s.AddPO(po("PO-1", "Acme", "X", 8, 8, domain.StatusCompleted))

	row := engine.Mapping()[0]
	assert.Equal(t, 1.0, row.Units)
	assert.Equal(t, 8.0, row.Cases)
	assert.Equal(t, 16.0, row.GRNBillValue)
}

func TestMappingPreservesOrderAndSkipsOpenCollection(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "B", Cases: 2}})
	s.ReplacePOs([]domain.PurchaseOrder{
		po("PO-3", "C", "A", 1, 1, domain.StatusCompleted),
		po("PO-1", "A", "B", 4, 2, domain.StatusCancelled),
		po("PO-2", "B", "Z", 3, 0, domain.StatusOpen),
	})
	s.AddOpenPO(po("PO-9", "Open", "B", 100, 0, domain.StatusOpen))

	rows := engine.Mapping()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"PO-3", "PO-1", "PO-2"}, []string{rows[0].PONumber, rows[1].PONumber, rows[2].PONumber})
	assert.Equal(t, domain.StatusCancelled, rows[1].Status)
	assert.Equal(t, 2.0, rows[1].Cases)
	assert.Equal(t, 1.0, rows[2].Units)
}

func TestMappingEmpty(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{{SKUID: "X", Cases: 1}})

	assert.Empty(t, engine.Mapping())
}

func TestMappingLastLandingRateWins(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.ReplaceLandingRates([]domain.LandingRate{
		{SKUID: "X", Cases: 2, LandingRate: 1},
		{SKUID: "X", Cases: 4, LandingRate: 9},
	})
	s.AddPO(po("PO-1", "Acme", "X", 8, 8, domain.StatusCompleted))

	row := engine.Mapping()[0]
	assert.Equal(t, 4.0, row.Units)
	assert.Equal(t, 72.0, row.GRNBillValue)
}

func TestUpdateUniversalPO(t *testing.T) {
	s, engine, _ := newTestEngine(t)
	s.AddPO(po("PO-1", "Acme", "X", 8, 8, domain.StatusCompleted))

	rows := engine.UpdateUniversalPO(s)
	require.Len(t, rows, 1)
	assert.Equal(t, rows, s.UniversalPO())

	empty := NewEngine(store.New()).UpdateUniversalPO(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
