package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/cafedesk/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "cafedesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func seedSystems(t *testing.T, store *Store) []models.System {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, []models.System{
		{Name: "PC-01", Type: "PC", DefaultHourlyRate: 120},
		{Name: "PS-5", Type: "Console", DefaultHourlyRate: 200},
	}))

	systems, err := store.ListSystems(ctx, "")
	require.NoError(t, err)
	require.Len(t, systems, 2)
	return systems
}

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedSystems(t, store)

	require.NoError(t, store.Seed(ctx, []models.System{{Name: "XB-01"}}))

	systems, err := store.ListSystems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, systems, 2)
	assert.Equal(t, "PC-01", systems[0].Name)
	assert.Equal(t, models.Available, systems[0].Availability)
}

func TestSessionCRUD(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	systems := seedSystems(t, store)

	sysID := systems[0].ID
	id, err := store.InsertSession(ctx, &models.Session{
		Date:               "2026-03-10",
		CustomerName:       "Asha",
		SystemID:           &sysID,
		State:              models.StatePlanned,
		PlannedDurationMin: 60,
		HourlyRate:         120,
		PaymentMethod:      models.PaymentCash,
		PaymentStatus:      models.PaymentPaid,
		PaidAmount:         120,
		TotalDue:           120,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := store.FindSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha", got.CustomerName)
	assert.Equal(t, "PC-01", got.SystemName())
	assert.Nil(t, got.LoginTime)

	rows, err := store.UpdateSession(ctx, id, models.Fields{
		models.FieldState:     models.StateActive,
		models.FieldLoginTime: "18:00:00",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	got, err = store.FindSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, got.State)
	require.NotNil(t, got.LoginTime)
	assert.Equal(t, "18:00:00", *got.LoginTime)

	rows, err = store.UpdateSession(ctx, 9999, models.Fields{models.FieldNotes: "x"})
	require.NoError(t, err)
	assert.Zero(t, rows)

	missing, err := store.FindSession(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindSessions_Filter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	systems := seedSystems(t, store)

	insert := func(date string, state models.State, status models.PaymentStatus) {
		sysID := systems[1].ID
		_, err := store.InsertSession(ctx, &models.Session{
			Date: date, CustomerName: "C", SystemID: &sysID, State: state,
			PlannedDurationMin: 60, HourlyRate: 100, PaymentMethod: models.PaymentOnline,
			PaymentStatus: status,
		})
		require.NoError(t, err)
	}

	insert("2026-03-08", models.StateCompleted, models.PaymentPaid)
	insert("2026-03-09", models.StateCompleted, models.PaymentPending)
	insert("2026-03-10", models.StateActive, models.PaymentPaid)
	insert("2026-03-10", models.StatePlanned, models.PaymentPaid)

	all, err := store.FindSessions(ctx, models.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "2026-03-10", all[0].Date, "newest first")

	completed, err := store.FindSessions(ctx, models.SessionFilter{
		States: []models.State{models.StateCompleted},
		From:   "2026-03-09",
		To:     "2026-03-10",
	})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "2026-03-09", completed[0].Date)

	pending, err := store.FindSessions(ctx, models.SessionFilter{PaymentStatus: models.PaymentPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	today, err := store.FindSessions(ctx, models.SessionFilter{Date: "2026-03-10", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, today, 1)
}

func TestSystemAvailabilityAndRate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	systems := seedSystems(t, store)

	rows, err := store.SetSystemAvailability(ctx, systems[0].ID, models.InUse)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	inUse, err := store.ListSystems(ctx, models.InUse)
	require.NoError(t, err)
	require.Len(t, inUse, 1)
	assert.Equal(t, systems[0].ID, inUse[0].ID)

	_, err = store.SetSystemAvailability(ctx, systems[0].ID, "Broken")
	assert.Error(t, err)

	_, err = store.SetSystemRate(ctx, systems[1].ID, 250)
	require.NoError(t, err)
	sys, err := store.FindSystemByName(ctx, "PS-5")
	require.NoError(t, err)
	assert.Equal(t, 250.0, sys.DefaultHourlyRate)

	none, err := store.FindSystem(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDeleteSystem_KeepsSessionHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	systems := seedSystems(t, store)

	sysID := systems[0].ID
	id, err := store.InsertSession(ctx, &models.Session{
		Date: "2026-03-10", CustomerName: "Ravi", SystemID: &sysID,
		State: models.StateCompleted, PlannedDurationMin: 60, HourlyRate: 100,
		PaymentMethod: models.PaymentCash, PaymentStatus: models.PaymentPaid,
	})
	require.NoError(t, err)

	deleted, err := store.DeleteSystem(ctx, sysID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	got, err := store.FindSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.SystemID)
	assert.Equal(t, "(removed)", got.SystemName())
}

func TestAtomically_RollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	systems := seedSystems(t, store)

	boom := errors.New("boom")
	err := store.Atomically(ctx, func(ctx context.Context) error {
		if _, err := store.SetSystemAvailability(ctx, systems[0].ID, models.InUse); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	sys, err := store.FindSystem(ctx, systems[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.Available, sys.Availability)
}
