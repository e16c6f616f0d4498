package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justmara/ns-sync/internal/profile"
)

func newStoreWithMock(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db), mock
}

const upsertQuery = `(?s)^INSERT\s+INTO\s+settings\s*\(key,\s*value,\s*updated_at\)\s*VALUES\s*\(\?,\s*\?,\s*\?\)\s*ON\s+CONFLICT\(key\)\s+DO\s+UPDATE`

func TestSave_Upserts(t *testing.T) {
	store, mock := newStoreWithMock(t)
	targets := profile.BGTargets{
		Units:         profile.MgdL,
		UserPrefUnits: profile.MgdL,
		Targets:       []profile.TargetEntry{{Start: "00:00", Offset: 0, Low: 100, High: 100}},
	}

	mock.ExpectExec(upsertQuery).
		WithArgs(profile.KeyBGTargets,
			`{"units":"mg/dL","user_preferred_units":"mg/dL","targets":[{"start":"00:00","offset":0,"low":100,"high":100}]}`,
			sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), profile.KeyBGTargets, targets))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(upsertQuery).
		WithArgs(profile.KeyCarbRatios, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	err := store.Save(context.Background(), profile.KeyCarbRatios, profile.CarbRatios{})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*disk I/O error`), err.Error())
}

func TestSave_EncodeError(t *testing.T) {
	store, mock := newStoreWithMock(t)

	err := store.Save(context.Background(), "bad", make(chan int))

	assert.ErrorContains(t, err, "encode bad")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_Found(t *testing.T) {
	store, mock := newStoreWithMock(t)

	rows := sqlmock.NewRows([]string{"value"}).AddRow(`{"units":"mmol/L","entries":[{"start":"00:00","offset":0,"rate":0.9}]}`)
	mock.ExpectQuery(`(?s)^SELECT\s+value\s+FROM\s+settings\s+WHERE\s+key\s*=\s*\?$`).
		WithArgs(profile.KeyBasalProfile).
		WillReturnRows(rows)

	var basal profile.BasalProfile
	require.NoError(t, store.Load(context.Background(), profile.KeyBasalProfile, &basal))
	assert.Equal(t, profile.MmolL, basal.Units)
	assert.Equal(t, []profile.BasalEntry{{Start: "00:00", Offset: 0, Rate: 0.9}}, basal.Entries)
}

func TestLoad_NotFound(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT value FROM settings`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	var out map[string]any
	assert.ErrorIs(t, store.Load(context.Background(), "missing", &out), ErrNotFound)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	defer store.Close()

	first := profile.CarbRatios{Units: profile.MgdL, Schedule: []profile.CarbRatioEntry{{Start: "00:00", Ratio: 10}}}
	second := profile.CarbRatios{Units: profile.MmolL, Schedule: []profile.CarbRatioEntry{{Start: "00:00", Ratio: 12}}}
	require.NoError(t, store.Save(ctx, profile.KeyCarbRatios, first))
	require.NoError(t, store.Save(ctx, profile.KeyCarbRatios, second))

	var got profile.CarbRatios
	require.NoError(t, store.Load(ctx, profile.KeyCarbRatios, &got))
	assert.Equal(t, second, got)
}

func TestSQLStore_ProfileSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = profile.LoadSet(ctx, store)
	require.ErrorIs(t, err, ErrNotFound)

	set := profile.Convert(profile.Profile{
		Units:     "mmol/L",
		CarbRatio: []profile.TimeValue{{Time: "00:00", Value: 10, TimeAsSeconds: 0}},
		Basal:     []profile.TimeValue{{Time: "00:00", Value: 0.8, TimeAsSeconds: 0}, {Time: "06:00", Value: 1.1, TimeAsSeconds: 21600}},
		Sens:      []profile.TimeValue{{Time: "00:00", Value: 2.5, TimeAsSeconds: 0}},
		TargetLow: []profile.TimeValue{{Time: "00:00", Value: 5.5, TimeAsSeconds: 0}},
	})
	require.NoError(t, set.Save(ctx, store))

	got, err := profile.LoadSet(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, set, got)
}
