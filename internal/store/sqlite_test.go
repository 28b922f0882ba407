package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/propuesta/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "instance", "respuestas.db")
	s, err := NewSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insert(t *testing.T, s *SQLiteStore, choice domain.Choice) int64 {
	t.Helper()

	resp := domain.NewResponse(choice, time.Now(), "10.0.0.1", "test-agent")
	id, err := s.InsertResponse(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	return id
}

func TestListResponsesEmpty(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestInsertAndListNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first := insert(t, s, domain.ChoiceYes)
	second := insert(t, s, domain.ChoiceTime)
	third := insert(t, s, domain.ChoiceYes)

	assert.Less(t, first, second)
	assert.Less(t, second, third)

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, third, rows[0].ID)
	assert.Equal(t, domain.ChoiceYes, rows[0].Choice)
	assert.Equal(t, domain.ChoiceTime, rows[1].Choice)
	for i := 1; i < len(rows); i++ {
		assert.Greater(t, rows[i-1].ID, rows[i].ID, "rows must be ordered by id descending")
	}
	assert.Equal(t, "10.0.0.1", rows[0].IP)
	assert.Equal(t, "test-agent", rows[0].UserAgent)
	_, err = time.ParseInLocation(domain.TimestampLayout, rows[0].CreatedAt, time.Local)
	assert.NoError(t, err)
}

func TestInsertWithoutIPStoresNull(t *testing.T) {
	s := newTestStore(t)

	resp := domain.NewResponse(domain.ChoiceTime, time.Now(), "", "")
	_, err := s.InsertResponse(context.Background(), resp)
	require.NoError(t, err)

	var isNull bool
	err = s.db.QueryRow(`SELECT ip IS NULL FROM respuestas WHERE id = ?`, resp.ID).Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull)

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].HasIP())
	assert.Equal(t, "", rows[0].UserAgent)
}

func TestInsertRejectsInvalidChoice(t *testing.T) {
	s := newTestStore(t)

	resp := &domain.Response{Choice: "maybe", CreatedAt: "2026-01-01 00:00:00"}
	_, err := s.InsertResponse(context.Background(), resp)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, domain.ChoiceYes)

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()))

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "respuestas.db")

	s, err := NewSQLite(context.Background(), path)
	require.NoError(t, err)
	insert(t, s, domain.ChoiceTime)
	require.NoError(t, s.Close())

	s, err = NewSQLite(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ChoiceTime, rows[0].Choice)
}

func TestClosedStoreReturnsStorageError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.InsertResponse(context.Background(), domain.NewResponse(domain.ChoiceYes, time.Now(), "", ""))
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr), "expected StorageError, got %v", err)
	assert.Equal(t, "insert response", storageErr.Op)

	_, err = s.ListResponses(context.Background())
	assert.True(t, errors.As(err, &storageErr))
}

func TestConcurrentInsertsAllCommitted(t *testing.T) {
	s := newTestStore(t)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertResponse(context.Background(), domain.NewResponse(domain.ChoiceYes, time.Now(), "", ""))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, writers)
}
