package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGetCourses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	courses := []model.Course{
		{ID: "c2", Code: "MATH201", Name: "Linear Algebra", Term: "fall-2026", Credits: 4},
		{ID: "c1", Code: "CS101", Name: "Intro to Programming", Term: "fall-2026", Instructor: "Dr. Okafor", Schedule: "MWF 10:00", Credits: 3},
		{ID: "c3", Code: "CS102", Name: "Data Structures", Term: "spring-2027", Credits: 3},
	}
	require.NoError(t, s.UpsertCourses(ctx, courses))

	got, err := s.GetCourses(ctx, "fall-2026")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by course code, filtered by term.
	assert.Equal(t, "CS101", got[0].Code)
	assert.Equal(t, "Dr. Okafor", got[0].Instructor)
	assert.Equal(t, "MATH201", got[1].Code)
}

func TestUpsertCoursesReplacesExistingRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCourses(ctx, []model.Course{
		{ID: "c1", Code: "CS101", Name: "Intro to Programming", Term: "fall-2026"},
	}))
	require.NoError(t, s.UpsertCourses(ctx, []model.Course{
		{ID: "c1", Code: "CS101", Name: "Introduction to Programming", Term: "fall-2026", Credits: 3},
	}))

	got, err := s.GetCourses(ctx, "fall-2026")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Introduction to Programming", got[0].Name)
	assert.Equal(t, 3, got[0].Credits)
}

func TestUpsertCoursesAssignsMissingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCourses(ctx, []model.Course{
		{Code: "HIST110", Name: "World History", Term: "fall-2026"},
	}))

	got, err := s.GetCourses(ctx, "fall-2026")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
}

func TestUpsertAndGetEventsByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	events := []model.Event{
		{ID: "e1", Title: "Career Fair", EventDate: "2026-09-10", Priority: "high", Category: "career", Status: "upcoming"},
		{ID: "e2", Title: "Orientation", EventDate: "2026-08-20", Priority: "normal", Category: "general", Status: "completed"},
		{ID: "e3", Title: "Hackathon", EventDate: "2026-09-01", Priority: "normal", Category: "tech", Status: "upcoming"},
	}
	require.NoError(t, s.UpsertEvents(ctx, events))

	got, err := s.GetEvents(ctx, "upcoming")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Soonest first.
	assert.Equal(t, "Hackathon", got[0].Title)
	assert.Equal(t, "Career Fair", got[1].Title)

	all, err := s.GetEvents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEmptyBatchesAreNoOps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCourses(ctx, nil))
	require.NoError(t, s.UpsertEvents(ctx, nil))

	courses, err := s.GetCourses(ctx, "fall-2026")
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertCourses(ctx, []model.Course{
		{ID: "c1", Code: "CS101", Name: "Intro to Programming", Term: "fall-2026"},
	}))
	require.NoError(t, s.Close())

	// Reopening runs migrations again; they must be idempotent and the
	// cached rows must survive.
	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetCourses(ctx, "fall-2026")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
