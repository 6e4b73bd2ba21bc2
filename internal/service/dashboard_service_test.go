package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardServiceGet(t *testing.T) {
	svc := NewDashboardService(datasetStub{data: fixtureDataset()}, nil, nil)

	dashboard, hit, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, dashboard.StudentCount)
	assert.Equal(t, 1, dashboard.TeacherCount)
	assert.Equal(t, 3, dashboard.CourseCount)
	assert.Equal(t, 5, dashboard.GradeCount)
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, dashboard.StudentsByClass)
	assert.InDelta(t, 8.72, dashboard.SchoolAverage, 1e-9)
	require.Len(t, dashboard.TopStudents, 3)
	assert.Equal(t, "s1", dashboard.TopStudents[0].StudentID)
	assert.InDelta(t, 14.17, dashboard.TopStudents[0].Average, 1e-9)
	assert.Equal(t, "s2", dashboard.TopStudents[1].StudentID)
}

func TestDashboardServiceServesFromCache(t *testing.T) {
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	loader := &countingLoader{data: datasetStub{data: fixtureDataset()}}
	svc := NewDashboardService(loader, cache, nil)

	_, _, err := svc.Get(context.Background())
	require.NoError(t, err)
	cached, hit, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 3, cached.StudentCount)
}

func TestDashboardServicePropagatesErrors(t *testing.T) {
	svc := NewDashboardService(datasetStub{err: errors.New("boom")}, nil, nil)

	_, _, err := svc.Get(context.Background())
	assert.Error(t, err)
}
