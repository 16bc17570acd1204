package cache

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
	"lawbix/internal/ports/mocks"
)

func setup(t *testing.T) (*Diagnoses, *mocks.DiagnosisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &mocks.DiagnosisRepository{}
	return NewDiagnoses(inner, rdb, time.Minute, slog.New(slog.DiscardHandler)), inner, mr
}

func sampleDiagnosis() domain.Diagnosis {
	cid := int64(3)
	return domain.Diagnosis{
		ID:              11,
		CompanyID:       &cid,
		ComplianceScore: 62,
		RiskLevel:       domain.RiskMedium,
		CategoryScores:  map[string]domain.CategoryScore{"Laboral": {Earned: 5, Max: 8}},
		Answers:         []domain.Answer{{QuestionID: 1, Answer: "No"}},
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLatestDiagnosisCachesRepositoryHit(t *testing.T) {
	c, inner, mr := setup(t)
	ctx := context.Background()
	want := sampleDiagnosis()
	inner.On("LatestDiagnosis", mock.Anything, int64(3)).Return(want, true, nil).Once()

	got, found, err := c.LatestDiagnosis(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
	assert.True(t, mr.Exists(key(3)))
	assert.Equal(t, time.Minute, mr.TTL(key(3)))

	got, found, err = c.LatestDiagnosis(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
	inner.AssertExpectations(t)
}

func TestLatestDiagnosisMissIsNotCached(t *testing.T) {
	c, inner, mr := setup(t)
	inner.On("LatestDiagnosis", mock.Anything, int64(9)).Return(domain.Diagnosis{}, false, nil)

	_, found, err := c.LatestDiagnosis(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists(key(9)))
}

func TestSaveDiagnosisWritesThrough(t *testing.T) {
	c, inner, mr := setup(t)
	want := sampleDiagnosis()
	res := domain.DiagnosisResult{ComplianceScore: 62, RiskLevel: domain.RiskMedium}
	inner.On("SaveDiagnosis", mock.Anything, int64(3), res, want.Answers).Return(want, nil)

	_, err := c.SaveDiagnosis(context.Background(), 3, res, want.Answers)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key(3)))

	got, found, err := c.LatestDiagnosis(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want.ID, got.ID)
	inner.AssertNotCalled(t, "LatestDiagnosis", mock.Anything, mock.Anything)
}

func TestSaveDiagnosisFailureSkipsCache(t *testing.T) {
	c, inner, mr := setup(t)
	inner.On("SaveDiagnosis", mock.Anything, int64(3), mock.Anything, mock.Anything).
		Return(domain.Diagnosis{}, domain.ErrStorageUnavailable)

	_, err := c.SaveDiagnosis(context.Background(), 3, domain.DiagnosisResult{}, nil)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.False(t, mr.Exists(key(3)))
}

func TestCorruptEntryFallsThrough(t *testing.T) {
	c, inner, mr := setup(t)
	mr.HSet(key(3), "v", "0", "d", "{not json")
	want := sampleDiagnosis()
	inner.On("LatestDiagnosis", mock.Anything, int64(3)).Return(want, true, nil)

	got, found, err := c.LatestDiagnosis(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, version(want), mr.HGet(key(3), "v"))
}

func TestPlainStringEntryIsReplaced(t *testing.T) {
	c, inner, mr := setup(t)
	require.NoError(t, mr.Set(key(3), "{}"))
	want := sampleDiagnosis()
	inner.On("LatestDiagnosis", mock.Anything, int64(3)).Return(want, true, nil)

	got, found, err := c.LatestDiagnosis(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, version(want), mr.HGet(key(3), "v"))
}

// slowReadRepo saves a newer diagnosis while a latest read is in flight.
type slowReadRepo struct {
	ports.DiagnosisRepository
	older, newer domain.Diagnosis
	duringRead   func()
}

func (r *slowReadRepo) LatestDiagnosis(context.Context, int64) (domain.Diagnosis, bool, error) {
	r.duringRead()
	return r.older, true, nil
}

func (r *slowReadRepo) SaveDiagnosis(context.Context, int64, domain.DiagnosisResult, []domain.Answer) (domain.Diagnosis, error) {
	return r.newer, nil
}

func TestReadThroughDoesNotOverwriteNewerSave(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	older := sampleDiagnosis()
	older.ID, older.ComplianceScore = 1, 10
	newer := sampleDiagnosis()
	newer.ID, newer.ComplianceScore = 2, 90
	newer.CreatedAt = older.CreatedAt.Add(time.Second)

	repo := &slowReadRepo{older: older, newer: newer}
	c := NewDiagnoses(repo, rdb, time.Minute, slog.New(slog.DiscardHandler))
	ctx := context.Background()
	repo.duringRead = func() {
		_, err := c.SaveDiagnosis(ctx, 3, domain.DiagnosisResult{}, nil)
		require.NoError(t, err)
	}

	got, _, err := c.LatestDiagnosis(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	repo.duringRead = func() { t.Fatal("expected a cache hit") }
	got, found, err := c.LatestDiagnosis(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, 90, got.ComplianceScore)
}

func TestSameCreatedAtOrdersByID(t *testing.T) {
	a := sampleDiagnosis()
	b := sampleDiagnosis()
	b.ID = a.ID + 1
	assert.Less(t, version(a), version(b))
}

func TestRedisDownFallsThrough(t *testing.T) {
	c, inner, mr := setup(t)
	mr.Close()
	want := sampleDiagnosis()
	inner.On("LatestDiagnosis", mock.Anything, int64(3)).Return(want, true, nil)

	got, found, err := c.LatestDiagnosis(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want.ID, got.ID)
}

func TestInvalidate(t *testing.T) {
	c, _, mr := setup(t)
	require.NoError(t, mr.Set(key(4), "x"))
	require.NoError(t, c.Invalidate(context.Background(), 4))
	assert.False(t, mr.Exists(key(4)))
}

func TestConnectBadURL(t *testing.T) {
	_, err := Connect(context.Background(), Options{URL: "not a url"})
	assert.Error(t, err)
}
