package roadmap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lawbix/internal/domain"
	"lawbix/internal/ports/mocks"
)

func setup(t *testing.T) (*Service, *mocks.CompanyRepository, *mocks.RoadmapRepository) {
	t.Helper()
	companies := new(mocks.CompanyRepository)
	items := new(mocks.RoadmapRepository)
	return New(companies, items), companies, items
}

func TestList(t *testing.T) {
	svc, companies, items := setup(t)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	items.On("ListRoadmap", mock.Anything, int64(2), (*domain.RiskLevel)(nil)).
		Return([]domain.RoadmapItem{{ID: 1}, {ID: 2}}, nil)

	got, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Empty(t, got.Message)
}

func TestListDegrades(t *testing.T) {
	t.Run("no company", func(t *testing.T) {
		svc, companies, _ := setup(t)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{}, false, nil)

		got, err := svc.List(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.NotNil(t, got.Items)
		assert.Equal(t, MsgRegisterCompany, got.Message)
	})
	t.Run("table missing", func(t *testing.T) {
		svc, companies, items := setup(t)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
		items.On("ListRoadmap", mock.Anything, int64(2), (*domain.RiskLevel)(nil)).Return(nil, domain.ErrStorageUnavailable)

		got, err := svc.List(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, MsgTablesMissing, got.Message)
	})
	t.Run("unexpected", func(t *testing.T) {
		svc, companies, _ := setup(t)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{}, false, errors.New("boom"))

		_, err := svc.List(context.Background(), 1)
		assert.EqualError(t, err, "boom")
	})
}

func TestCreate(t *testing.T) {
	svc, companies, items := setup(t)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	items.On("CreateRoadmapItem", mock.Anything, mock.MatchedBy(func(it domain.RoadmapItem) bool {
		return it.CompanyID == 2 && it.Status == domain.RoadmapPending && it.Priority == domain.RiskMedium &&
			it.Source == domain.SourceManual
	})).Return(domain.RoadmapItem{ID: 7}, nil)

	got, err := svc.Create(context.Background(), 1, domain.RoadmapItem{Title: "Registrar marca", Status: domain.RoadmapCompleted})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	_, err = svc.Create(context.Background(), 1, domain.RoadmapItem{Title: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompleteAndDelete(t *testing.T) {
	svc, companies, items := setup(t)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	items.On("CompleteRoadmapItem", mock.Anything, int64(2), int64(5)).Return(nil)
	items.On("DeleteRoadmapItem", mock.Anything, int64(2), int64(6)).Return(domain.ErrNotFound)

	assert.NoError(t, svc.Complete(context.Background(), 1, 5))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, 6), domain.ErrNotFound)
}

func TestUpdateValidation(t *testing.T) {
	svc, _, _ := setup(t)
	bad := domain.RoadmapStatus("done")
	assert.ErrorIs(t, svc.Update(context.Background(), 1, 2, domain.RoadmapPatch{Status: &bad}), domain.ErrValidation)
	prio := domain.RiskLevel("urgent")
	assert.ErrorIs(t, svc.Update(context.Background(), 1, 2, domain.RoadmapPatch{Priority: &prio}), domain.ErrValidation)
}

func TestByPriority(t *testing.T) {
	svc, companies, items := setup(t)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	high := domain.RiskHigh
	items.On("ListRoadmap", mock.Anything, int64(2), &high).Return([]domain.RoadmapItem{{ID: 1, Priority: high}}, nil)

	got, err := svc.ByPriority(context.Background(), 1, domain.RiskHigh)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
