package companies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lawbix/internal/domain"
	"lawbix/internal/ports/mocks"
)

var (
	client = domain.User{ID: 1, Role: domain.RoleClient}
	other  = domain.User{ID: 2, Role: domain.RoleClient}
	lawyer = domain.User{ID: 3, Role: domain.RoleLawyer}
	admin  = domain.User{ID: 4, Role: domain.RoleAdmin}
)

func ptr[T any](v T) *T { return &v }

func TestRegistrableDomain(t *testing.T) {
	tests := map[string]string{
		"https://shop.example.co.uk/path": "example.co.uk",
		"www.lawbix.com":                  "lawbix.com",
		"HTTP://Sub.Empresa.com.co":       "empresa.com.co",
		"localhost:8080":                  "localhost",
	}
	for in, want := range tests {
		got, err := RegistrableDomain(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := RegistrableDomain("https://")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpsertNormalizesInput(t *testing.T) {
	repo := new(mocks.CompanyRepository)
	want := domain.CompanyInput{
		Name:     "Acme SAS",
		Industry: ptr("Retail"),
		Website:  ptr("https://www.acme.com.co"),
		Domain:   ptr("acme.com.co"),
	}
	repo.On("UpsertCompany", mock.Anything, int64(1), want).Return(domain.Company{ID: 10, UserID: 1}, true, nil)

	c, created, err := New(repo).Upsert(context.Background(), client, domain.CompanyInput{
		Name:     "  Acme SAS ",
		Industry: ptr(" Retail "),
		Country:  ptr("   "),
		Website:  ptr("https://www.acme.com.co"),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(10), c.ID)
	repo.AssertExpectations(t)
}

func TestUpsertRequiresName(t *testing.T) {
	_, _, err := New(new(mocks.CompanyRepository)).Upsert(context.Background(), client, domain.CompanyInput{Name: " "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestAccessRules(t *testing.T) {
	repo := new(mocks.CompanyRepository)
	owned := domain.Company{ID: 10, UserID: client.ID, Name: "Acme"}
	repo.On("GetCompany", mock.Anything, int64(10)).Return(owned, nil)
	repo.On("GetCompany", mock.Anything, int64(11)).Return(domain.Company{}, domain.ErrNotFound)
	repo.On("ListCompanies", mock.Anything).Return([]domain.Company{owned}, nil)
	repo.On("DeleteCompany", mock.Anything, int64(10)).Return(nil)
	svc := New(repo)
	ctx := context.Background()

	_, err := svc.Get(ctx, client, 10)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, lawyer, 10)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, other, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Get(ctx, admin, 11)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.List(ctx, client)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	list, err := svc.List(ctx, lawyer)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, svc.Delete(ctx, lawyer, 10), domain.ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, admin, 10))
}

func TestUpdateChecksOwnership(t *testing.T) {
	repo := new(mocks.CompanyRepository)
	repo.On("GetCompany", mock.Anything, int64(10)).Return(domain.Company{ID: 10, UserID: client.ID}, nil)
	repo.On("UpdateCompany", mock.Anything, int64(10), domain.CompanyInput{Name: "Nuevo"}).Return(domain.Company{ID: 10, Name: "Nuevo"}, nil)
	svc := New(repo)

	_, err := svc.Update(context.Background(), other, 10, domain.CompanyInput{Name: "Nuevo"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	c, err := svc.Update(context.Background(), client, 10, domain.CompanyInput{Name: "Nuevo"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", c.Name)
}

func TestCreateForOwner(t *testing.T) {
	repo := new(mocks.CompanyRepository)
	repo.On("CreateCompany", mock.Anything, int64(1), domain.CompanyInput{Name: "Cliente"}).Return(domain.Company{ID: 20, UserID: 1}, nil)
	repo.On("CreateCompany", mock.Anything, admin.ID, domain.CompanyInput{Name: "Propia"}).Return(domain.Company{ID: 21, UserID: admin.ID}, nil)
	svc := New(repo)

	_, err := svc.Create(context.Background(), client, nil, domain.CompanyInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	c, err := svc.Create(context.Background(), lawyer, ptr(int64(1)), domain.CompanyInput{Name: "Cliente"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.UserID)

	c, err = svc.Create(context.Background(), admin, nil, domain.CompanyInput{Name: "Propia"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, c.UserID)
}
