package httpadapter

import (
	"errors"
	"net/http"

	"lawbix/internal/domain"
)

// companyRequest accepts both the snake_case and the camelCase field names
// used by clients. snake_case wins when both are present.
type companyRequest struct {
	UserID                 *int64  `json:"user_id"`
	Name                   string  `json:"name"`
	Industry               *string `json:"industry"`
	EmployeeCount          *int    `json:"employee_count"`
	Employees              *int    `json:"employees"`
	IncorporationDate      *string `json:"incorporation_date"`
	IncorporationDateCamel *string `json:"incorporationDate"`
	Country                *string `json:"country"`
	CorporateVehicle       *string `json:"corporate_vehicle"`
	CorporateVehicleCamel  *string `json:"corporateVehicle"`
	Website                *string `json:"website"`
}

func firstOf[T any](vs ...*T) *T {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func (c companyRequest) input() (domain.CompanyInput, error) {
	inc, err := parseDate("incorporation_date", firstOf(c.IncorporationDate, c.IncorporationDateCamel))
	if err != nil {
		return domain.CompanyInput{}, err
	}
	return domain.CompanyInput{
		Name:              c.Name,
		Industry:          c.Industry,
		EmployeeCount:     firstOf(c.EmployeeCount, c.Employees),
		IncorporationDate: inc,
		Country:           c.Country,
		CorporateVehicle:  firstOf(c.CorporateVehicle, c.CorporateVehicleCamel),
		Website:           c.Website,
	}, nil
}

func (s *Server) decodeCompany(w http.ResponseWriter, r *http.Request) (companyRequest, domain.CompanyInput, bool) {
	var req companyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return req, domain.CompanyInput{}, false
	}
	in, err := req.input()
	if err != nil {
		s.fail(w, r, err)
		return req, domain.CompanyInput{}, false
	}
	return req, in, true
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := s.companies.List(r.Context(), currentUser(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "count": len(list), "companies": list})
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	req, in, ok := s.decodeCompany(w, r)
	if !ok {
		return
	}
	c, err := s.companies.Create(r.Context(), currentUser(r), req.UserID, in)
	if err != nil {
		s.companyFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "Company created successfully", "company": c})
}

func (s *Server) upsertCompany(w http.ResponseWriter, r *http.Request) {
	_, in, ok := s.decodeCompany(w, r)
	if !ok {
		return
	}
	c, created, err := s.companies.Upsert(r.Context(), currentUser(r), in)
	if err != nil {
		s.companyFail(w, r, err)
		return
	}
	msg := "Company updated successfully"
	if created {
		msg = "Company created successfully"
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": msg, "created": created, "company": c})
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.companies.Get(r.Context(), currentUser(r), id)
	if err != nil {
		s.companyFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "company": c})
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_, in, ok := s.decodeCompany(w, r)
	if !ok {
		return
	}
	c, err := s.companies.Update(r.Context(), currentUser(r), id, in)
	if err != nil {
		s.companyFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Company updated successfully", "company": c})
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.companies.Delete(r.Context(), currentUser(r), id); err != nil {
		s.companyFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Company deleted successfully"})
}

func (s *Server) companyFail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Company not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized to access this company")
	default:
		s.fail(w, r, err)
	}
}
