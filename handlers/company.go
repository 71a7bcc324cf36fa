package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

type companyReq struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

func CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	company := models.Company{
		Name:         req.Name,
		Address:      req.Address,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}
	if err := config.DB.Create(&company).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			writeError(w, http.StatusConflict, "company name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create company")
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func GetAllCompanies(w http.ResponseWriter, r *http.Request) {
	var companies []models.Company
	if err := config.DB.Order("name").Find(&companies).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch companies")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"count":     len(companies),
	})
}

func GetCompany(w http.ResponseWriter, r *http.Request) {
	var company models.Company
	if err := config.DB.First(&company, "id = ?", mux.Vars(r)["id"]).Error; err != nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var company models.Company
	if err := config.DB.First(&company, "id = ?", mux.Vars(r)["id"]).Error; err != nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	var req companyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Address != "" {
		company.Address = req.Address
	}
	if req.ContactName != "" {
		company.ContactName = req.ContactName
	}
	if req.ContactEmail != "" {
		company.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		company.ContactPhone = req.ContactPhone
	}

	if err := config.DB.Save(&company).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update company")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func DeleteCompany(w http.ResponseWriter, r *http.Request) {
	var company models.Company
	if err := config.DB.First(&company, "id = ?", mux.Vars(r)["id"]).Error; err != nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	var projectCount int64
	config.DB.Model(&models.Project{}).Where("company_id = ?", company.ID).Count(&projectCount)
	if projectCount > 0 {
		writeError(w, http.StatusConflict, "company has projects and cannot be deleted")
		return
	}

	if err := config.DB.Delete(&company).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete company")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "company deleted"})
}
