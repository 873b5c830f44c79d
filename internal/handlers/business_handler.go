package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "byapar/internal/errors"
	"byapar/internal/models"
	"byapar/internal/nepali"
	"byapar/internal/pagination"
	"byapar/internal/response"
	"byapar/internal/services"
	"byapar/internal/upload"
)

// BusinessHandler handles business registry requests
type BusinessHandler struct {
	businessService services.BusinessServicer
	storage         *upload.Storage
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(businessService services.BusinessServicer, storage *upload.Storage) *BusinessHandler {
	return &BusinessHandler{businessService: businessService, storage: storage}
}

// CreateBusinessRequest is the multipart form payload for registering a business.
type CreateBusinessRequest struct {
	BusinessName      string `form:"businessName" binding:"required,min=2,max=100"`
	ContactPerson     string `form:"contactPerson" binding:"required,min=2,max=50"`
	Position          string `form:"position"`
	BusinessAddress   string `form:"businessAddress" binding:"required"`
	ContactNumber     string `form:"contactNumber" binding:"required,nepali_phone"`
	Email             string `form:"email" binding:"omitempty,email"`
	Tole              string `form:"tole"`
	WardNumber        int    `form:"wardNumber" binding:"required,min=1,max=50"`
	Municipality      string `form:"municipality"`
	EstablishmentYear string `form:"establishmentYear"`
	OwnershipType     string `form:"ownershipType"`

	BusinessType  string `form:"businessType"`
	BusinessField string `form:"businessField"`
	CategoryID    *uint  `form:"categoryId"`

	TotalInvestment     *float64 `form:"totalInvestment" binding:"omitempty,min=0"`
	LocationOwnership   string   `form:"locationOwnership"`
	AnnualTurnover      *float64 `form:"annualTurnover" binding:"omitempty,min=0"`
	RegistrationNumber  string   `form:"registrationNumber"`
	VATNumber           string   `form:"vatNumber"`
	LaborPermit         string   `form:"laborPermit"`
	PANNumber           string   `form:"panNumber"`
	EnvironmentApproval string   `form:"environmentApproval"`
	OtherPermits        string   `form:"otherPermits"`

	PermanentEmployees         *int     `form:"permanentEmployees" binding:"omitempty,min=0"`
	FemaleEmployees            *int     `form:"femaleEmployees" binding:"omitempty,min=0"`
	TemporaryContractEmployees *int     `form:"temporaryContractEmployees" binding:"omitempty,min=0"`
	MarginalizedEmployees      *int     `form:"marginalizedEmployees" binding:"omitempty,min=0"`
	PartTimeFreelancers        *int     `form:"partTimeFreelancers" binding:"omitempty,min=0"`
	AvgSalary                  *float64 `form:"avgSalary" binding:"omitempty,min=0"`

	IncomeSource string   `form:"incomeSource"`
	AvgIncome    *float64 `form:"avgIncome" binding:"omitempty,min=0"`
	AvgExpense   *float64 `form:"avgExpense" binding:"omitempty,min=0"`
	LoanProvider string   `form:"loanProvider"`
	LoanAmount   *float64 `form:"loanAmount" binding:"omitempty,min=0"`
	LoanDuration string   `form:"loanDuration"`

	ExpansionPlans        string `form:"expansionPlans"`
	MainChallenges        string `form:"mainChallenges"`
	MunicipalSupport      string `form:"municipalSupport"`
	CommunityContribution string `form:"communityContribution"`
	AdditionalSupport     string `form:"additionalSupport"`
	FormFilledDate        string `form:"formFilledDate"`
	FinalRemarks          string `form:"finalRemarks"`
}

func (r *CreateBusinessRequest) toModel() *models.Business {
	return &models.Business{
		BusinessName:               r.BusinessName,
		ContactPerson:              r.ContactPerson,
		Position:                   r.Position,
		BusinessAddress:            r.BusinessAddress,
		ContactNumber:              r.ContactNumber,
		Email:                      r.Email,
		Tole:                       r.Tole,
		WardNumber:                 r.WardNumber,
		Municipality:               r.Municipality,
		EstablishmentYear:          r.EstablishmentYear,
		OwnershipType:              r.OwnershipType,
		BusinessType:               r.BusinessType,
		BusinessField:              r.BusinessField,
		CategoryID:                 r.CategoryID,
		TotalInvestment:            r.TotalInvestment,
		LocationOwnership:          r.LocationOwnership,
		AnnualTurnover:             r.AnnualTurnover,
		RegistrationNumber:         r.RegistrationNumber,
		VATNumber:                  r.VATNumber,
		LaborPermit:                r.LaborPermit,
		PANNumber:                  r.PANNumber,
		EnvironmentApproval:        r.EnvironmentApproval,
		OtherPermits:               r.OtherPermits,
		PermanentEmployees:         r.PermanentEmployees,
		FemaleEmployees:            r.FemaleEmployees,
		TemporaryContractEmployees: r.TemporaryContractEmployees,
		MarginalizedEmployees:      r.MarginalizedEmployees,
		PartTimeFreelancers:        r.PartTimeFreelancers,
		AvgSalary:                  r.AvgSalary,
		IncomeSource:               r.IncomeSource,
		AvgIncome:                  r.AvgIncome,
		AvgExpense:                 r.AvgExpense,
		LoanProvider:               r.LoanProvider,
		LoanAmount:                 r.LoanAmount,
		LoanDuration:               r.LoanDuration,
		ExpansionPlans:             r.ExpansionPlans,
		MainChallenges:             r.MainChallenges,
		MunicipalSupport:           r.MunicipalSupport,
		CommunityContribution:      r.CommunityContribution,
		AdditionalSupport:          r.AdditionalSupport,
		FormFilledDate:             r.FormFilledDate,
		FinalRemarks:               r.FinalRemarks,
	}
}

// UpdateBusinessRequest carries partial updates; only supplied fields change.
type UpdateBusinessRequest struct {
	BusinessName      *string `form:"businessName" binding:"omitempty,min=2,max=100"`
	ContactPerson     *string `form:"contactPerson" binding:"omitempty,min=2,max=50"`
	Position          *string `form:"position"`
	BusinessAddress   *string `form:"businessAddress"`
	ContactNumber     *string `form:"contactNumber" binding:"omitempty,nepali_phone"`
	Email             *string `form:"email" binding:"omitempty,email"`
	Tole              *string `form:"tole"`
	WardNumber        *int    `form:"wardNumber" binding:"omitempty,min=1,max=50"`
	Municipality      *string `form:"municipality"`
	EstablishmentYear *string `form:"establishmentYear"`
	OwnershipType     *string `form:"ownershipType"`

	BusinessType  *string `form:"businessType"`
	BusinessField *string `form:"businessField"`
	CategoryID    *uint   `form:"categoryId"`

	TotalInvestment     *float64 `form:"totalInvestment" binding:"omitempty,min=0"`
	LocationOwnership   *string  `form:"locationOwnership"`
	AnnualTurnover      *float64 `form:"annualTurnover" binding:"omitempty,min=0"`
	RegistrationNumber  *string  `form:"registrationNumber"`
	VATNumber           *string  `form:"vatNumber"`
	LaborPermit         *string  `form:"laborPermit"`
	PANNumber           *string  `form:"panNumber"`
	EnvironmentApproval *string  `form:"environmentApproval"`
	OtherPermits        *string  `form:"otherPermits"`

	PermanentEmployees         *int     `form:"permanentEmployees" binding:"omitempty,min=0"`
	FemaleEmployees            *int     `form:"femaleEmployees" binding:"omitempty,min=0"`
	TemporaryContractEmployees *int     `form:"temporaryContractEmployees" binding:"omitempty,min=0"`
	MarginalizedEmployees      *int     `form:"marginalizedEmployees" binding:"omitempty,min=0"`
	PartTimeFreelancers        *int     `form:"partTimeFreelancers" binding:"omitempty,min=0"`
	AvgSalary                  *float64 `form:"avgSalary" binding:"omitempty,min=0"`

	IncomeSource *string  `form:"incomeSource"`
	AvgIncome    *float64 `form:"avgIncome" binding:"omitempty,min=0"`
	AvgExpense   *float64 `form:"avgExpense" binding:"omitempty,min=0"`
	LoanProvider *string  `form:"loanProvider"`
	LoanAmount   *float64 `form:"loanAmount" binding:"omitempty,min=0"`
	LoanDuration *string  `form:"loanDuration"`

	ExpansionPlans        *string `form:"expansionPlans"`
	MainChallenges        *string `form:"mainChallenges"`
	MunicipalSupport      *string `form:"municipalSupport"`
	CommunityContribution *string `form:"communityContribution"`
	AdditionalSupport     *string `form:"additionalSupport"`
	FormFilledDate        *string `form:"formFilledDate"`
	FinalRemarks          *string `form:"finalRemarks"`
}

func (r *UpdateBusinessRequest) toUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	set := func(column string, value interface{}, present bool) {
		if present {
			updates[column] = value
		}
	}

	set("business_name", ptrValue(r.BusinessName), r.BusinessName != nil)
	set("contact_person", ptrValue(r.ContactPerson), r.ContactPerson != nil)
	set("position", ptrValue(r.Position), r.Position != nil)
	set("business_address", ptrValue(r.BusinessAddress), r.BusinessAddress != nil)
	set("contact_number", ptrValue(r.ContactNumber), r.ContactNumber != nil)
	set("email", ptrValue(r.Email), r.Email != nil)
	set("tole", ptrValue(r.Tole), r.Tole != nil)
	set("ward_number", derefInt(r.WardNumber), r.WardNumber != nil)
	set("municipality", ptrValue(r.Municipality), r.Municipality != nil)
	set("establishment_year", ptrValue(r.EstablishmentYear), r.EstablishmentYear != nil)
	set("ownership_type", ptrValue(r.OwnershipType), r.OwnershipType != nil)
	set("business_type", ptrValue(r.BusinessType), r.BusinessType != nil)
	set("business_field", ptrValue(r.BusinessField), r.BusinessField != nil)
	set("category_id", r.CategoryID, r.CategoryID != nil)
	set("total_investment", r.TotalInvestment, r.TotalInvestment != nil)
	set("location_ownership", ptrValue(r.LocationOwnership), r.LocationOwnership != nil)
	set("annual_turnover", r.AnnualTurnover, r.AnnualTurnover != nil)
	set("registration_number", ptrValue(r.RegistrationNumber), r.RegistrationNumber != nil)
	set("vat_number", ptrValue(r.VATNumber), r.VATNumber != nil)
	set("labor_permit", ptrValue(r.LaborPermit), r.LaborPermit != nil)
	set("pan_number", ptrValue(r.PANNumber), r.PANNumber != nil)
	set("environment_approval", ptrValue(r.EnvironmentApproval), r.EnvironmentApproval != nil)
	set("other_permits", ptrValue(r.OtherPermits), r.OtherPermits != nil)
	set("permanent_employees", r.PermanentEmployees, r.PermanentEmployees != nil)
	set("female_employees", r.FemaleEmployees, r.FemaleEmployees != nil)
	set("temporary_contract_employees", r.TemporaryContractEmployees, r.TemporaryContractEmployees != nil)
	set("marginalized_employees", r.MarginalizedEmployees, r.MarginalizedEmployees != nil)
	set("part_time_freelancers", r.PartTimeFreelancers, r.PartTimeFreelancers != nil)
	set("avg_salary", r.AvgSalary, r.AvgSalary != nil)
	set("income_source", ptrValue(r.IncomeSource), r.IncomeSource != nil)
	set("avg_income", r.AvgIncome, r.AvgIncome != nil)
	set("avg_expense", r.AvgExpense, r.AvgExpense != nil)
	set("loan_provider", ptrValue(r.LoanProvider), r.LoanProvider != nil)
	set("loan_amount", r.LoanAmount, r.LoanAmount != nil)
	set("loan_duration", ptrValue(r.LoanDuration), r.LoanDuration != nil)
	set("expansion_plans", ptrValue(r.ExpansionPlans), r.ExpansionPlans != nil)
	set("main_challenges", ptrValue(r.MainChallenges), r.MainChallenges != nil)
	set("municipal_support", ptrValue(r.MunicipalSupport), r.MunicipalSupport != nil)
	set("community_contribution", ptrValue(r.CommunityContribution), r.CommunityContribution != nil)
	set("additional_support", ptrValue(r.AdditionalSupport), r.AdditionalSupport != nil)
	set("form_filled_date", ptrValue(r.FormFilledDate), r.FormFilledDate != nil)
	set("final_remarks", ptrValue(r.FinalRemarks), r.FinalRemarks != nil)

	return updates
}

func ptrValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func derefInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

// formFiles pulls the uploaded document headers out of a multipart request.
func formFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["documents"]
}

// CreateBusiness registers a new business with optional documents
// @Summary     Register a business
// @Tags        businesses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       businessName formData string true "Business name"
// @Param       documents formData file false "Attached documents (max 10)"
// @Success     201 {object} response.Envelope
// @Failure     400 {object} response.Envelope "Validation or upload failure"
// @Router      /businesses [post]
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBusinessRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	files := formFiles(c)
	saved, err := h.storage.SaveAll(files)
	if err != nil {
		respondWithError(c, err)
		return
	}

	business, err := h.businessService.Create(req.toModel(), user.ID, saved)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Created(c, "Business created successfully", business)
}

// GetAllBusinesses lists businesses with filters and pagination
// @Summary     List businesses
// @Tags        businesses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page (default 1)"
// @Param       limit query int false "Page size (default 10, max 100)"
// @Param       search query string false "Free-text search"
// @Param       ward query int false "Ward number"
// @Param       category query int false "Category ID"
// @Param       businessType query string false "Business type"
// @Param       ownershipType query string false "Ownership type"
// @Success     200 {object} response.Envelope
// @Router      /businesses [get]
func (h *BusinessHandler) GetAllBusinesses(c *gin.Context) {
	page, limit := pagination.Parse(c.Query("page"), c.Query("limit"))

	filter := services.BusinessFilter{
		Search:        c.Query("search"),
		BusinessType:  c.Query("businessType"),
		OwnershipType: c.Query("ownershipType"),
	}
	if raw := c.Query("ward"); raw != "" {
		if ward, err := strconv.Atoi(nepali.ToEnglishDigits(raw)); err == nil {
			filter.Ward = &ward
		}
	}
	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := c.Query("isActive"); raw != "" {
		active := raw != "false"
		filter.IsActive = &active
	}

	businesses, total, err := h.businessService.List(filter, page, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.Paged(c, "Businesses retrieved successfully", businesses, pagination.NewMeta(page, limit, total))
}

// GetBusinessByID fetches one business
// @Summary     Get business by ID
// @Tags        businesses
// @Produce     json
// @Param       id path int true "Business ID"
// @Success     200 {object} response.Envelope
// @Failure     404 {object} response.Envelope
// @Router      /businesses/{id} [get]
func (h *BusinessHandler) GetBusinessByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	business, err := h.businessService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Business retrieved successfully", business)
}

// UpdateBusiness applies partial changes and appends new documents
// @Summary     Update a business
// @Tags        businesses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Business ID"
// @Success     200 {object} response.Envelope
// @Failure     404 {object} response.Envelope
// @Router      /businesses/{id} [put]
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	files := formFiles(c)
	saved, err := h.storage.SaveAll(files)
	if err != nil {
		respondWithError(c, err)
		return
	}

	business, err := h.businessService.Update(id, req.toUpdates(), saved)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Business updated successfully", business)
}

// DeleteBusiness hard-deletes a business
// @Summary     Delete a business
// @Tags        businesses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Business ID"
// @Success     200 {object} response.Envelope
// @Failure     404 {object} response.Envelope
// @Router      /businesses/{id} [delete]
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.businessService.Delete(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrBusinessNotFound)
		return
	}

	response.OK(c, "Business deleted successfully", nil)
}

// SearchBusinesses runs a public free-text search over active businesses
// @Summary     Search businesses
// @Tags        businesses
// @Produce     json
// @Param       term query string true "Search term"
// @Param       location query string false "Location or 'Ward N'"
// @Success     200 {object} response.Envelope
// @Router      /businesses/search [get]
func (h *BusinessHandler) SearchBusinesses(c *gin.Context) {
	businesses, err := h.businessService.Search(c.Query("term"), c.Query("location"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Search completed successfully", businesses)
}

// GetBusinessesByWard lists a ward's active businesses
// @Summary     List businesses in a ward
// @Tags        businesses
// @Produce     json
// @Param       ward path int true "Ward number"
// @Success     200 {object} response.Envelope
// @Router      /businesses/ward/{ward} [get]
func (h *BusinessHandler) GetBusinessesByWard(c *gin.Context) {
	ward, err := parsePathID(c, "ward")
	if err != nil {
		respondWithError(c, err)
		return
	}

	businesses, err := h.businessService.ByWard(int(ward))
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Ward businesses retrieved successfully", businesses)
}

// GetBusinessStats returns grouped business statistics
// @Summary     Business statistics
// @Tags        businesses
// @Produce     json
// @Param       ward query int false "Scope to a ward"
// @Success     200 {object} response.Envelope
// @Router      /businesses/stats [get]
func (h *BusinessHandler) GetBusinessStats(c *gin.Context) {
	var ward *int
	if raw := c.Query("ward"); raw != "" {
		if n, err := strconv.Atoi(nepali.ToEnglishDigits(raw)); err == nil {
			ward = &n
		}
	}

	stats, err := h.businessService.Stats(ward)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "Business statistics retrieved successfully", stats)
}
