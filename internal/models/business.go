package models

// Business is the central registry entity. Optional numeric fields are
// pointers so that "not reported" stays NULL and is excluded from grouped
// statistics and top-N rankings.
type Business struct {
	Base

	// Basic information
	BusinessName      string `gorm:"not null;index" json:"businessName"`
	ContactPerson     string `gorm:"not null" json:"contactPerson"`
	Position          string `json:"position,omitempty"`
	BusinessAddress   string `gorm:"not null" json:"businessAddress"`
	ContactNumber     string `gorm:"not null" json:"contactNumber"`
	Email             string `json:"email,omitempty"`
	Tole              string `json:"tole,omitempty"`
	WardNumber        int    `gorm:"not null;index" json:"wardNumber"`
	Municipality      string `json:"municipality,omitempty"`
	EstablishmentYear string `json:"establishmentYear,omitempty"`
	OwnershipType     string `json:"ownershipType,omitempty"`

	// Classification
	BusinessType  string `json:"businessType,omitempty"`
	BusinessField string `json:"businessField,omitempty"`
	CategoryID    *uint  `gorm:"index" json:"categoryId,omitempty"`

	// Operation details
	TotalInvestment     *float64 `json:"totalInvestment,omitempty"`
	LocationOwnership   string   `json:"locationOwnership,omitempty"`
	AnnualTurnover      *float64 `json:"annualTurnover,omitempty"`
	RegistrationNumber  string   `json:"registrationNumber,omitempty"`
	VATNumber           string   `json:"vatNumber,omitempty"`
	LaborPermit         string   `json:"laborPermit,omitempty"`
	PANNumber           string   `json:"panNumber,omitempty"`
	EnvironmentApproval string   `json:"environmentApproval,omitempty"`
	OtherPermits        string   `json:"otherPermits,omitempty"`

	// Employment
	PermanentEmployees         *int     `json:"permanentEmployees,omitempty"`
	FemaleEmployees            *int     `json:"femaleEmployees,omitempty"`
	TemporaryContractEmployees *int     `json:"temporaryContractEmployees,omitempty"`
	MarginalizedEmployees      *int     `json:"marginalizedEmployees,omitempty"`
	PartTimeFreelancers        *int     `json:"partTimeFreelancers,omitempty"`
	AvgSalary                  *float64 `json:"avgSalary,omitempty"`

	// Financials
	IncomeSource string   `json:"incomeSource,omitempty"`
	AvgIncome    *float64 `json:"avgIncome,omitempty"`
	AvgExpense   *float64 `json:"avgExpense,omitempty"`
	LoanProvider string   `json:"loanProvider,omitempty"`
	LoanAmount   *float64 `json:"loanAmount,omitempty"`
	LoanDuration string   `json:"loanDuration,omitempty"`

	// Plans and contributions
	ExpansionPlans        string `json:"expansionPlans,omitempty"`
	MainChallenges        string `json:"mainChallenges,omitempty"`
	MunicipalSupport      string `json:"municipalSupport,omitempty"`
	CommunityContribution string `json:"communityContribution,omitempty"`
	AdditionalSupport     string `json:"additionalSupport,omitempty"`
	FormFilledDate        string `json:"formFilledDate,omitempty"`
	FinalRemarks          string `json:"finalRemarks,omitempty"`

	// Administrative
	IsActive    bool `gorm:"default:true;index" json:"isActive"`
	CreatedByID uint `gorm:"not null" json:"createdById"`

	// Relationships
	Category  *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedBy *User              `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Documents []BusinessDocument `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}
