// internal/models/onboarding.go
package models

type IdentityDetails struct {
	PAN             string `json:"pan"`
	PANVerified     bool   `json:"panVerified"`
	Aadhaar         string `json:"aadhaar"`
	AadhaarVerified bool   `json:"aadhaarVerified"`
}

type AddressDetails struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	PINCode string `json:"pinCode"`
}

// BusinessDetails holds the optional KYB data. IsCompany is nil until the
// user has chosen between individual and company.
type BusinessDetails struct {
	IsCompany  *bool  `json:"isCompany"`
	CompanyPAN string `json:"companyPan,omitempty"`
	GSTIN      string `json:"gstin,omitempty"`
	CIN        string `json:"cin,omitempty"`
}

type BankDetails struct {
	AccountHolder        string `json:"accountHolder"`
	AccountNumber        string `json:"accountNumber"`
	ConfirmAccountNumber string `json:"confirmAccountNumber"`
	IFSC                 string `json:"ifsc"`
	Verified             bool   `json:"verified"`
}
