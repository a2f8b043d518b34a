// internal/models/service.go
package models

// Provider is the service provider the escrow is created for.
type Provider struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ServiceDetails is the form data of the Service Details step.
type ServiceDetails struct {
	Provider    Provider `json:"provider"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Deadline    string   `json:"deadline,omitempty"` // YYYY-MM-DD
}

// DefaultProvider is the provider shown on a new escrow draft.
var DefaultProvider = Provider{Name: "Arjun Mehta", Title: "Full Stack Developer"}
