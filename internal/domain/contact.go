package domain

import "time"

// Contact is a recipient record. Contacts are owned by the contacts
// subsystem; the send pipeline only ever reads them.
type Contact struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	CompanyName string    `json:"company_name" db:"company_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PersonalizationFields returns the token values used for template
// substitution for this contact.
func (c Contact) PersonalizationFields() map[string]string {
	return map[string]string{
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"company_name": c.CompanyName,
		"email":        c.Email,
	}
}
