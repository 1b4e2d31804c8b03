package domain

// Client is a customer of the practice. Deleting a client only deactivates it.
type Client struct {
	Ownership   `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phone_number"`
	CompanyName string `json:"companyName,omitempty" bson:"company_name,omitempty"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
	IsActive    bool   `json:"isActive" bson:"is_active"`
}
