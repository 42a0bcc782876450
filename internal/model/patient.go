package model

// Patient is a clinic patient record. Number is the human-facing
// sequential patient number assigned by the database.
type Patient struct {
	Base
	Number      int    `db:"number" json:"number"`
	Name        string `db:"name" json:"name"`
	DateOfBirth Date   `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	Email       string `db:"email" json:"email,omitempty"`
	Address     string `db:"address" json:"address,omitempty"`
}

type CreatePatientRequest struct {
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
}

type UpdatePatientRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
}
