package model

import "time"

type IDType string

const (
	IDTypeCedula           IDType = "cedula"
	IDTypePasaporte        IDType = "pasaporte"
	IDTypeTarjetaIdentidad IDType = "tarjeta_identidad"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a borrower. Operators who sign in are Operator.
type User struct {
	ID             string    `json:"_id" db:"id" bson:"_id"`
	IDType         IDType    `json:"tipoIdentificacion" db:"id_type" bson:"tipoIdentificacion"`
	Identification string    `json:"identificacion" db:"identification" bson:"identificacion"`
	Name           string    `json:"nombre" db:"name" bson:"nombre"`
	Surname        string    `json:"apellido" db:"surname" bson:"apellido"`
	Phone          string    `json:"telefono" db:"phone" bson:"telefono"`
	Address        string    `json:"direccion" db:"address" bson:"direccion"`
	Email          string    `json:"email" db:"email" bson:"email"`
	Role           Role      `json:"rol" db:"role" bson:"rol"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

func (u User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}

type CreateUserRequest struct {
	IDType         IDType `json:"tipoIdentificacion" validate:"required,oneof=cedula pasaporte tarjeta_identidad"`
	Identification string `json:"identificacion" validate:"required"`
	Name           string `json:"nombre" validate:"required"`
	Surname        string `json:"apellido" validate:"required"`
	Phone          string `json:"telefono" validate:"required"`
	Address        string `json:"direccion" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Role           Role   `json:"rol" validate:"omitempty,oneof=admin user"`
}

type UpdateUserRequest = CreateUserRequest
