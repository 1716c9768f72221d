package model

import "time"

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityLoaned      Availability = "loaned"
	AvailabilityReserved    Availability = "reserved"
	AvailabilityMaintenance Availability = "maintenance"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityLoaned, AvailabilityReserved, AvailabilityMaintenance:
		return true
	}
	return false
}

type Book struct {
	ID           string       `json:"_id" db:"id" bson:"_id"`
	Title        string       `json:"titulo" db:"title" bson:"titulo"`
	AuthorID     string       `json:"autor" db:"author_id" bson:"autor"`
	ISBN         string       `json:"isbn" db:"isbn" bson:"isbn"`
	Publisher    string       `json:"editorial" db:"publisher" bson:"editorial"`
	Year         int          `json:"año_publicacion" db:"year" bson:"año_publicacion"`
	Genre        string       `json:"genero" db:"genre" bson:"genero"`
	Pages        int          `json:"paginas" db:"pages" bson:"paginas"`
	Language     string       `json:"idioma" db:"language" bson:"idioma"`
	Synopsis     string       `json:"sinopsis" db:"synopsis" bson:"sinopsis"`
	CoverURL     string       `json:"portada" db:"cover_url" bson:"portada"`
	Availability Availability `json:"disponibilidad" db:"availability" bson:"disponibilidad"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

type BookFilter struct {
	Availability Availability
	AuthorID     string
}

type CreateBookRequest struct {
	Title        string       `json:"titulo" validate:"required"`
	AuthorID     string       `json:"autor" validate:"required"`
	ISBN         string       `json:"isbn" validate:"required,min=10,max=17"`
	Publisher    string       `json:"editorial" validate:"required"`
	Year         int          `json:"año_publicacion" validate:"required,gte=0,lte=9999"`
	Genre        string       `json:"genero" validate:"required"`
	Pages        int          `json:"paginas" validate:"required,gt=0"`
	Language     string       `json:"idioma" validate:"required"`
	Synopsis     string       `json:"sinopsis" validate:"required"`
	CoverURL     string       `json:"portada" validate:"omitempty,url"`
	Availability Availability `json:"disponibilidad" validate:"omitempty,oneof=available loaned reserved maintenance"`
}

type SetAvailabilityRequest struct {
	Availability Availability `json:"disponibilidad" validate:"required,oneof=available loaned reserved maintenance"`
}

// UpdateBookRequest replaces the editable fields of a book. Availability may
// be edited directly, which bypasses the loan ledger.
type UpdateBookRequest = CreateBookRequest
