package model

type Author struct {
	ID          string   `json:"_id" db:"id" bson:"_id"`
	Name        string   `json:"nombre" db:"name" bson:"nombre"`
	Surname     string   `json:"apellido" db:"surname" bson:"apellido"`
	Nationality string   `json:"nacionalidad" db:"nationality" bson:"nacionalidad"`
	Genres      []string `json:"generos" db:"genres" bson:"generos"`
	Biography   string   `json:"biografia" db:"biography" bson:"biografia"`
	PhotoURL    string   `json:"fotografia" db:"photo_url" bson:"fotografia"`
	Works       []string `json:"obras" db:"works" bson:"obras"`
	Awards      string   `json:"premios" db:"awards" bson:"premios"`
	Language    string   `json:"idioma" db:"language" bson:"idioma"`
	Social      string   `json:"redes" db:"social" bson:"redes"`
}

type CreateAuthorRequest struct {
	Name        string   `json:"nombre" validate:"required"`
	Surname     string   `json:"apellido" validate:"required"`
	Nationality string   `json:"nacionalidad" validate:"required"`
	Genres      []string `json:"generos" validate:"required,min=1,dive,required"`
	Biography   string   `json:"biografia" validate:"required,min=50"`
	PhotoURL    string   `json:"fotografia" validate:"required"`
	Works       []string `json:"obras"`
	Awards      string   `json:"premios"`
	Language    string   `json:"idioma" validate:"required"`
	Social      string   `json:"redes"`
}

type UpdateAuthorRequest = CreateAuthorRequest
