package user

import "go.mongodb.org/mongo-driver/bson/primitive"

// User идентифицируется email; ID - суррогатный ключ документа.
type User struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty" db:"id"`
	Email       string             `json:"email" bson:"email" db:"email"`
	Name        string             `json:"name" bson:"name" db:"name"`
	Image       string             `json:"image" bson:"image" db:"image"`
	Location    string             `json:"location" bson:"location" db:"location"`
	Description string             `json:"description" bson:"description" db:"description"`
}

// Profile - изменяемые поля пользователя, PUT /users перезаписывает их целиком.
type Profile struct {
	Name        string
	Location    string
	Description string
	Image       string
}

func (u *User) SetProfile(p Profile) {
	u.Name = p.Name
	u.Location = p.Location
	u.Description = p.Description
	u.Image = p.Image
}
