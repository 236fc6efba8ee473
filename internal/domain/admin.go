package domain

import "time"

type Admin struct {
	ID           string    `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"`
	LastLogin    time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
