package entity

import (
	"time"
)

type User struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	FullName  string    `json:"full_name,omitempty" firestore:"fullName,omitempty"`
	FirmName  string    `json:"firm_name,omitempty" firestore:"firmName,omitempty"`
	Role      string    `json:"role" firestore:"role"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
