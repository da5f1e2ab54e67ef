package model

import "time"

type Client struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	CNPJ          *string   `json:"cnpj"`
	Observations  *string   `json:"observations"`
	CreatedAt     time.Time `json:"created_at"`
}
