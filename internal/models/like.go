package models

import "time"

// Like is a single entry in a product's like-set. The composite primary key
// guarantees a user ID appears at most once per product.
type Like struct {
	ProductID string    `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
