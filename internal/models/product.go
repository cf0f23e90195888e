package models

import "gorm.io/gorm"

// Product represents a product in the catalog.
type Product struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string  `json:"name" validate:"required,min=1,max=100"`
	Price      float64 `json:"price" validate:"gte=0"`
	UserID     string  `json:"user_id" gorm:"index;type:varchar(36)"`
	ImageFile  string  `json:"image_file" gorm:"type:varchar(100)"`
	Likes      []Like  `json:"-"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// LikedBy returns the like-set as a list of user IDs.
func (p *Product) LikedBy() []string {
	users := make([]string, 0, len(p.Likes))
	for _, l := range p.Likes {
		users = append(users, l.UserID)
	}
	return users
}
