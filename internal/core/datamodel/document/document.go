package document

import "time"

type Document struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	Title      string    `gorm:"column:title;not null"`
	CategoryID string    `gorm:"column:category_id;type:uuid;index;not null"`
	OwnedBy    string    `gorm:"column:owned_by;type:uuid;index;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (Document) TableName() string { return "documents" }
