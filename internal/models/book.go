package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title         string    `gorm:"not null;index" json:"title"`
	Author        string    `gorm:"not null;index" json:"author"`
	PublishedDate *string   `gorm:"type:varchar(10);index" json:"published_date"`
	Price         float64   `gorm:"not null;default:0" json:"price"`
	Summary       *string   `gorm:"type:text" json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Book) TableName() string {
	return "books"
}
