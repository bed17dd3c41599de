package models

import "time"

// Store represents a rateable store. OwnerID is nil while the store is unassigned.
type Store struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Address   string    `json:"address" gorm:"type:varchar(400);not null"`
	OwnerID   *string   `json:"owner_id" gorm:"type:varchar(36);index"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreSummary is a store with its computed average rating.
type StoreSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int64   `json:"rating_count,omitempty"`
}

// StoreRow is one row of the admin store listing.
type StoreRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	OwnerName  *string   `json:"ownerName"`
	OwnerEmail *string   `json:"ownerEmail"`
	AvgRating  float64   `json:"avg_rating"`
}
