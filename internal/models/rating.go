package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a user's score for a store. A user has at most one rating per store.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StoreID   string    `json:"store_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_store_user"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_store_user;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Feedback  string    `json:"feedback" gorm:"type:text"`
	Store     *Store    `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreRatingRow is a rating on a store joined with the rating user.
type StoreRatingRow struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingRow is one row of the admin rating listing.
type RatingRow struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	StoreName string    `json:"storeName"`
}

// StoreRatings is the per-store aggregate shown to owners.
type StoreRatings struct {
	StoreID     string           `json:"storeId"`
	AvgRating   float64          `json:"avgRating"`
	RatingCount int64            `json:"ratingCount"`
	Ratings     []StoreRatingRow `json:"ratings"`
}

// DashboardSummary holds the admin dashboard counters.
type DashboardSummary struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}
