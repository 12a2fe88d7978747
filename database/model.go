package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DriverName = "postgres"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	DefaultCategory = "general"
	DefaultAuthor   = "Anonymous"
	DefaultReadTime = "5 min read"
)

type Article struct {
	ID            string    `gorm:"type:varchar(36);primaryKey"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Category      string    `gorm:"type:varchar(40);not null;default:general;index"`
	Excerpt       *string   `gorm:"type:text"`
	Content       *string   `gorm:"type:text"`
	Author        string    `gorm:"type:varchar(120);not null;default:Anonymous"`
	ImageURL      *string   `gorm:"type:text"`
	ReadTime      *string   `gorm:"type:varchar(40)"`
	Published     bool      `gorm:"not null;default:false;index"`
	Featured      bool      `gorm:"not null;default:false"`
	FeaturedOrder int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
	Comments      []Comment `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}

type Comment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	ArticleID  string    `gorm:"type:varchar(36);not null;index"`
	UserID     string    `gorm:"type:varchar(36);not null;index"`
	Content    string    `gorm:"type:text;not null"`
	AuthorName string    `gorm:"type:varchar(120);not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}

type NewsletterSubscriber struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	IsActive     bool      `gorm:"not null;default:true"`
	SubscribedAt time.Time `gorm:"not null;index"`
}

func (s *NewsletterSubscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now().UTC()
	}

	return nil
}

type UserRole struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex"`
	Role      string    `gorm:"type:varchar(10);not null;default:user"`
	CreatedAt time.Time `gorm:"index"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}

func (r UserRole) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// User is the identity record owned by the auth provider.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}
