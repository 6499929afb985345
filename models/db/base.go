package dbmodels

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BaseSessionModel запись, привязанная к сессии рекрутера и организации
type BaseSessionModel struct {
	BaseModel
	SessionID string `gorm:"type:varchar(36);index"`
	OrgEmail  string `gorm:"type:varchar(255);index"`
}
