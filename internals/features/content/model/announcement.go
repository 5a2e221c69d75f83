package model

import "time"

const (
	AnnouncementTypeInfo   = "info"
	AnnouncementTypeUrgent = "urgent"
	AnnouncementTypeEvent  = "event"
)

type Announcement struct {
	Base
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Content     string     `gorm:"column:content;type:text;not null" json:"content" validate:"required"`
	Category    string     `gorm:"column:category;type:varchar(60);not null;index" json:"category" validate:"required,notblank,max=60"`
	Type        string     `gorm:"column:type;type:varchar(20);not null" json:"type" validate:"required,oneof=info urgent event"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at"`
}

func (Announcement) TableName() string { return "announcements" }
