package model

import "gorm.io/datatypes"

type HeroSection struct {
	Base
	Title              string `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Subtitle           string `gorm:"column:subtitle;type:text" json:"subtitle"`
	Description        string `gorm:"column:description;type:text" json:"description"`
	BackgroundImageURL string `gorm:"column:background_image_url;type:text" json:"background_image_url" validate:"omitempty,url"`
	CtaLabel           string `gorm:"column:cta_label;type:varchar(80)" json:"cta_label" validate:"max=80"`
	CtaURL             string `gorm:"column:cta_url;type:text" json:"cta_url"`
}

func (HeroSection) TableName() string { return "hero_section" }

type AboutSection struct {
	Base
	Title      string                      `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Subtitle   string                      `gorm:"column:subtitle;type:text" json:"subtitle"`
	Content    string                      `gorm:"column:content;type:text" json:"content"`
	ImageURL   string                      `gorm:"column:image_url;type:text" json:"image_url" validate:"omitempty,url"`
	Highlights datatypes.JSONSlice[string] `gorm:"column:highlights" json:"highlights"`
}

func (AboutSection) TableName() string { return "about_section" }

type VisionSection struct {
	Base
	Title    string                      `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Vision   string                      `gorm:"column:vision;type:text" json:"vision"`
	Missions datatypes.JSONSlice[string] `gorm:"column:missions" json:"missions"`
	Goals    datatypes.JSONSlice[string] `gorm:"column:goals" json:"goals"`
	ImageURL string                      `gorm:"column:image_url;type:text" json:"image_url" validate:"omitempty,url"`
}

func (VisionSection) TableName() string { return "vision_section" }

type Milestone struct {
	Year  string `json:"year"`
	Event string `json:"event"`
}

type HistorySection struct {
	Base
	Title      string                         `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Content    string                         `gorm:"column:content;type:text" json:"content"`
	ImageURL   string                         `gorm:"column:image_url;type:text" json:"image_url" validate:"omitempty,url"`
	Milestones datatypes.JSONSlice[Milestone] `gorm:"column:milestones" json:"milestones"`
}

func (HistorySection) TableName() string { return "history_section" }
