package model

type LearningMaterial struct {
	Base
	Title       string `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Subject     string `gorm:"column:subject;type:varchar(100);not null;index" json:"subject" validate:"required,notblank,max=100"`
	ClassLevel  string `gorm:"column:class_level;type:varchar(40);not null;index" json:"class_level" validate:"required,notblank,max=40"`
	FileType    string `gorm:"column:file_type;type:varchar(40)" json:"file_type"`
	FileSize    int64  `gorm:"column:file_size;not null;default:0" json:"file_size" validate:"min=0"`
	FileURL     string `gorm:"column:file_url;type:text;not null" json:"file_url" validate:"required,url"`
	Downloads   int64  `gorm:"column:downloads;not null;default:0" json:"downloads"`
}

func (LearningMaterial) TableName() string { return "learning_materials" }
