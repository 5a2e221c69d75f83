package model

type StaffMember struct {
	Base
	Name         string `gorm:"column:name;type:varchar(150);not null" json:"name" validate:"required,notblank,max=150"`
	Position     string `gorm:"column:position;type:varchar(150);not null" json:"position" validate:"required,notblank,max=150"`
	Subject      string `gorm:"column:subject;type:varchar(100)" json:"subject"`
	Email        string `gorm:"column:email;type:varchar(150)" json:"email" validate:"omitempty,email"`
	Bio          string `gorm:"column:bio;type:text" json:"bio"`
	ImageURL     string `gorm:"column:image_url;type:text" json:"image_url" validate:"omitempty,url"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order" validate:"min=0"`
	IsActive     bool   `gorm:"column:is_active;not null" json:"is_active"`
}

func (StaffMember) TableName() string { return "staff_members" }

type Leader struct {
	Base
	Name         string `gorm:"column:name;type:varchar(150);not null" json:"name" validate:"required,notblank,max=150"`
	Position     string `gorm:"column:position;type:varchar(150);not null" json:"position" validate:"required,notblank,max=150"`
	Period       string `gorm:"column:period;type:varchar(40)" json:"period"`
	Message      string `gorm:"column:message;type:text" json:"message"`
	ImageURL     string `gorm:"column:image_url;type:text" json:"image_url" validate:"omitempty,url"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order" validate:"min=0"`
	IsActive     bool   `gorm:"column:is_active;not null" json:"is_active"`
}

func (Leader) TableName() string { return "leadership" }

type SchoolFacility struct {
	Base
	Name         string `gorm:"column:name;type:varchar(150);not null" json:"name" validate:"required,notblank,max=150"`
	Description  string `gorm:"column:description;type:text" json:"description"`
	ImageURL     string `gorm:"column:image_url;type:text" json:"image_url" validate:"omitempty,url"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order" validate:"min=0"`
	IsActive     bool   `gorm:"column:is_active;not null" json:"is_active"`
}

func (SchoolFacility) TableName() string { return "school_facilities" }
