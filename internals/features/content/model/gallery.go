package model

// GalleryItem adalah foto tunggal (tanpa grup).
type GalleryItem struct {
	Base
	Title       string `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	ImageURL    string `gorm:"column:image_url;type:text;not null" json:"image_url" validate:"required,url"`
	Category    string `gorm:"column:category;type:varchar(60);not null;index" json:"category" validate:"required,notblank,max=60"`
	Description string `gorm:"column:description;type:text" json:"description"`
	DateTaken   *Date  `gorm:"column:date_taken" json:"date_taken"`
}

func (GalleryItem) TableName() string { return "gallery_items" }

type GalleryGroup struct {
	Base
	Title         string `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,notblank,max=255"`
	Description   string `gorm:"column:description;type:text" json:"description"`
	Category      string `gorm:"column:category;type:varchar(60);not null;index" json:"category" validate:"required,notblank,max=60"`
	CoverImageURL string `gorm:"column:cover_image_url;type:text" json:"cover_image_url" validate:"omitempty,url"`
	DateTaken     *Date  `gorm:"column:date_taken" json:"date_taken"`
}

func (GalleryGroup) TableName() string { return "gallery_groups" }

// GalleryGroupItem selalu menunjuk ke gallery_groups.id.
type GalleryGroupItem struct {
	Base
	GroupID      string `gorm:"column:group_id;type:varchar(64);not null;index" json:"group_id" validate:"required"`
	Title        string `gorm:"column:title;type:varchar(255)" json:"title" validate:"max=255"`
	ImageURL     string `gorm:"column:image_url;type:text;not null" json:"image_url" validate:"required,url"`
	AltText      string `gorm:"column:alt_text;type:text" json:"alt_text"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order" validate:"min=0"`
}

func (GalleryGroupItem) TableName() string { return "gallery_group_items" }
