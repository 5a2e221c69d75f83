package repository

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/helpers/events"
)

const (
	TopicFooter  = "footer.updated"
	TopicGallery = "gallery.updated"
)

type (
	HeroRepo          = Repository[model.HeroSection, *model.HeroSection]
	AboutRepo         = Repository[model.AboutSection, *model.AboutSection]
	VisionRepo        = Repository[model.VisionSection, *model.VisionSection]
	HistoryRepo       = Repository[model.HistorySection, *model.HistorySection]
	AnnouncementRepo  = Repository[model.Announcement, *model.Announcement]
	GalleryItemRepo   = Repository[model.GalleryItem, *model.GalleryItem]
	GalleryGroupRepo  = Repository[model.GalleryGroup, *model.GalleryGroup]
	GroupItemRepo     = Repository[model.GalleryGroupItem, *model.GalleryGroupItem]
	MaterialRepo      = Repository[model.LearningMaterial, *model.LearningMaterial]
	StaffRepo         = Repository[model.StaffMember, *model.StaffMember]
	FacilityRepo      = Repository[model.SchoolFacility, *model.SchoolFacility]
	LeaderRepo        = Repository[model.Leader, *model.Leader]
	FooterSectionRepo = Repository[model.FooterSection, *model.FooterSection]
)

// Catalog berisi repository semua entitas konten.
type Catalog struct {
	Hero          *HeroRepo
	About         *AboutRepo
	Vision        *VisionRepo
	History       *HistoryRepo
	Announcements *AnnouncementRepo
	GalleryItems  *GalleryItemRepo
	GalleryGroups *GalleryGroupRepo
	GroupItems    *GroupItemRepo
	Materials     *MaterialRepo
	Staff         *StaffRepo
	Facilities    *FacilityRepo
	Leadership    *LeaderRepo
	Footer        *FooterSectionRepo

	resources map[string]Resource
}

var imageKey = []string{"image_url"}

var peopleSorts = map[string]string{
	"display_order": "display_order",
	"name":          "name",
	"created_at":    "created_at",
}

func NewCatalog(db *gorm.DB, bus events.Publisher) *Catalog {
	c := &Catalog{
		Hero:    New[model.HeroSection](db, Schema[model.HeroSection]{Name: "hero", Singleton: true, Files: []string{"background_image_url"}}, bus),
		About:   New[model.AboutSection](db, Schema[model.AboutSection]{Name: "about", Singleton: true, Files: imageKey}, bus),
		Vision:  New[model.VisionSection](db, Schema[model.VisionSection]{Name: "vision", Singleton: true, Files: imageKey}, bus),
		History: New[model.HistorySection](db, Schema[model.HistorySection]{Name: "history", Singleton: true, Files: imageKey}, bus),

		Announcements: New[model.Announcement](db, Schema[model.Announcement]{
			Name:     "announcements",
			Defaults: func(a *model.Announcement) { a.Type = model.AnnouncementTypeInfo },
			Normalize: func(a *model.Announcement) {
				if a.PublishedAt == nil {
					now := time.Now()
					a.PublishedAt = &now
				}
			},
			Filters:     map[string]string{"category": "category", "type": "type"},
			Sorts:       map[string]string{"published_at": "published_at", "created_at": "created_at", "title": "title"},
			DefaultSort: "published_at DESC, created_at DESC",
			Search:      []string{"title", "content"},
		}, bus),

		GalleryItems: New[model.GalleryItem](db, Schema[model.GalleryItem]{
			Name:        "gallery-items",
			Topic:       TopicGallery,
			Files:       imageKey,
			Filters:     map[string]string{"category": "category"},
			Sorts:       map[string]string{"date_taken": "date_taken", "created_at": "created_at", "title": "title"},
			DefaultSort: "created_at DESC",
			Search:      []string{"title", "description"},
		}, bus),

		GalleryGroups: New[model.GalleryGroup](db, Schema[model.GalleryGroup]{
			Name:        "gallery-groups",
			Topic:       TopicGallery,
			Managed:     true,
			Filters:     map[string]string{"category": "category"},
			Sorts:       map[string]string{"date_taken": "date_taken", "created_at": "created_at", "title": "title"},
			DefaultSort: "created_at DESC",
			Search:      []string{"title", "description"},
		}, bus),

		GroupItems: New[model.GalleryGroupItem](db, Schema[model.GalleryGroupItem]{
			Name:        "gallery-group-items",
			Topic:       TopicGallery,
			ReadOnly:    []string{"group_id"},
			Files:       imageKey,
			Managed:     true,
			Filters:     map[string]string{"group_id": "group_id"},
			Sorts:       map[string]string{"display_order": "display_order", "created_at": "created_at"},
			DefaultSort: "display_order ASC, created_at ASC",
		}, bus),

		Materials: New[model.LearningMaterial](db, Schema[model.LearningMaterial]{
			Name:        "materials",
			Filters:     map[string]string{"subject": "subject", "class_level": "class_level", "file_type": "file_type"},
			Sorts:       map[string]string{"created_at": "created_at", "downloads": "downloads", "title": "title"},
			DefaultSort: "created_at DESC",
			Search:      []string{"title", "description"},
			ReadOnly:    []string{"downloads"},
			Files:       []string{"file_url"},
		}, bus),

		Staff: New[model.StaffMember](db, Schema[model.StaffMember]{
			Name:         "staff",
			Files:        imageKey,
			Defaults:     func(s *model.StaffMember) { s.IsActive = true },
			Filters:      map[string]string{"position": "position", "subject": "subject"},
			Sorts:        peopleSorts,
			DefaultSort:  "display_order ASC, name ASC",
			Search:       []string{"name", "position"},
			ActiveColumn: "is_active",
		}, bus),

		Facilities: New[model.SchoolFacility](db, Schema[model.SchoolFacility]{
			Name:         "facilities",
			Files:        imageKey,
			Defaults:     func(f *model.SchoolFacility) { f.IsActive = true },
			Sorts:        peopleSorts,
			DefaultSort:  "display_order ASC, name ASC",
			Search:       []string{"name", "description"},
			ActiveColumn: "is_active",
		}, bus),

		Leadership: New[model.Leader](db, Schema[model.Leader]{
			Name:         "leadership",
			Files:        imageKey,
			Defaults:     func(l *model.Leader) { l.IsActive = true },
			Filters:      map[string]string{"position": "position"},
			Sorts:        peopleSorts,
			DefaultSort:  "display_order ASC, name ASC",
			ActiveColumn: "is_active",
		}, bus),

		Footer: New[model.FooterSection](db, Schema[model.FooterSection]{
			Name:         "footer-sections",
			Topic:        TopicFooter,
			Defaults:     func(f *model.FooterSection) { f.IsActive = true },
			Validate:     func(f *model.FooterSection) map[string]string { return f.ValidateContent() },
			Filters:      map[string]string{"section_type": "section_type"},
			Sorts:        map[string]string{"display_order": "display_order", "title": "title", "created_at": "created_at"},
			DefaultSort:  "display_order ASC, created_at ASC",
			ActiveColumn: "is_active",
		}, bus),
	}

	c.resources = map[string]Resource{}
	for _, r := range []Resource{
		c.Hero, c.About, c.Vision, c.History, c.Announcements, c.GalleryItems,
		c.GalleryGroups, c.GroupItems, c.Materials, c.Staff, c.Facilities,
		c.Leadership, c.Footer,
	} {
		c.resources[r.Name()] = r
	}
	return c
}

// Resource mencari repository berdasarkan nama entitas.
func (c *Catalog) Resource(name string) (Resource, bool) {
	r, ok := c.resources[name]
	return r, ok
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.resources))
	for n := range c.resources {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
