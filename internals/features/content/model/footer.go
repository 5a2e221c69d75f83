package model

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

const (
	FooterLinks   = "links"
	FooterContact = "contact"
	FooterSocial  = "social"
	FooterCustom  = "custom"
)

type FooterSection struct {
	Base
	Title        string         `gorm:"column:title;type:varchar(150);not null" json:"title" validate:"required,notblank,max=150"`
	SectionType  string         `gorm:"column:section_type;type:varchar(20);not null" json:"section_type" validate:"required,oneof=links contact social custom"`
	Content      datatypes.JSON `gorm:"column:content" json:"content"`
	DisplayOrder int            `gorm:"column:display_order;not null;default:0" json:"display_order" validate:"min=0"`
	IsActive     bool           `gorm:"column:is_active;not null" json:"is_active"`
}

func (FooterSection) TableName() string { return "footer_sections" }

type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type FooterLinksContent struct {
	Links []FooterLink `json:"links"`
}

type FooterContactContent struct {
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type FooterPlatform struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FooterSocialContent struct {
	Platforms []FooterPlatform `json:"platforms"`
}

type FooterCustomContent struct {
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

// ValidateContent memeriksa bentuk content sesuai section_type.
// Kunci error memakai path JSON supaya bisa ditampilkan per-field.
func (f *FooterSection) ValidateContent() map[string]string {
	errs := map[string]string{}
	raw := []byte(f.Content)
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		errs["content"] = "content wajib diisi"
		return errs
	}

	switch f.SectionType {
	case FooterLinks:
		var c FooterLinksContent
		if err := strictDecode(raw, &c); err != nil {
			errs["content"] = err.Error()
			return errs
		}
		if len(c.Links) == 0 {
			errs["content.links"] = "minimal satu link"
		}
		for i, l := range c.Links {
			if strings.TrimSpace(l.Label) == "" {
				errs[indexed("content.links", i, "label")] = "label wajib diisi"
			}
			if !validURL(l.URL) {
				errs[indexed("content.links", i, "url")] = "url tidak valid"
			}
		}
	case FooterContact:
		var c FooterContactContent
		if err := strictDecode(raw, &c); err != nil {
			errs["content"] = err.Error()
			return errs
		}
		if c.Address == "" && c.Phone == "" && c.Email == "" {
			errs["content"] = "isi minimal salah satu: address, phone, email"
		}
		if c.Email != "" && !strings.Contains(c.Email, "@") {
			errs["content.email"] = "email tidak valid"
		}
	case FooterSocial:
		var c FooterSocialContent
		if err := strictDecode(raw, &c); err != nil {
			errs["content"] = err.Error()
			return errs
		}
		if len(c.Platforms) == 0 {
			errs["content.platforms"] = "minimal satu platform"
		}
		for i, p := range c.Platforms {
			if strings.TrimSpace(p.Name) == "" {
				errs[indexed("content.platforms", i, "name")] = "name wajib diisi"
			}
			if !validURL(p.URL) {
				errs[indexed("content.platforms", i, "url")] = "url tidak valid"
			}
		}
	case FooterCustom:
		var c FooterCustomContent
		if err := strictDecode(raw, &c); err != nil {
			errs["content"] = err.Error()
			return errs
		}
		if strings.TrimSpace(c.Text) == "" && strings.TrimSpace(c.HTML) == "" {
			errs["content"] = "isi text atau html"
		}
	}
	return errs
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

func strictDecode(raw []byte, dst any) error {
	if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return errors.New("format content tidak sesuai section_type")
	}
	return nil
}

func validURL(s string) bool {
	// link internal ("/ppdb") dan mailto: juga boleh
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "mailto:") || strings.HasPrefix(s, "tel:") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func indexed(prefix string, i int, field string) string {
	return prefix + "[" + strconv.Itoa(i) + "]." + field
}
