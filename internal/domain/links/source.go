package links

import "time"

// Source is the origin of a link, deduplicated by base URL.
type Source struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BaseURL string `gorm:"column:baseurl;type:text;not null;uniqueIndex" json:"baseurl"`
	LogoURI string `gorm:"column:logo_uri;type:text" json:"logo_uri,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"-"`
}

func (Source) TableName() string { return "sources" }
