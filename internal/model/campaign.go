// internal/model/campaign.go
package model

import "time"

// Status is the campaign lifecycle state. The values are rendered
// verbatim by the frontend, so they stay in Portuguese.
type Status string

const (
    StatusPausada  Status = "PAUSADA"
    StatusAtiva    Status = "ATIVA"
    StatusExpirada Status = "EXPIRADA"
)

// Statuses returns every accepted status value.
func Statuses() []Status {
    return []Status{StatusPausada, StatusAtiva, StatusExpirada}
}

func (s Status) Valid() bool {
    switch s {
    case StatusPausada, StatusAtiva, StatusExpirada:
        return true
    }
    return false
}

// Category is the closed set of marketing categories.
type Category string

const (
    CategorySEO              Category = "SEO"
    CategorySocialMedia      Category = "SOCIAL_MEDIA"
    CategoryAds              Category = "ADS"
    CategoryEmailMarketing   Category = "EMAIL_MARKETING"
    CategoryContentMarketing Category = "CONTENT_MARKETING"
    CategoryAnalytics        Category = "ANALYTICS"
    CategoryPromocao         Category = "PROMOCAO"
)

// Categories returns every accepted category value.
func Categories() []Category {
    return []Category{
        CategorySEO,
        CategorySocialMedia,
        CategoryAds,
        CategoryEmailMarketing,
        CategoryContentMarketing,
        CategoryAnalytics,
        CategoryPromocao,
    }
}

func (c Category) Valid() bool {
    for _, v := range Categories() {
        if c == v {
            return true
        }
    }
    return false
}

// Campaign is the single managed entity. DeletedAt marks soft-deletion:
// nil means the row is live, anything else hides it from every read path.
type Campaign struct {
    ID          string     `db:"id" json:"id"`
    Name        string     `db:"name" json:"name"`
    Description string     `db:"description" json:"description"`
    Status      Status     `db:"status" json:"status"`
    Category    Category   `db:"category" json:"category"`
    DateInsert  time.Time  `db:"dateInsert" json:"dateInsert"`
    DateInitial time.Time  `db:"dateInitial" json:"dateInitial"`
    DateEnd     time.Time  `db:"dateEnd" json:"dateEnd"`
    DeletedAt   *time.Time `db:"deletedAt" json:"-"`
}
