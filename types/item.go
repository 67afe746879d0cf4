package types

import "time"

// Item type values.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item status values.
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
)

// Contact preference values.
const (
	ContactByEmail = "email"
	ContactByPhone = "phone"
	ContactByBoth  = "both"
)

// Categories is the fixed category list shared by the client and the
// item filter logic.
var Categories = []string{
	"Electronics",
	"Books",
	"ID Cards",
	"Keys",
	"Clothing",
	"Accessories",
	"Bags",
	"Wallets",
	"Jewelry",
	"Sports Equipment",
	"Other",
}

// Item is a lost or found report. The user* fields are a snapshot of
// the reporting user taken at creation time; they are not kept in sync
// with later changes to the user record.
type Item struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`

	// Images holds the public URLs returned by the upload gateway, in
	// submission order. May be empty.
	Images []string `json:"images"`

	Status            string `json:"status"`
	Urgent            bool   `json:"urgent"`
	ContactPreference string `json:"contactPreference"`

	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`
	College   string `json:"college"`

	CreatedAt time.Time `json:"createdAt"`
}

// ItemUpdate carries a partial-field update for an item. Nil fields
// are left untouched.
type ItemUpdate struct {
	Type              *string    `json:"type,omitempty"`
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Category          *string    `json:"category,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Date              *time.Time `json:"date,omitempty"`
	Images            *[]string  `json:"images,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Urgent            *bool      `json:"urgent,omitempty"`
	ContactPreference *string    `json:"contactPreference,omitempty"`
}

// ItemFilter selects a subset of items. Zero-valued fields do not
// filter; Urgent is tri-state (nil means "don't filter").
type ItemFilter struct {
	Type     string
	Category string
	Status   string
	Search   string
	Urgent   *bool
}
