// Package domain defines the normalized domain types for a Monday.com item
// export. These types represent the core concepts independent of the
// Monday.com GraphQL API structure.
package domain

import "strings"

// Item is the complete snapshot of a single Monday.com work item, fetched
// once and consumed read-only during document building.
type Item struct {
	ID           string        // Monday.com item ID
	Name         string        // Item title
	State        string        // Lifecycle state (e.g., "active", "archived")
	CreatedAt    string        // ISO8601 timestamp of creation
	UpdatedAt    string        // ISO8601 timestamp of last update
	Creator      User          // Item creator (name/email may be empty)
	Board        Board         // Parent board
	Group        Group         // Parent group within the board
	ColumnValues []ColumnValue // Column values in board order
	Assets       []Asset       // Files attached directly to the item
	Updates      []Update      // Updates oldest-first, capped at 100 by the API
}

// User identifies an account on the platform.
type User struct {
	ID    string
	Name  string
	Email string
}

// Board is the parent board of an item.
type Board struct {
	ID        string
	Name      string
	Workspace string // Workspace name (may be empty for the main workspace)
}

// Group is the colored group an item belongs to within its board.
type Group struct {
	Title string
	Color string
}

// ColumnValue is one cell of an item's row. Rendering depends only on Type.
type ColumnValue struct {
	ID    string
	Type  string // Column type tag (see ColumnType constants)
	Text  string // Display text (empty when the cell is unset)
	Value string // Raw JSON value as returned by the API
}

// Asset is a file attachment, either on the item directly or on an update.
// At least one of URL/PublicURL must be set for the asset to be downloadable;
// when both are empty the asset is skipped.
type Asset struct {
	ID        string
	Name      string
	URL       string // Authenticated URL
	PublicURL string // Pre-signed public URL, preferred when present
	Extension string // File extension reported by the API (e.g., ".png")
	Size      int64  // File size in bytes (0 when unknown)
}

// Update is a top-level comment on an item.
type Update struct {
	ID        string
	Body      string // HTML body, scanned for embedded images
	TextBody  string // Plain-text body used in the rendered document
	CreatedAt string // ISO8601 timestamp
	Creator   string // Creator display name
	Assets    []Asset
	Replies   []Reply
}

// Reply is a response to an Update. Replies nest one level only and carry
// no attachment list of their own.
type Reply struct {
	ID        string
	Body      string
	TextBody  string
	CreatedAt string
	Creator   string
}

// Column type constants for the types that get dedicated labels.
const (
	ColumnTypePeople = "people"
	ColumnTypeStatus = "status"
	ColumnTypeDate   = "date"
)

// imageExtensions are the filename extensions rendered inline as images.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

// IsImageFilename reports whether a filename should be rendered as an inline
// image rather than a link. Matching is a case-insensitive substring check
// on the extension, mirroring how the platform names exported files.
func IsImageFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}
