package ctdf

// LocalizedName holds one display string per locale code (ru, kk, en ...)
type LocalizedName map[string]string

// Get returns the first non-empty name among the given locales, in order.
// With no locales given any name is returned.
func (n LocalizedName) Get(locales ...string) string {
	for _, locale := range locales {
		if value := n[locale]; value != "" {
			return value
		}
	}

	if len(locales) == 0 {
		for _, value := range n {
			if value != "" {
				return value
			}
		}
	}

	return ""
}

type Stop struct {
	ID       int64         `json:"id" groups:"basic"`
	Name     LocalizedName `json:"name" groups:"basic"`
	Location Location      `json:"location" groups:"basic"`

	RouteIDs []int64 `json:"route_ids" groups:"detailed"`

	// UpdatedAt is the upstream version marker, advisory only
	UpdatedAt string `json:"updated_at" groups:"detailed"`
}
