package entity

// Restaurant is one place returned by the places API, limited to the fields the service consumes.
type Restaurant struct {
	FsqID      string     `json:"fsq_id" validate:"required"`
	Name       string     `json:"name" validate:"required"`
	Location   *Location  `json:"location" validate:"required"`
	Categories []Category `json:"categories" validate:"required,dive"`
	Rating     *float64   `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	Price      *int       `json:"price,omitempty" validate:"omitempty,min=1,max=4"`
	Distance   *int       `json:"distance,omitempty" validate:"omitempty,min=0"`
	Hours      *Hours     `json:"hours,omitempty"`
	Photos     []Photo    `json:"photos,omitempty" validate:"omitempty,dive"`
	Tel        string     `json:"tel,omitempty"`
	Website    string     `json:"website,omitempty" validate:"omitempty,url"`
}

// Location is the postal address of a place.
type Location struct {
	Address          string `json:"address,omitempty"`
	AddressExtended  string `json:"address_extended,omitempty"`
	Locality         string `json:"locality,omitempty"`
	Region           string `json:"region,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	Country          string `json:"country,omitempty"`
	CrossStreet      string `json:"cross_street,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
}

// Category classifies a place, e.g. "Sushi Restaurant".
type Category struct {
	ID         int    `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	ShortName  string `json:"short_name,omitempty"`
	PluralName string `json:"plural_name,omitempty"`
	Icon       *Icon  `json:"icon" validate:"required"`
}

// Icon is a category icon split into URL prefix and suffix.
type Icon struct {
	Prefix string `json:"prefix" validate:"required"`
	Suffix string `json:"suffix" validate:"required"`
}

// Hours describes opening hours.
type Hours struct {
	Display        string      `json:"display,omitempty"`
	IsLocalHoliday *bool       `json:"is_local_holiday,omitempty"`
	OpenNow        *bool       `json:"open_now,omitempty"`
	Regular        []HoursSlot `json:"regular,omitempty" validate:"omitempty,dive"`
}

// HoursSlot is one regular opening window; Day is 1 (Monday) to 7 (Sunday).
type HoursSlot struct {
	Day   int    `json:"day" validate:"min=1,max=7"`
	Open  string `json:"open" validate:"required"`
	Close string `json:"close" validate:"required"`
}

// Photo references an image; the URL is Prefix + size + Suffix.
type Photo struct {
	ID        string `json:"id" validate:"required"`
	CreatedAt string `json:"created_at,omitempty"`
	Prefix    string `json:"prefix" validate:"required"`
	Suffix    string `json:"suffix" validate:"required"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// URL builds the photo address for a size such as "400x400" or "original".
func (p Photo) URL(size string) string {
	return p.Prefix + size + p.Suffix
}
