package address

import (
	"fmt"
	"strings"
)

// Kind tells the mapper which structured fields absorb the recipient lines.
type Kind int

const (
	KindIndividual Kind = iota
	KindOrganization
)

func (k Kind) String() string {
	switch k {
	case KindOrganization:
		return "organization"
	default:
		return "individual"
	}
}

// ParseKind accepts the canonical names as well as the legacy
// "company" / "particular" spellings, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "organization", "company":
		return KindOrganization, nil
	case "individual", "particular":
		return KindIndividual, nil
	default:
		return KindIndividual, fmt.Errorf("%w: %q, must be 'company' or 'particular'", ErrInvalidKind, s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// FrenchAddress is the 7-line envelope format.
type FrenchAddress struct {
	ID    string  `json:"id"`
	Line1 *string `json:"line1,omitempty"` // recipient name
	Line2 *string `json:"line2,omitempty"` // department / service, or apartment / room
	Line3 *string `json:"line3,omitempty"` // entrance, building, floor
	Line4 *string `json:"line4,omitempty"` // street number and name
	Line5 *string `json:"line5,omitempty"` // PO box, special distribution
	Line6 *string `json:"line6,omitempty"` // postal code and town, or CEDEX
	Line7 *string `json:"line7,omitempty"` // country
}

// Lines returns the seven lines in envelope order.
func (a FrenchAddress) Lines() [7]*string {
	return [7]*string{a.Line1, a.Line2, a.Line3, a.Line4, a.Line5, a.Line6, a.Line7}
}

// ISOAddress is the discrete-field postal address of ISO 20022.
type ISOAddress struct {
	ID                 string  `json:"id"`
	Kind               Kind    `json:"kind"`
	RecipientName      *string `json:"recipient_name,omitempty"`
	Department         *string `json:"department,omitempty"`
	SubDepartment      *string `json:"sub_department,omitempty"`
	BuildingName       *string `json:"building_name,omitempty"`
	Floor              *string `json:"floor,omitempty"`
	Room               *string `json:"room,omitempty"`
	StreetName         *string `json:"street_name,omitempty"`
	BuildingNumber     *string `json:"building_number,omitempty"`
	PostBox            *string `json:"post_box,omitempty"`
	TownLocationName   *string `json:"town_location_name,omitempty"`
	PostCode           *string `json:"post_code,omitempty"`
	TownName           *string `json:"town_name,omitempty"`
	Country            *string `json:"country,omitempty"`
	DistrictName       *string `json:"district_name,omitempty"`
	CountrySubDivision *string `json:"country_sub_division,omitempty"`
}

type CreateAddressInput struct {
	Kind  Kind
	Lines FrenchAddress
}

// UpdateAddressInput overlays Lines onto the stored address; nil lines
// keep their current value.
type UpdateAddressInput struct {
	AddressID string
	Kind      Kind
	Lines     FrenchAddress
}

// Clone returns a copy that shares no field storage with a.
func (a ISOAddress) Clone() ISOAddress {
	c := a
	for _, f := range []**string{
		&c.RecipientName, &c.Department, &c.SubDepartment, &c.BuildingName,
		&c.Floor, &c.Room, &c.StreetName, &c.BuildingNumber, &c.PostBox,
		&c.TownLocationName, &c.PostCode, &c.TownName, &c.Country,
		&c.DistrictName, &c.CountrySubDivision,
	} {
		*f = cloneStr(*f)
	}
	return c
}
