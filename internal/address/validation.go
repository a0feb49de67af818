package address

import (
	"strings"
	"unicode/utf8"
)

const frenchLineMax = 38

type lengthRule struct {
	field  string
	value  *string
	maxLen int
}

// ValidateFrench checks line lengths, the postal code line and the country
// line, returning the first violation.
func ValidateFrench(a FrenchAddress) error {
	for i, line := range a.Lines() {
		if err := checkLength(lineName(i), line, frenchLineMax); err != nil {
			return err
		}
	}

	if a.Line6 == nil {
		return &EmptyFieldError{Field: "line6"}
	}
	// surrounding whitespace is tolerated, e.g. the "75001 " ToFrench renders
	// for a postal code without a town
	if !MatchPostalLine(strings.TrimSpace(*a.Line6)) {
		return &InvalidPostalCodeError{Value: *a.Line6}
	}

	if a.Line7 == nil || strings.TrimSpace(*a.Line7) == "" {
		return &EmptyFieldError{Field: "line7"}
	}

	return nil
}

// ValidateISO checks each field against its ISO 20022 maximum length in
// declaration order, then the country code shape.
func ValidateISO(a ISOAddress) error {
	rules := []lengthRule{
		{"street_name", a.StreetName, 70},
		{"building_number", a.BuildingNumber, 16},
		{"building_name", a.BuildingName, 35},
		{"post_box", a.PostBox, 16},
		{"floor", a.Floor, 70},
		{"room", a.Room, 70},
		{"post_code", a.PostCode, 16},
		{"town_name", a.TownName, 35},
		{"town_location_name", a.TownLocationName, 35},
		{"department", a.Department, 70},
		{"sub_department", a.SubDepartment, 70},
		{"district_name", a.DistrictName, 35},
		{"country_sub_division", a.CountrySubDivision, 35},
	}
	for _, r := range rules {
		if err := checkLength(r.field, r.value, r.maxLen); err != nil {
			return err
		}
	}

	if a.Country != nil && utf8.RuneCountInString(*a.Country) != 2 {
		return &InvalidCountryCodeError{Value: *a.Country}
	}

	return nil
}

func checkLength(field string, value *string, maxLen int) error {
	if value == nil {
		return nil
	}
	if n := utf8.RuneCountInString(*value); n > maxLen {
		return &TooLongError{Field: field, Max: maxLen, Actual: n}
	}
	return nil
}

func lineName(i int) string {
	return "line" + string(rune('1'+i))
}
