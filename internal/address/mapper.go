package address

import (
	"regexp"
	"strings"
)

const franceCode = "FR"

// postalLine matches line 6: exactly five digits, optionally followed by
// whitespace and the town (or CEDEX office).
var postalLine = regexp.MustCompile(`^(\d{5})(?:\s+(.+))?$`)

// ToISO decomposes a French 7-line address into ISO 20022 fields. It never
// fails: lines that do not fit the expected shape leave their fields absent.
func ToISO(a FrenchAddress, kind Kind) ISOAddress {
	iso := ISOAddress{
		ID:            a.ID,
		Kind:          kind,
		RecipientName: cloneStr(a.Line1),
		Floor:         cloneStr(a.Line3),
		PostBox:       cloneStr(a.Line5),
	}

	switch kind {
	case KindOrganization:
		iso.Department = cloneStr(a.Line2)
	case KindIndividual:
		iso.Room = cloneStr(a.Line2)
	}

	iso.PostCode, iso.TownName = splitPostalLine(a.Line6)
	iso.Country = normalizeCountry(a.Line7)
	iso.BuildingNumber, iso.StreetName = splitStreetLine(a.Line4)

	return iso
}

// ToFrench renders ISO 20022 fields back into the 7-line format. It is the
// inverse of ToISO only for the fields ToISO can produce.
func ToFrench(a ISOAddress) FrenchAddress {
	fr := FrenchAddress{
		ID:    a.ID,
		Line1: cloneStr(a.RecipientName),
		Line3: cloneStr(a.Floor),
		Line5: cloneStr(a.PostBox),
	}

	switch a.Kind {
	case KindOrganization:
		if a.Department != nil {
			fr.Line2 = cloneStr(a.Department)
		} else {
			fr.Line2 = cloneStr(a.SubDepartment)
		}
	case KindIndividual:
		fr.Line2 = cloneStr(a.Room)
	}

	fr.Line4 = joinPrefixed(a.BuildingNumber, a.StreetName)
	fr.Line6 = joinPrefixed(a.PostCode, a.TownName)

	if a.Country != nil {
		country := *a.Country
		if country == franceCode {
			country = "France"
		}
		fr.Line7 = &country
	}

	return fr
}

// MatchPostalLine reports whether s follows the line 6 grammar.
func MatchPostalLine(s string) bool {
	return postalLine.MatchString(s)
}

func splitPostalLine(line *string) (postCode, town *string) {
	if line == nil {
		return nil, nil
	}
	m := postalLine.FindStringSubmatch(*line)
	if m == nil {
		return nil, nil
	}
	postCode = &m[1]
	if m[2] != "" {
		town = &m[2]
	}
	return postCode, town
}

func splitStreetLine(line *string) (number, street *string) {
	if line == nil {
		return nil, nil
	}
	tokens := strings.Fields(*line)
	if len(tokens) == 0 || !isASCIIDigit(tokens[0][0]) {
		return nil, cloneStr(line)
	}
	number = &tokens[0]
	if rest := strings.Join(tokens[1:], " "); rest != "" {
		street = &rest
	}
	return number, street
}

func normalizeCountry(line *string) *string {
	if line == nil {
		return nil
	}
	country := strings.TrimSpace(*line)
	if strings.EqualFold(country, "france") {
		country = franceCode
	}
	return &country
}

// joinPrefixed renders "{prefix} {rest}" when prefix is set (the space is
// kept even when rest is absent) and falls back to rest otherwise.
func joinPrefixed(prefix, rest *string) *string {
	if prefix == nil {
		return cloneStr(rest)
	}
	s := *prefix + " "
	if rest != nil {
		s += *rest
	}
	return &s
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
