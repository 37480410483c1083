package domain

import "fmt"

// Category classifies an expense. The set is closed: the only valid values are
// the constants below, and the zero value is invalid.
type Category uint8

const (
	CategoryFood Category = iota + 1
	CategoryTransportation
	CategoryEntertainment
	CategoryShopping
	CategoryBills
	CategoryHealthcare
	CategoryOther
)

var categoryNames = [...]string{
	CategoryFood:           "Food",
	CategoryTransportation: "Transportation",
	CategoryEntertainment:  "Entertainment",
	CategoryShopping:       "Shopping",
	CategoryBills:          "Bills",
	CategoryHealthcare:     "Healthcare",
	CategoryOther:          "Other",
}

// Categories returns every valid category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames)-1)
	for c := CategoryFood; c <= CategoryOther; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory maps a label to its Category. Matching is exact and
// case-sensitive: "food" is rejected.
func ParseCategory(s string) (Category, error) {
	for c := CategoryFood; c <= CategoryOther; c++ {
		if categoryNames[c] == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	return c >= CategoryFood && c <= CategoryOther
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler. Invalid categories cannot be
// encoded.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown labels.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
