package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Role is an executive position label. It doubles as a search-query term
// and as the prefix for the derived dataset columns.
type Role string

// Default role vocabulary, iterated in this order.
const (
	RoleCFO     Role = "CFO"
	RoleCOO     Role = "COO"
	RoleCTO     Role = "CTO"
	RolePartner Role = "Partner"
)

// PhoneColumn is the company-level phone column, not tied to any role.
const PhoneColumn = "Company Phone"

// FirmColumn is the default input column holding the company name.
const FirmColumn = "FIRM NAME"

// DefaultRoles returns the built-in role vocabulary.
func DefaultRoles() []Role {
	return []Role{RoleCFO, RoleCOO, RoleCTO, RolePartner}
}

// NameColumn returns the dataset column for the executive's name.
func (r Role) NameColumn() string { return string(r) + " Name" }

// EmailColumn returns the dataset column for the executive's email.
func (r Role) EmailColumn() string { return string(r) + " Email" }

// LinkedInColumn returns the dataset column for the executive's LinkedIn URL.
func (r Role) LinkedInColumn() string { return string(r) + " LinkedIn" }

// LocationColumn returns the dataset column for the executive's location.
func (r Role) LocationColumn() string { return string(r) + " Location" }

// Columns returns the four derived columns for the role, in output order.
func (r Role) Columns() []string {
	return []string{r.NameColumn(), r.EmailColumn(), r.LinkedInColumn(), r.LocationColumn()}
}

// DerivedColumns returns every column the fill policy may write for the
// given vocabulary: four per role plus the company phone.
func DerivedColumns(roles []Role) []string {
	cols := make([]string, 0, 4*len(roles)+1)
	for _, r := range roles {
		cols = append(cols, r.Columns()...)
	}
	return append(cols, PhoneColumn)
}

// LoadRoles reads a role vocabulary from a YAML file of the form:
//
//	roles:
//	  - CFO
//	  - Managing Partner
//
// An empty path or an empty list yields the default vocabulary.
func LoadRoles(path string) ([]Role, error) {
	if path == "" {
		return DefaultRoles(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read roles file %s", path)
	}

	var wrapper struct {
		Roles []Role `yaml:"roles"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "model: parse roles file")
	}

	if len(wrapper.Roles) == 0 {
		return DefaultRoles(), nil
	}
	return wrapper.Roles, nil
}
