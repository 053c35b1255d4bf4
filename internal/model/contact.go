package model

// Sentinel is the placeholder written for any field that could not be found.
// It is distinct from the empty string: every extracted field is either a
// real value or Sentinel, never "".
const Sentinel = "-"

// IsSentinel reports whether v is the not-found placeholder.
func IsSentinel(v string) bool {
	return v == Sentinel
}

// ExecutiveRecord holds the harvested contact fields for one role at one
// company. Fields are values or Sentinel, never empty.
type ExecutiveRecord struct {
	Title    Role   `json:"title"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	Location string `json:"location"`
}

// NewExecutiveRecord returns a record for the given role with every field
// set to Sentinel.
func NewExecutiveRecord(title Role) ExecutiveRecord {
	return ExecutiveRecord{
		Title:    title,
		Name:     Sentinel,
		Email:    Sentinel,
		LinkedIn: Sentinel,
		Location: Sentinel,
	}
}

// CompanyRecord is the aggregated output for one company: one record per
// role in vocabulary order, plus a company-level phone number.
type CompanyRecord struct {
	Company    string            `json:"company"`
	Executives []ExecutiveRecord `json:"executives"`
	Phone      string            `json:"phone"`
}

// Fields flattens the record into the column key → value map used by the
// dataset fill policy: four keys per role plus PhoneColumn.
func (c CompanyRecord) Fields() map[string]string {
	fields := make(map[string]string, 4*len(c.Executives)+1)
	for _, exec := range c.Executives {
		fields[exec.Title.NameColumn()] = exec.Name
		fields[exec.Title.EmailColumn()] = exec.Email
		fields[exec.Title.LinkedInColumn()] = exec.LinkedIn
		fields[exec.Title.LocationColumn()] = exec.Location
	}
	fields[PhoneColumn] = c.Phone
	return fields
}
