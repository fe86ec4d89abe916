package lookups

// since there are no joins in MongoDB, text descriptions of code values are fetched by the API

// Registry of Lookup/Code Types
const (
	LTuserRole = iota
	LTitemType
	LTitemStatus
	LTsubscription
	LTcurrency
)

// LookupType returns names of the available code types
func LookupType(lt int) string {

	var str = ""

	switch {
	case lt == LTuserRole:
		str = "user role"
	case lt == LTitemType:
		str = "item type"
	case lt == LTitemStatus:
		str = "item status"
	case lt == LTsubscription:
		str = "subscription level"
	case lt == LTcurrency:
		str = "currency"
	}

	return str
}
