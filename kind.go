package formflow

// Kind is the base type tag of a field.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindPassword
	KindNumeric
	KindAsset
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindPassword:
		return "password"
	case KindNumeric:
		return "numeric"
	case KindAsset:
		return "asset"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// ParseKind maps a type name (as used in schema files) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "text", "string":
		return KindText, true
	case "email":
		return KindEmail, true
	case "password":
		return KindPassword, true
	case "numeric", "number":
		return KindNumeric, true
	case "asset", "file":
		return KindAsset, true
	case "list", "array":
		return KindList, true
	}
	return 0, false
}
