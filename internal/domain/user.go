package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

// NoShift is the sentinel grouping label for drivers without a shift
// assignment. Runs of such drivers still aggregate; they are never dropped.
const NoShift = "no shift"

// Shifts are the four fixed driver work-schedule labels.
var Shifts = []string{
	"1° NORMAL",
	"2° NORMAL",
	"3° NORMAL",
	"COMERCIAL",
}

// ValidShift reports whether s is one of the fixed shift labels.
func ValidShift(s string) bool {
	for _, known := range Shifts {
		if s == known {
			return true
		}
	}
	return false
}

// User is an account scoped to a company and sector. Drivers optionally carry
// a shift label used as a trip-grouping key; Shift is empty when unassigned.
type User struct {
	UserID       string
	CompanyID    string
	SectorID     string
	Name         string
	Email        string
	Role         Role
	Shift        string
	PasswordHash string
}
