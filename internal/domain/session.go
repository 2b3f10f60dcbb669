package domain

// SessionContext identifies the authenticated caller and the company/sector
// scope of the request. It is populated at login, carried explicitly through
// the request context, and cleared when the token expires; no ambient
// key-value storage.
type SessionContext struct {
	UserID    string
	Name      string
	Role      Role
	CompanyID string
	SectorID  string
}
