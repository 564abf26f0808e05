package model

import "strings"

// Role names as issued by the backend in the JWT "role" claim and in
// the /api/auth/me payload.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleAttendee  = "ATTENDEE"
	RoleSystem    = "SYSTEM"
)

// NormalizeRole upper-cases r and strips the Spring "ROLE_" prefix so
// "role_admin" and "ADMIN" compare equal.
func NormalizeRole(r string) string {
	r = strings.ToUpper(strings.TrimSpace(r))
	return strings.TrimPrefix(r, "ROLE_")
}

// User is the payload of GET /api/auth/me.  Balance is only meaningful
// for attendees; the backend reports zero for other roles.
//
// Fields:
//
//	ID       – backend user id.
//	Username – login name, also used on transactions.
//	Email    – contact address, used as responderEmail on comments.
//	Role     – one of ADMIN, ORGANIZER, ATTENDEE.
//	Balance  – attendee balance in whole rupiah, never negative.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Balance  Rupiah `json:"balance"`
}

func (u User) IsAdmin() bool     { return NormalizeRole(u.Role) == RoleAdmin }
func (u User) IsOrganizer() bool { return NormalizeRole(u.Role) == RoleOrganizer }
func (u User) IsAttendee() bool  { return NormalizeRole(u.Role) == RoleAttendee }
