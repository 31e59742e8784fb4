package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent  RoleType = "STUDENT"
	RoleTeacher  RoleType = "TEACHER"
	RoleAdmin    RoleType = "ADMIN"
	RoleClubHead RoleType = "CLUB_HEAD"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role RoleType) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleClubHead:
		return true
	}
	return false
}

// CanManageCampusContent reports whether the role may create and manage
// events, activities and placements.
func (r RoleType) CanManageCampusContent() bool {
	return r == RoleTeacher || r == RoleAdmin || r == RoleClubHead
}

// CanPublishNotices reports whether the role may publish official notices.
func (r RoleType) CanPublishNotices() bool {
	return r == RoleTeacher || r == RoleAdmin
}
