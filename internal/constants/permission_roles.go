package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// Every administrative action in the system is core-only today; the map
// exists so a finer role split does not require touching handlers.
var PermissionRoles = map[string][]string{
	ViewMembers:         {Core},
	ManagePendingUsers:  {Core},
	AssignRole:          {Core},
	ManageEvents:        {Core},
	ExportRegistrations: {Core},
	RecordAttendance:    {Core},
	AdjustTeamPoints:    {Core},
	ManageAnnouncements: {Core},
	ViewAdminDashboard:  {Core},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
