package constants

const (
	ViewMembers         = "view_members"
	ManagePendingUsers  = "manage_pending_users"
	AssignRole          = "assign_role"
	ManageEvents        = "manage_events"
	ExportRegistrations = "export_registrations"
	RecordAttendance    = "record_attendance"
	AdjustTeamPoints    = "adjust_team_points"
	ManageAnnouncements = "manage_announcements"
	ViewAdminDashboard  = "view_admin_dashboard"
)
