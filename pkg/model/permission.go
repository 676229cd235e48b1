package model

// Permission is an action gated by role.
type Permission int

const (
	PermManageClients Permission = iota
	PermManageWorkoutPlans
	PermManageDietPlans
	PermViewClientProgress
	PermLogWeight
	PermEditWeeklyGoal
	PermViewOwnPlans
	PermChooseTrainer
)

func (p Permission) String() string {
	switch p {
	case PermManageClients:
		return "manage_clients"
	case PermManageWorkoutPlans:
		return "manage_workout_plans"
	case PermManageDietPlans:
		return "manage_diet_plans"
	case PermViewClientProgress:
		return "view_client_progress"
	case PermLogWeight:
		return "log_weight"
	case PermEditWeeklyGoal:
		return "edit_weekly_goal"
	case PermViewOwnPlans:
		return "view_own_plans"
	case PermChooseTrainer:
		return "choose_trainer"
	default:
		return "unknown"
	}
}
