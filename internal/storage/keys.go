package storage

// Storage keys. Per-date keys are suffixed with a YYYY-MM-DD date.
const (
	KeyJournalEntries       = "journalEntries"
	KeyMoods                = "moods"
	KeyNotificationSettings = "notificationSettings"
	KeyWaterIntake          = "waterIntake"
	KeyTasks                = "routineTasks"

	prefixFocusTask  = "focusTask_"
	prefixHealthData = "healthData_"
)

func FocusTaskKey(date string) string {
	return prefixFocusTask + date
}

func HealthDataKey(date string) string {
	return prefixHealthData + date
}
