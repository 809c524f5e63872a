package catalog

// DefaultDoctors is the built-in directory shown on the booking form.
// Ensured at startup and by cmd/seed; merging is keyed on ID, so edits
// to the stored file survive restarts.
var DefaultDoctors = []Doctor{
	{ID: "d1", Name: "Dr. Asha Rao", Title: "Counseling Psychologist"},
	{ID: "d2", Name: "Dr. Ben Okafor", Title: "General Physician"},
	{ID: "d3", Name: "Dr. Carla Mendes", Title: "Nutritionist"},
	{ID: "d4", Name: "Dr. Daniel Kim", Title: "Sports Medicine"},
	{ID: "d5", Name: "Dr. Elena Petrova", Title: "Psychiatrist"},
}

// DefaultResources backs cmd/seed for a fresh install; it is only
// inserted when the catalogue is empty.
var DefaultResources = []UpsertResourceRequest{
	{
		Title:       "Sleep Hygiene Basics",
		Description: "Practical steps for a consistent sleep schedule during term time.",
		Category:    "mental-health",
	},
	{
		Title:       "Drop-in Counseling Hours",
		Description: "When and where to find a counselor without an appointment.",
		Category:    "mental-health",
	},
	{
		Title:       "Campus Gym Programs",
		Description: "Weekly fitness programs open to all students.",
		Category:    "program",
	},
	{
		Title:       "Healthy Eating on a Budget",
		Description: "Meal planning around the campus cafeteria and local stores.",
		Category:    "nutrition",
	},
	{
		Title:       "Exam Stress Toolkit",
		Description: "Short exercises for managing stress in exam weeks.",
		Category:    "mental-health",
	},
}
