package schema

import "time"

// Submission is the typed destination row for one survey submission.
// Pointer fields load as SQL NULL when nil; the two numeric fields always
// carry a value and default to zero.
type Submission struct {
	SubmissionStart   *time.Time `db:"submission_start"`
	SubmissionEnd     *time.Time `db:"submission_end"`
	AgeGroup          *string    `db:"age_group"`
	Gender            *string    `db:"gender"`
	VaccinationStatus *string    `db:"vaccination_status"`
	HealthcareVisits  int64      `db:"healthcare_visits_count"`
	ExerciseFrequency *string    `db:"exercise_frequency"`
	WaterSource       *string    `db:"water_source"`
	SleepHours        float64    `db:"sleep_hours"`
	HealthInsurance   *string    `db:"health_insurance"`
}

// columns is the destination column order shared by DDL, INSERT statements,
// and Values. It deliberately excludes the surrogate id and created_at,
// which the database populates.
var columns = []string{
	"submission_start",
	"submission_end",
	"age_group",
	"gender",
	"vaccination_status",
	"healthcare_visits_count",
	"exercise_frequency",
	"water_source",
	"sleep_hours",
	"health_insurance",
}

// Columns returns the destination data columns in insert order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Values returns the insert arguments aligned with Columns.
func (s Submission) Values() []any {
	return []any{
		s.SubmissionStart,
		s.SubmissionEnd,
		s.AgeGroup,
		s.Gender,
		s.VaccinationStatus,
		s.HealthcareVisits,
		s.ExerciseFrequency,
		s.WaterSource,
		s.SleepHours,
		s.HealthInsurance,
	}
}
