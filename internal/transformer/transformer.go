// Package transformer turns canonical survey records into typed destination
// rows. Conversion is total: a value that does not parse falls back to the
// column default (zero for numerics, NULL for text and timestamps), so a
// sloppy answer never blocks the submission it belongs to.
package transformer

import (
	"strconv"
	"strings"
	"time"

	"surveyetl/internal/schema"
)

// Build assembles the destination row for one source record using the
// resolved field mapping. Roles absent from the mapping, and bound fields
// whose value is empty after trimming, load as the column default.
func Build(rec schema.Record, m schema.FieldMapping) schema.Submission {
	return schema.Submission{
		SubmissionStart:   timeValue(rec, m, schema.RoleSubmissionStart),
		SubmissionEnd:     timeValue(rec, m, schema.RoleSubmissionEnd),
		AgeGroup:          textValue(rec, m, schema.RoleAgeGroup),
		Gender:            textValue(rec, m, schema.RoleGender),
		VaccinationStatus: textValue(rec, m, schema.RoleVaccinationStatus),
		HealthcareVisits:  intValue(rec, m, schema.RoleHealthcareVisits),
		ExerciseFrequency: textValue(rec, m, schema.RoleExerciseFrequency),
		WaterSource:       textValue(rec, m, schema.RoleWaterSource),
		SleepHours:        floatValue(rec, m, schema.RoleSleepHours),
		HealthInsurance:   textValue(rec, m, schema.RoleHealthInsurance),
	}
}

func rawValue(rec schema.Record, m schema.FieldMapping, r schema.Role) (string, bool) {
	f, ok := m.Field(r)
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(rec[f])
	if s == "" {
		return "", false
	}
	return s, true
}

func textValue(rec schema.Record, m schema.FieldMapping, r schema.Role) *string {
	s, ok := rawValue(rec, m, r)
	if !ok {
		return nil
	}
	return &s
}

func timeValue(rec schema.Record, m schema.FieldMapping, r schema.Role) *time.Time {
	s, ok := rawValue(rec, m, r)
	if !ok {
		return nil
	}
	t, ok := schema.ParseSubmissionTime(s)
	if !ok {
		return nil
	}
	return &t
}

// intValue parses the bound value as a number and truncates toward zero, so
// "3.7" counts as 3 visits. Unparseable answers such as "N/A" count as zero.
func intValue(rec schema.Record, m schema.FieldMapping, r schema.Role) int64 {
	s, ok := rawValue(rec, m, r)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

func floatValue(rec schema.Record, m schema.FieldMapping, r schema.Role) float64 {
	s, ok := rawValue(rec, m, r)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
