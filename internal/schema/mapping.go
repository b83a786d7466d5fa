package schema

import "strings"

// Role names one of the ten logical attributes the destination table stores.
// Roles are fixed; the source form's question wording is not.
type Role string

const (
	RoleSubmissionStart   Role = "submission_start"
	RoleSubmissionEnd     Role = "submission_end"
	RoleAgeGroup          Role = "age_group"
	RoleGender            Role = "gender"
	RoleVaccinationStatus Role = "vaccination_status"
	RoleHealthcareVisits  Role = "healthcare_visits_count"
	RoleExerciseFrequency Role = "exercise_frequency"
	RoleWaterSource       Role = "water_source"
	RoleSleepHours        Role = "sleep_hours"
	RoleHealthInsurance   Role = "health_insurance"
)

// Roles lists every logical role in destination column order.
var Roles = []Role{
	RoleSubmissionStart,
	RoleSubmissionEnd,
	RoleAgeGroup,
	RoleGender,
	RoleVaccinationStatus,
	RoleHealthcareVisits,
	RoleExerciseFrequency,
	RoleWaterSource,
	RoleSleepHours,
	RoleHealthInsurance,
}

// roleRule describes how one role binds to a canonical field name.
//
// Exact matches the canonical name verbatim (case-sensitive; used for the
// reserved submission timestamp fields). Otherwise keyword matching applies
// on the lowercased name: every All keyword must be present, or at least one
// Any keyword. A rule sets exactly one of the three.
type roleRule struct {
	Role  Role
	Exact string
	All   []string
	Any   []string
}

// mappingRules is the declarative rule table consumed by ResolveMapping.
// The survey form is maintained by a third party, so roles bind on question
// wording fragments rather than fixed column positions; editing this table
// is how the pipeline follows a form revision.
var mappingRules = []roleRule{
	{Role: RoleSubmissionStart, Exact: "start"},
	{Role: RoleSubmissionEnd, Exact: "end"},
	{Role: RoleAgeGroup, All: []string{"age", "group"}},
	{Role: RoleGender, Any: []string{"gender"}},
	{Role: RoleVaccinationStatus, Any: []string{"vaccin"}},
	{Role: RoleHealthcareVisits, Any: []string{"healthcare", "visit"}},
	{Role: RoleExerciseFrequency, Any: []string{"exercise", "physical"}},
	{Role: RoleWaterSource, Any: []string{"water", "drinking"}},
	{Role: RoleSleepHours, Any: []string{"sleep", "hour"}},
	{Role: RoleHealthInsurance, Any: []string{"insurance", "coverage"}},
}

func (r roleRule) matches(field string) bool {
	if r.Exact != "" {
		return field == r.Exact
	}
	lc := strings.ToLower(field)
	if len(r.All) > 0 {
		for _, kw := range r.All {
			if !strings.Contains(lc, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range r.Any {
		if strings.Contains(lc, kw) {
			return true
		}
	}
	return false
}

// FieldMapping binds logical roles to canonical field names for one run.
// Roles with no matching field are absent from the map.
type FieldMapping map[Role]string

// Field returns the canonical field bound to the role, if any.
func (m FieldMapping) Field(r Role) (string, bool) {
	f, ok := m[r]
	return f, ok
}

// ResolveMapping computes the FieldMapping for the given canonical field
// names. For every role the first matching field in column order wins and
// later matches are ignored; roles are resolved independently, so one field
// may serve several roles. The result is deterministic for a given field
// list.
func ResolveMapping(fields []string) FieldMapping {
	m := make(FieldMapping, len(mappingRules))
	for _, rule := range mappingRules {
		for _, f := range fields {
			if rule.matches(f) {
				m[rule.Role] = f
				break
			}
		}
	}
	return m
}
