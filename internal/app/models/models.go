package models

// Role defines the user role type
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// Skill is the minimum skill level a course expects
type Skill string

const (
	SkillBeginner     Skill = "beginner"
	SkillIntermediate Skill = "intermediate"
	SkillAdvanced     Skill = "advanced"
)

// Valid reports whether s is a known skill level
func (s Skill) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// Career tags a bootcamp with the careers it prepares for
type Career string

const (
	CareerWebDevelopment    Career = "Web Development"
	CareerMobileDevelopment Career = "Mobile Development"
	CareerUIUX              Career = "UI/UX"
	CareerDataScience       Career = "Data Science"
	CareerBusiness          Career = "Business"
	CareerOther             Career = "Other"
)

// Careers lists every accepted career tag
var Careers = []Career{
	CareerWebDevelopment,
	CareerMobileDevelopment,
	CareerUIUX,
	CareerDataScience,
	CareerBusiness,
	CareerOther,
}

// Valid reports whether c is a known career tag
func (c Career) Valid() bool {
	for _, known := range Careers {
		if c == known {
			return true
		}
	}
	return false
}
