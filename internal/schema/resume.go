package schema

// qaThreshold is the default score gate for QA-backed fields. Answers at
// or below it resolve to empty rather than surfacing a weak guess.
const qaThreshold = 0.02

// Resume returns the default candidate-profile schema. Row order follows
// the declaration order below.
func Resume() *Schema {
	return MustNew([]FieldSpec{
		{
			Key:      "first_name",
			Label:    "First Name",
			Strategy: StrategyPattern,
			Pattern:  PatternHeaderFirst,
		},
		{
			Key:      "last_name",
			Label:    "Last Name",
			Strategy: StrategyPattern,
			Pattern:  PatternHeaderLast,
		},
		{
			Key:      "email",
			Label:    "Email",
			Strategy: StrategyPattern,
			Pattern:  PatternEmail,
		},
		{
			Key:      "phone",
			Label:    "Phone",
			Strategy: StrategyPattern,
			Pattern:  PatternPhone,
		},
		{
			Key:                 "full_name",
			Label:               "Full Name",
			Strategy:            StrategyPatternWithQAFallback,
			Pattern:             PatternHeaderFull,
			Question:            "What is the candidate's full name?",
			ConfidenceThreshold: qaThreshold,
			EvidenceRequired:    true,
		},
		{
			Key:                 "current_role",
			Label:               "Current Role",
			Strategy:            StrategyQA,
			Question:            "What is their current or most recent job title?",
			ConfidenceThreshold: qaThreshold,
			EvidenceRequired:    true,
		},
		{
			Key:              "current_company",
			Label:            "Current Company",
			Strategy:         StrategyEntityFiltered,
			EntityLabel:      "ORGANIZATION",
			EntityRule:       EntityMostFrequent,
			Keywords:         []string{"work", "company", "employ"},
			Denylist:         []string{"GPA", "SAT", "CV", "HTML", "CSS", "SQL", "AWS"},
			EvidenceRequired: true,
		},
		{
			Key:                 "total_experience",
			Label:               "Total Experience",
			Strategy:            StrategyQA,
			Question:            "How many years of experience do they have?",
			ConfidenceThreshold: qaThreshold,
			EvidenceRequired:    true,
		},
		{
			Key:                 "highest_degree",
			Label:               "Highest Degree",
			Strategy:            StrategyQA,
			Question:            "What is the highest degree or qualification obtained?",
			ConfidenceThreshold: qaThreshold,
			EvidenceRequired:    true,
		},
		{
			Key:              "university",
			Label:            "University/College",
			Strategy:         StrategyEntityFiltered,
			EntityLabel:      "ORGANIZATION",
			EntityRule:       EntityFirst,
			Keywords:         []string{"universit", "college", "institute"},
			Denylist:         []string{"GPA", "SAT"},
			EvidenceRequired: true,
		},
		{
			Key:                 "top_skills",
			Label:               "Top Skills",
			Strategy:            StrategyQA,
			Question:            "What are the main technical skills or programming languages listed?",
			ConfidenceThreshold: qaThreshold,
			EvidenceRequired:    true,
		},
		{
			Key:                 "certifications",
			Label:               "Certifications",
			Strategy:            StrategyQA,
			Question:            "What certifications has the candidate listed?",
			ConfidenceThreshold: qaThreshold,
			EvidenceRequired:    true,
		},
		{
			Key:      "expected_salary",
			Label:    "Expected Salary",
			Strategy: StrategyPattern,
			Pattern:  PatternCurrency,
			Keywords: []string{"salary", "earning", "compensation"},
		},
		{
			Key:      "available_from",
			Label:    "Available From",
			Strategy: StrategyPattern,
			Pattern:  PatternISODate,
		},
	})
}
