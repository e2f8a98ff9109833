package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// SkillsColumns holds the columns for the "skills" table.
	SkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SkillsTable holds the schema information for the "skills" table.
	SkillsTable = &schema.Table{
		Name:       "skills",
		Columns:    SkillsColumns,
		PrimaryKey: []*schema.Column{SkillsColumns[0]},
	}

	// UserSkillsColumns holds the columns for the "user_skills" table.
	UserSkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "years_of_experience", Type: field.TypeInt, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UserSkillsTable holds the schema information for the "user_skills" table.
	UserSkillsTable = &schema.Table{
		Name:       "user_skills",
		Columns:    UserSkillsColumns,
		PrimaryKey: []*schema.Column{UserSkillsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_skills_skills_skill",
				Columns:    []*schema.Column{UserSkillsColumns[2]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "userskill_user_id_skill_id",
				Unique:  true,
				Columns: []*schema.Column{UserSkillsColumns[1], UserSkillsColumns[2]},
			},
		},
	}

	// JobRolesColumns holds the columns for the "job_roles" table.
	JobRolesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// JobRolesTable holds the schema information for the "job_roles" table.
	JobRolesTable = &schema.Table{
		Name:       "job_roles",
		Columns:    JobRolesColumns,
		PrimaryKey: []*schema.Column{JobRolesColumns[0]},
	}

	// JobRoleSkillsColumns holds the columns for the "job_role_skills" table.
	JobRoleSkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "job_role_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "required_level", Type: field.TypeString},
		{Name: "importance", Type: field.TypeString},
	}
	// JobRoleSkillsTable holds the schema information for the "job_role_skills" table.
	JobRoleSkillsTable = &schema.Table{
		Name:       "job_role_skills",
		Columns:    JobRoleSkillsColumns,
		PrimaryKey: []*schema.Column{JobRoleSkillsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "job_role_skills_job_roles_role",
				Columns:    []*schema.Column{JobRoleSkillsColumns[1]},
				RefColumns: []*schema.Column{JobRolesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "job_role_skills_skills_skill",
				Columns:    []*schema.Column{JobRoleSkillsColumns[2]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "jobroleskill_job_role_id_skill_id",
				Unique:  true,
				Columns: []*schema.Column{JobRoleSkillsColumns[1], JobRoleSkillsColumns[2]},
			},
		},
	}

	// AssessmentsColumns holds the columns for the "assessments" table.
	AssessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "skill_id", Type: field.TypeString, Nullable: true},
		{Name: "time_limit_minutes", Type: field.TypeInt, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AssessmentsTable holds the schema information for the "assessments" table.
	AssessmentsTable = &schema.Table{
		Name:       "assessments",
		Columns:    AssessmentsColumns,
		PrimaryKey: []*schema.Column{AssessmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "assessments_skills_skill",
				Columns:    []*schema.Column{AssessmentsColumns[3]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "question_type", Type: field.TypeString},
		{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		{Name: "points", Type: field.TypeInt, Default: 1},
		{Name: "order_index", Type: field.TypeInt},
		{Name: "payload", Type: field.TypeJSON},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       "questions",
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_assessments_questions",
				Columns:    []*schema.Column{QuestionsColumns[1]},
				RefColumns: []*schema.Column{AssessmentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "question_assessment_id_order_index",
				Columns: []*schema.Column{QuestionsColumns[1], QuestionsColumns[5]},
			},
		},
	}

	// AssessmentResultsColumns holds the columns for the "assessment_results" table.
	AssessmentResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "attempt_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "max_score", Type: field.TypeInt},
		{Name: "percentage", Type: field.TypeInt},
		{Name: "calculated_level", Type: field.TypeString},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "trigger", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime},
	}
	// AssessmentResultsTable holds the schema information for the "assessment_results" table.
	AssessmentResultsTable = &schema.Table{
		Name:       "assessment_results",
		Columns:    AssessmentResultsColumns,
		PrimaryKey: []*schema.Column{AssessmentResultsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "assessment_results_assessments_results",
				Columns:    []*schema.Column{AssessmentResultsColumns[3]},
				RefColumns: []*schema.Column{AssessmentsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "assessmentresult_user_id_completed_at",
				Columns: []*schema.Column{AssessmentResultsColumns[2], AssessmentResultsColumns[10]},
			},
		},
	}

	// AdaptiveAssessmentsColumns holds the columns for the "adaptive_assessments" table.
	AdaptiveAssessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "attempt_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "difficulty_level", Type: field.TypeString},
		{Name: "questions", Type: field.TypeJSON},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "score", Type: field.TypeInt},
		{Name: "max_score", Type: field.TypeInt},
		{Name: "percentage", Type: field.TypeInt},
		{Name: "calculated_level", Type: field.TypeString},
		{Name: "trigger", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime},
	}
	// AdaptiveAssessmentsTable holds the schema information for the "adaptive_assessments" table.
	AdaptiveAssessmentsTable = &schema.Table{
		Name:       "adaptive_assessments",
		Columns:    AdaptiveAssessmentsColumns,
		PrimaryKey: []*schema.Column{AdaptiveAssessmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "adaptive_assessments_skills_skill",
				Columns:    []*schema.Column{AdaptiveAssessmentsColumns[3]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "adaptiveassessment_user_id_completed_at",
				Columns: []*schema.Column{AdaptiveAssessmentsColumns[2], AdaptiveAssessmentsColumns[12]},
			},
		},
	}

	// EscalationEventsColumns holds the columns for the "escalation_events" table.
	EscalationEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "attempt_id", Type: field.TypeString},
		{Name: "from_level", Type: field.TypeString},
		{Name: "to_level", Type: field.TypeString},
		{Name: "calculated_level", Type: field.TypeString},
		{Name: "upgraded", Type: field.TypeBool},
		{Name: "trigger", Type: field.TypeString},
	}
	// EscalationEventsTable holds the schema information for the "escalation_events" table.
	EscalationEventsTable = &schema.Table{
		Name:       "escalation_events",
		Columns:    EscalationEventsColumns,
		PrimaryKey: []*schema.Column{EscalationEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "escalationevent_user_id_skill_id",
				Columns: []*schema.Column{EscalationEventsColumns[3], EscalationEventsColumns[4]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Columns: []*schema.Column{LlmRequestEventsColumns[5]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SkillsTable,
		UserSkillsTable,
		JobRolesTable,
		JobRoleSkillsTable,
		AssessmentsTable,
		QuestionsTable,
		AssessmentResultsTable,
		AdaptiveAssessmentsTable,
		EscalationEventsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	UserSkillsTable.ForeignKeys[0].RefTable = SkillsTable
	JobRoleSkillsTable.ForeignKeys[0].RefTable = JobRolesTable
	JobRoleSkillsTable.ForeignKeys[1].RefTable = SkillsTable
	AssessmentsTable.ForeignKeys[0].RefTable = SkillsTable
	QuestionsTable.ForeignKeys[0].RefTable = AssessmentsTable
	AssessmentResultsTable.ForeignKeys[0].RefTable = AssessmentsTable
	AdaptiveAssessmentsTable.ForeignKeys[0].RefTable = SkillsTable
}
