package scoring

// decisionSchema is the shape gate for scoring engine responses. A 2xx body
// that fails this schema is treated exactly like a failed request: the form
// re-opens and no decision is held.
const decisionSchema = `{
	"type": "object",
	"required": ["applicant_profile", "final_decision", "positive_factors", "negative_factors", "recommendations", "colour"],
	"properties": {
		"success": {"type": "boolean"},
		"applicant_profile": {
			"type": "object",
			"required": ["age", "gender", "region", "employment", "monthly_income"],
			"properties": {
				"age": {"type": "integer"},
				"gender": {"type": "string"},
				"region": {"type": "string"},
				"employment": {"type": "string"},
				"monthly_income": {"type": "number"}
			}
		},
		"final_decision": {
			"type": "object",
			"required": ["approved", "credit_score", "risk_category", "default_risk", "approval_probability", "threshold"],
			"properties": {
				"approved": {"type": "boolean"},
				"credit_score": {"type": "integer", "minimum": 0},
				"risk_category": {"type": "string"},
				"default_risk": {"type": "number", "minimum": 0, "maximum": 1},
				"approval_probability": {"type": "number", "minimum": 0, "maximum": 1},
				"threshold": {"type": "number", "minimum": 0, "maximum": 1}
			}
		},
		"positive_factors": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text", "type"],
				"properties": {
					"text": {"type": "string"},
					"type": {"type": "string", "enum": ["positive", "negative"]}
				}
			}
		},
		"negative_factors": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text", "type"],
				"properties": {
					"text": {"type": "string"},
					"type": {"type": "string", "enum": ["positive", "negative"]}
				}
			}
		},
		"recommendations": {
			"type": "array",
			"items": {"type": "string"}
		},
		"colour": {"type": "string"}
	}
}`
