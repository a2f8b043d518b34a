package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const milestoneSchema = `{
  "type": "object",
  "required": ["milestones"],
  "properties": {
    "milestones": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "amount"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "amount": {"type": "integer", "minimum": 1}
        }
      }
    },
    "category": {"type": "string", "enum": ["Consulting", "Design & Creative"]}
  }
}`

type testMilestone struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
}

type testDoc struct {
	Milestones []testMilestone `json:"milestones"`
	Category   string          `json:"category,omitempty"`
}

func TestSchema_Validate(t *testing.T) {
	schema, err := GetSchemaFromJSON(milestoneSchema)
	require.NoError(t, err)

	tests := []struct {
		name     string
		doc      interface{}
		valid    bool
		validate func(t *testing.T, r *ValidationResult)
	}{
		{
			name:  "valid document",
			doc:   testDoc{Milestones: []testMilestone{{Title: "Design", Amount: 25000}}},
			valid: true,
		},
		{
			name:  "empty title and zero amount",
			doc:   testDoc{Milestones: []testMilestone{{Title: "Design", Amount: 1}, {Title: "", Amount: 0}}},
			valid: false,
			validate: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.HasErrors("milestones[1].title"))
				assert.True(t, r.HasErrors("milestones[1].amount"))
				assert.False(t, r.HasErrors("milestones[0].title"))
				assert.Len(t, r.GetErrorsForField("milestones"), 2)
				assert.Equal(t, "must not be empty", r.GetErrorsForField("milestones[1].title")[0].Message)
			},
		},
		{
			name:  "missing required property",
			doc:   map[string]interface{}{},
			valid: false,
			validate: func(t *testing.T, r *ValidationResult) {
				require.Len(t, r.Errors, 1)
				assert.Equal(t, "milestones", r.Errors[0].Field)
				assert.Equal(t, "is required", r.Errors[0].Message)
				assert.Equal(t, "REQUIRED", r.Errors[0].Code)
			},
		},
		{
			name:  "enum violation",
			doc:   testDoc{Milestones: []testMilestone{{Title: "A", Amount: 1}}, Category: "Cooking"},
			valid: false,
			validate: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.HasErrors("category"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := schema.Validate(tt.doc)
			assert.Equal(t, tt.valid, r.Valid)
			if tt.validate != nil {
				tt.validate(t, r)
			}
		})
	}
}

func TestGetSchemaFromJSON_Invalid(t *testing.T) {
	_, err := GetSchemaFromJSON("{not json")
	assert.Error(t, err)

	_, err = GetSchemaFromJSON(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidationResult_Helpers(t *testing.T) {
	r := Ok()
	assert.True(t, r.Valid)
	assert.Nil(t, r.FieldErrors())

	r.Add("title", "is required", "REQUIRED")
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"title: is required"}, r.GetErrorMessages())

	other := Ok()
	other.Add("amount", "must be greater than 0", "NUMBER_GTE")
	r.Merge(other)
	assert.Len(t, r.Errors, 2)

	fe := r.FieldErrors()
	require.Len(t, fe, 2)
	assert.Equal(t, "amount", fe[1].Field)

	assert.True(t, Ok().Merge(Ok()).Valid)

	dup := Ok()
	dup.Add("amount", "must be at least 1", "NUMBER_GTE")
	r.Merge(dup)
	assert.Len(t, r.Errors, 2, "one message per field")
	assert.Equal(t, "must be greater than 0", r.GetErrorsForField("amount")[0].Message)
}

func TestValidationResult_RequireText(t *testing.T) {
	for _, blank := range []string{"", "   ", "\v", "\u00a0", "\u3000", "\t\u2003\n"} {
		r := Ok()
		r.RequireText("title", blank)
		assert.False(t, r.Valid, "%q", blank)
		assert.Equal(t, []string{"title: must not be empty"}, r.GetErrorMessages())
	}

	r := Ok()
	r.RequireText("title", " \u00a0Design\u3000")
	assert.True(t, r.Valid)
}

func TestFormats(t *testing.T) {
	assert.True(t, ValidatePAN("abcde1234f"))
	assert.False(t, ValidatePAN("ABCDE12345"))

	assert.True(t, ValidateAadhaar("2345 6789 0123"))
	assert.False(t, ValidateAadhaar("1234 5678 9012"))
	assert.False(t, ValidateAadhaar("23456789012"))

	assert.True(t, ValidateIFSC("HDFC0001234"))
	assert.False(t, ValidateIFSC("HDFC1001234"))

	assert.True(t, ValidateGSTIN("27ABCDE1234F1Z5"))
	assert.False(t, ValidateGSTIN("27ABCDE1234F1X5"))

	assert.True(t, ValidateCIN("U72900MH2020PTC123456"))
	assert.False(t, ValidateCIN("X72900MH2020PTC123456"))

	assert.True(t, ValidatePINCode("560001"))
	assert.False(t, ValidatePINCode("060001"))

	assert.True(t, ValidateAccountNumber("123456789012"))
	assert.False(t, ValidateAccountNumber("12345"))

	assert.True(t, ValidateUPIID("yourname@upi"))
	assert.False(t, ValidateUPIID("yourname"))

	assert.True(t, ValidateDate("2026-12-31"))
	assert.False(t, ValidateDate("2026-13-01"))
	assert.False(t, ValidateDate("31/12/2026"))
}
