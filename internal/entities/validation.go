package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ideaforge-be/internal/common"
)

// the len tag must stay equal to IdeasPerBatch
type ideaBatch struct {
	Ideas []Idea `json:"ideas" validate:"len=3,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateIdeas checks the batch contract: exactly IdeasPerBatch ideas, every field non-blank.
func ValidateIdeas(ideas []Idea) error {
	if err := validate.Struct(ideaBatch{Ideas: ideas}); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// ValidateFormat reports whether ideas can be stored as a batch.
func ValidateFormat(ideas []Idea) bool {
	return ValidateIdeas(ideas) == nil
}

// DecodeIdeas parses untrusted JSON of the form {"ideas": [...]} and applies the batch contract.
// Unknown keys and non-string values are rejected.
func DecodeIdeas(raw []byte) ([]Idea, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var batch ideaBatch
	if err := dec.Decode(&batch); err != nil {
		return nil, fmt.Errorf("%w: failed to decode ideas: %v", common.ErrValidation, err)
	}

	if err := ValidateIdeas(batch.Ideas); err != nil {
		return nil, err
	}

	return batch.Ideas, nil
}
