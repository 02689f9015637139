//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// UploadResumeRequest stores a structured resume for a user.
// Sections are expected to already be extracted; file parsing happens upstream.
type UploadResumeRequest struct {
	UserID   string        `json:"user_id" validate:"required"`
	Contact  ContactInfo   `json:"contact"`
	Sections ResumeContent `json:"sections"`
}

// OptimizeRequest asks for the latest resume of a user to be optimized against a job.
// Either JobDescription or JobURL must be present.
type OptimizeRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	JobDescription string `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	Format         string `json:"format,omitempty" validate:"omitempty,oneof=docx tex html"`
}

// Validate validates the UploadResumeRequest using the validator.
func (r *UploadResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the OptimizeRequest using the validator.
func (r *OptimizeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ContactInfo using the validator.
func (c *ContactInfo) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
