package httptransport

import (
	"fmt"
	"strings"

	"github.com/nootkan/required-fields-manager/internal/submission"
	dErrors "github.com/nootkan/required-fields-manager/pkg/domain-errors"
)

// SubmissionRequest is the HTTP body for POST /hooks/submission. The page
// and action identifiers travel exactly as the host's router exposes them.
type SubmissionRequest struct {
	Page      string            `json:"page"`
	Action    string            `json:"action"`
	SessionID string            `json:"session_id"`
	UserID    int64             `json:"user_id,omitempty"`
	Fields    submission.Fields `json:"fields"`

	parsedType submission.Type
}

// Validate checks the envelope and resolves the page/action pair to a
// submission type. Implements httputil.Validatable.
func (r *SubmissionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Page = strings.TrimSpace(r.Page)
	r.Action = strings.TrimSpace(r.Action)
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "session_id is required")
	}
	subType, ok := resolveSubmissionType(r.Page, r.Action)
	if !ok {
		return dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("unsupported page/action pair %q/%q", r.Page, r.Action))
	}
	r.parsedType = subType
	if r.Fields == nil {
		r.Fields = submission.Fields{}
	}
	return nil
}

// ParsedType returns the submission type resolved by Validate.
func (r *SubmissionRequest) ParsedType() submission.Type {
	return r.parsedType
}

// resolveSubmissionType maps the host's page/action pairs onto submission
// types. The pairs mirror the host router: registrations post through either
// the register or user controller, listings through item or items.
func resolveSubmissionType(page, action string) (submission.Type, bool) {
	switch action {
	case "register_post":
		if page == "register" || page == "user" {
			return submission.TypeRegistration, true
		}
	case "profile_post":
		if page == "user" {
			return submission.TypeProfileUpdate, true
		}
	case "item_add_post":
		if page == "item" || page == "items" {
			return submission.TypeListingCreate, true
		}
	case "item_edit_post":
		if page == "item" || page == "items" {
			return submission.TypeListingEdit, true
		}
	}
	return "", false
}

// RecordCreatedRequest is the HTTP body for POST /hooks/record-created.
type RecordCreatedRequest struct {
	Hook      string `json:"hook"`
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
}

func (r *RecordCreatedRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Hook = strings.TrimSpace(r.Hook)
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.Hook == "" {
		return dErrors.New(dErrors.CodeBadRequest, "hook is required")
	}
	if r.SessionID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "session_id is required")
	}
	return nil
}

// SettingsRequest is the HTTP body for PUT /admin/settings: a sparse flag
// map. Unknown keys are rejected by the policy service.
type SettingsRequest map[string]bool

func (r *SettingsRequest) Validate() error {
	if r == nil || len(*r) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "at least one setting is required")
	}
	return nil
}
