package items

import (
	"strings"

	"campusportal/internal/domain"
)

// validateSubmit checks the required fields for the kind and returns every
// offending field, not just the first one.
func validateSubmit(kind domain.ItemKind, req SubmitRequest) *ValidationError {
	var fields []FieldError

	if strings.TrimSpace(req.Title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(req.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Message: "description is required"})
	}

	switch kind {
	case domain.KindLostFound:
		if strings.TrimSpace(req.Contact) == "" {
			fields = append(fields, FieldError{Field: "contact", Message: "contact is required"})
		}
	case domain.KindMarketplace:
		if req.Price == nil {
			fields = append(fields, FieldError{Field: "price", Message: "price is required"})
		} else if *req.Price < 0 {
			fields = append(fields, FieldError{Field: "price", Message: "price must not be negative"})
		}
		if strings.TrimSpace(req.Contact) == "" {
			fields = append(fields, FieldError{Field: "contact", Message: "contact is required"})
		}
	case domain.KindNote:
		if req.RequireAttachment && strings.TrimSpace(req.AttachmentURL) == "" {
			fields = append(fields, FieldError{Field: "file", Message: "file is required"})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
