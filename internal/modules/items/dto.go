package items

// SubmitRequest carries the kind-specific payload of a new submission.
// Which fields are required depends on the kind; see validate.go.
type SubmitRequest struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
	Contact     string   `json:"contact" form:"contact"`
	Subject     string   `json:"subject" form:"subject"`

	AttachmentURL string `json:"-" form:"-"`

	// Set by the notes upload route, where a file reference is mandatory.
	RequireAttachment bool `json:"-" form:"-"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type MarketplaceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
