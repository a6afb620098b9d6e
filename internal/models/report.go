package models

// Prediction is a classification result produced by the model server or
// supplied by the client when saving a report.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Report associates a classification result with a user-supplied name and
// timestamp. Ownership is implicit in the store key (the owner's email).
type Report struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prediction Prediction `json:"prediction"`
	// CreatedAt is stored verbatim as sent by the client; the server never
	// parses it.
	CreatedAt string `json:"createdAt"`
}
