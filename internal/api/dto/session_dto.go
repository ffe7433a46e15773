package dto

// ChatRequest payload for a support-to-admin chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// DoubtRequest payload for a support doubt raised to admins.
type DoubtRequest struct {
	Doubt string `json:"doubt"`
}

// AvailabilityRequest payload toggling a support user's availability.
type AvailabilityRequest struct {
	Available bool `json:"available"`
}
