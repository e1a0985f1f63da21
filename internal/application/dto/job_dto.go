package dto

// JobStepResponse resultado de una página de un trabajo reanudable.
// More=true indica que hay que volver a invocar el paso.
type JobStepResponse struct {
	Job       string `json:"job"`
	Mode      string `json:"mode,omitempty"`
	Offset    int    `json:"offset"`
	Fetched   int    `json:"fetched"`
	Processed int    `json:"processed"`
	More      bool   `json:"more"`
}

// JobAbortedResponse error de un trabajo abortado; Offset es donde continuará.
type JobAbortedResponse struct {
	ErrorResponse
	Job     string `json:"job"`
	Offset  int    `json:"offset"`
	EntryID string `json:"entry_id,omitempty"`
}
