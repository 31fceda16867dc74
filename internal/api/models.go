package api

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type UploadResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id" description:"Identifier of the stored conversation"`
}

type AnalyseResponse struct {
	Message    string `json:"message"`
	AnalysisID string `json:"analysis_id" description:"Identifier of the stored report"`
	Created    bool   `json:"created" description:"false when an existing report was replaced"`
}
