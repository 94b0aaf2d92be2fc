package dto

type HealthResponse struct {
	Status string `json:"status"`
}

type SystemStatusResponse struct {
	Database        bool     `json:"database"`
	Patients        int64    `json:"patients"`
	IndexedChunks   int64    `json:"indexed_chunks"`
	ActiveSessions  int      `json:"active_sessions"`
	IndexBackend    string   `json:"index_backend"`
	LLMProvider     string   `json:"llm_provider"`
	SearchProviders []string `json:"search_providers"`
}
