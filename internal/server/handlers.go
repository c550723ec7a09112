package server

type consultationSubmitRequest struct {
	UserID              string     `json:"userId"`
	Situation           string     `json:"situation"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

type consultationHelpfulRequest struct {
	ConsultationID string `json:"consultationId"`
	Helpful        *bool  `json:"helpful"`
}

type weeklyRecordRequest struct {
	UserID              string `json:"userId"`
	WeekNumber          int    `json:"weekNumber"`
	Year                int    `json:"year"`
	ScreamLevel         int    `json:"screamLevel"`
	UsedPunishment      bool   `json:"usedPunishment"`
	AppliedGentleLimits int    `json:"appliedGentleLimits"`
	PositiveMoments     int    `json:"positiveMoments"`
	Challenges          int    `json:"challenges"`
	Notes               string `json:"notes"`
}

type evaluationRequest struct {
	UserID               string `json:"userId"`
	Type                 string `json:"type"`
	KnowledgeLevel       *int   `json:"knowledgeLevel"`
	ConfidenceLevel      *int   `json:"confidenceLevel"`
	EmotionalRegulation  *int   `json:"emotionalRegulation"`
	CommunicationQuality *int   `json:"communicationQuality"`
	OverallSatisfaction  *int   `json:"overallSatisfaction"`
	StressLevel          *int   `json:"stressLevel"`
	SupportNetwork       *int   `json:"supportNetwork"`
	Notes                string `json:"notes"`
}

type userCreateRequest struct {
	Code          string `json:"code"`
	AgeRange      string `json:"ageRange"`
	ChildAgeRange string `json:"childAgeRange"`
	Country       string `json:"country"`
}

type phraseSaveRequest struct {
	UserID   string `json:"userId"`
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	Context  string `json:"context"`
}
