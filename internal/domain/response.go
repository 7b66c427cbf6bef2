package domain

import "time"

type ResponseID string

// Response is one viewer's answer to a question. Exactly one of
// SelectedOpt (mcq) and TextAnswer (text) is set.
type Response struct {
	ID             ResponseID `json:"id"`
	QuestionID     QuestionID `json:"questionId"`
	SelectedOpt    *string    `json:"selectedOpt"`
	TextAnswer     *string    `json:"textAnswer"`
	SentimentScore *int       `json:"sentimentScore"`
	CreatedAt      time.Time  `json:"createdAt"`
}
