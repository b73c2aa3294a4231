package domain

type Recommendation struct {
	Product Product `json:"product"`
	Reason  *string `json:"reason"`
}

type RecommendationRequest struct {
	ProductID string
	Query     string
	UserID    string
	Limit     int
}

type PriceComparison struct {
	Base      Product   `json:"base"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Avg       float64   `json:"avg"`
	Cheaper   []Product `json:"cheaper"`
	UpdatedAt string    `json:"updated_at"`
}
