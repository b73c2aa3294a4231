package domain

// Chat intents. Budget search is never produced by classification; it is decided before it.
const (
	IntentBudgetSearch = "budget_search"
	IntentPolicy       = "policy"
	IntentReview       = "review"
	IntentPrice        = "price"
	IntentRecommend    = "recommend"
	IntentSearch       = "search"
)

type ChatRequest struct {
	Message   string
	ProductID string
	UserID    string
}

type ChatResponse struct {
	Reply   string      `json:"reply"`
	Intent  string      `json:"intent"`
	Payload ChatPayload `json:"payload"`
}

// ChatPayload is the structured half of a chat reply. Each variant serializes under the
// keys the UI switches on and names the intent family it belongs to.
type ChatPayload interface {
	PayloadIntent() string
}

type ProductBrief struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type BudgetMatch struct {
	Product ProductBrief `json:"product"`
}

type BudgetSearchResult struct {
	Results []BudgetMatch `json:"results"`
}

func (BudgetSearchResult) PayloadIntent() string { return IntentBudgetSearch }

type PolicyResult struct {
	Policy *StorePolicy `json:"policy"`
}

func (PolicyResult) PayloadIntent() string { return IntentPolicy }

type ReviewResult struct {
	Summary ReviewSummary   `json:"summary"`
	Reviews []ReviewSnippet `json:"reviews"`
}

func (ReviewResult) PayloadIntent() string { return IntentReview }

type PriceResult struct {
	Comparison PriceComparison `json:"comparison"`
}

func (PriceResult) PayloadIntent() string { return IntentPrice }

type ComparisonSide struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Price         float64       `json:"price"`
	Category      string        `json:"category"`
	Rating        float64       `json:"rating"`
	ReviewSummary ReviewSummary `json:"review_summary"`
	Policy        *StorePolicy  `json:"policy"`
}

type ComparisonPair struct {
	Left  ComparisonSide `json:"left"`
	Right ComparisonSide `json:"right"`
}

type ComparisonPairResult struct {
	ComparisonPair ComparisonPair `json:"comparison_pair"`
}

func (ComparisonPairResult) PayloadIntent() string { return IntentPrice }

type CheapestItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type CheapestResult struct {
	Cheapest []CheapestItem `json:"cheapest"`
}

func (CheapestResult) PayloadIntent() string { return IntentRecommend }

type RecommendResult struct {
	Recommendations []Recommendation `json:"recommendations"`
}

func (RecommendResult) PayloadIntent() string { return IntentRecommend }

type SearchResult struct {
	Results []Recommendation `json:"results"`
}

func (SearchResult) PayloadIntent() string { return IntentSearch }

// ClarificationResult is the empty payload sent with a reply that asks the user for more detail.
type ClarificationResult struct {
	For string `json:"-"`
}

func (c ClarificationResult) PayloadIntent() string { return c.For }
