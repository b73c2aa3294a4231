package domain

import "time"

type Review struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID string     `gorm:"column:product_id;type:text;not null;index" json:"product_id"`
	Rating    float64    `gorm:"column:rating;not null" json:"rating"`
	Text      string     `gorm:"column:text;type:text;not null" json:"text"`
	Date      *time.Time `gorm:"column:date;type:date" json:"date"`
}

func (Review) TableName() string {
	return "reviews"
}

type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type Theme struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type ReviewSummary struct {
	AverageRating float64            `json:"average_rating"`
	TotalReviews  int                `json:"total_reviews"`
	Sentiment     SentimentBreakdown `json:"sentiment"`
	Themes        []Theme            `json:"themes"`
	SummaryText   string             `json:"summary_text"`
}

// ReviewSnippet is the short form of a review embedded in chat replies.
type ReviewSnippet struct {
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
	Date   *string `json:"date"`
}

func NewReviewSnippet(r Review) ReviewSnippet {
	snippet := ReviewSnippet{Rating: r.Rating, Text: r.Text}
	if r.Date != nil {
		d := r.Date.Format("2006-01-02")
		snippet.Date = &d
	}
	return snippet
}
