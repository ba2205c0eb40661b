package model

// UserMessage is one enriched user published to Kafka. Rank is the 1-based
// position in the search ordering.
type UserMessage struct {
	Rank   int        `json:"rank"`
	Record UserRecord `json:"record"`
}
