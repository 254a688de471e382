package discovery

// FeedQuery holds the optional query parameters of the feed endpoint
type FeedQuery struct {
	Limit int `validate:"gte=0,lte=500"`
}

// FeedResponse is the body of a successful feed request
type FeedResponse struct {
	Candidates []*RankedCandidate `json:"candidates"`
	Count      int                `json:"count"`
}
