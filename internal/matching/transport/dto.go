package transport

// MatchItem is one scored buyer in the match list response.
type MatchItem struct {
	BuyerID      string   `json:"buyerId"`
	BuyerName    string   `json:"buyerName"`
	MatchScore   int      `json:"matchScore"`
	MatchReasons []string `json:"matchReasons"`
}

// MatchListResponse wraps the ranked matches for a lead's property.
type MatchListResponse struct {
	LeadID  string      `json:"leadId"`
	Matches []MatchItem `json:"matches"`
	Total   int         `json:"total"`
}
