package model

// AnalyticsOverview is the top-level aggregate card data.
type AnalyticsOverview struct {
	TotalEmails    int     `json:"totalEmails"`
	TotalAccounts  int     `json:"totalAccounts"`
	UniqueSenders  int     `json:"uniqueSenders"`
	UniqueDomains  int     `json:"uniqueDomains"`
	EmailsToday    int     `json:"emailsToday"`
	EmailsThisWeek int     `json:"emailsThisWeek"`
	AvgPerDay      float64 `json:"avgPerDay"`
}

// SenderAnalytics is one row of the top-senders aggregation.
type SenderAnalytics struct {
	Sender     string  `json:"sender"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DomainAnalytics is one row of the top-domains aggregation.
type DomainAnalytics struct {
	Domain     string  `json:"domain"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ESPAnalytics is one row of the sending-provider breakdown.
type ESPAnalytics struct {
	ESP        string  `json:"esp"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TimeSeriesPoint is one day of email volume.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SecurityMetrics summarizes authentication results across messages.
type SecurityMetrics struct {
	SPFPass    int `json:"spfPass"`
	SPFFail    int `json:"spfFail"`
	DKIMPass   int `json:"dkimPass"`
	DKIMFail   int `json:"dkimFail"`
	DMARCPass  int `json:"dmarcPass"`
	DMARCFail  int `json:"dmarcFail"`
	OpenRelays int `json:"openRelays"`
}
