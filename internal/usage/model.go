package usage

// Record is one client's consumption on one calendar day.
type Record struct {
	ClientID string `json:"client_id"`
	Day      string `json:"day"`
	Count    int    `json:"count"`
}

// Key identifies a Record.
type Key struct {
	ClientID string
	Day      string
}

func (k Key) String() string {
	return k.ClientID + "-" + k.Day
}

// Status is the usage snapshot returned to clients.
type Status struct {
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
	CanUse    bool `json:"canUse"`
}

// IncrementResult reports the outcome of consuming one unit of quota.
type IncrementResult struct {
	Success      bool `json:"success"`
	Remaining    int  `json:"remaining"`
	LimitReached bool `json:"limitReached"`
}

// UpgradeOffer is the paid-plan pitch attached to quota-exceeded responses.
type UpgradeOffer struct {
	Message  string   `json:"message"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

func DefaultUpgradeOffer() *UpgradeOffer {
	return &UpgradeOffer{
		Message: "Upgrade to unlimited usage",
		Price:   "₹399/month",
		Features: []string{
			"Unlimited resume analysis",
			"Unlimited email improvements",
			"Priority processing",
			"Advanced features",
		},
	}
}
