package domain

// MarketType identifies which market's settlement rules apply to a fund.
type MarketType string

const (
	// MarketTypeA is a domestic A-share market fund (T+1).
	MarketTypeA MarketType = "A"
	// MarketTypeQDII is a foreign-market fund traded through a domestic
	// channel (T+2, gated on the domestic channel being open).
	MarketTypeQDII MarketType = "QDII"
)

func (m MarketType) Valid() bool {
	return m == MarketTypeA || m == MarketTypeQDII
}

type Fund struct {
	Code       string
	Name       string
	Market     MarketType
	AssetClass string
}
