package yieldfarm

// YieldOption describes a pool earnings can be compounded into. APY is in
// basis points so the table stays integer-valued.
type YieldOption struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	ApyBps   uint32 `json:"apy_bps"`
	Tvl      uint64 `json:"tvl"`
	Protocol string `json:"protocol"`
	Risk     string `json:"risk"`
	MinStake uint64 `json:"min_stake"`
}

// Earnings is the dashboard aggregate, all amounts in lamports.
type Earnings struct {
	TotalEarned      uint64 `json:"total_earned"`
	FromDataSales    uint64 `json:"from_data_sales"`
	FromYieldFarming uint64 `json:"from_yield_farming"`
	AutoCompounded   uint64 `json:"auto_compounded"`
}
