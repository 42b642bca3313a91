package models

// Constant columns of every information table entry.
const (
	ShareTypeShares          = "SH"
	DiscretionSole           = "SOLE"
	PutCallCall              = "CALL"
	PutCallPut               = "PUT"
	InformationTableNS       = "http://www.sec.gov/edgar/document/thirteenf/informationtable"
	InformationTableNSPrefix = "ns1"
)

// VotingAuthority is the sole/shared/none split of voting power.
type VotingAuthority struct {
	Sole   int64 `json:"sole"`
	Shared int64 `json:"shared"`
	None   int64 `json:"none"`
}

// ReportLine is one infoTable entry of the 13F information table.
type ReportLine struct {
	NameOfIssuer         string          `json:"name_of_issuer"`
	TitleOfClass         string          `json:"title_of_class"`
	CUSIP                string          `json:"cusip"`
	FIGI                 *string         `json:"figi,omitempty"`
	Value                int64           `json:"value"`
	Shares               int64           `json:"shares"`
	ShareType            string          `json:"share_type"`
	PutCall              *string         `json:"put_call,omitempty"`
	InvestmentDiscretion string          `json:"investment_discretion"`
	OtherManagers        string          `json:"other_managers"`
	Voting               VotingAuthority `json:"voting_authority"`
}
