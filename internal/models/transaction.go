package models

// StripeCharge is a charge object as returned by the Stripe charges API.
// Amount is in minor units and Created in unix seconds.
type StripeCharge struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Created     int64  `json:"created"`
	Paid        bool   `json:"paid"`
	Refunded    bool   `json:"refunded"`
	Description string `json:"description"`
}

// StripeBalanceEntry is one currency amount of a Stripe balance, in minor units.
type StripeBalanceEntry struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// StripeBalance is the response of the Stripe balance API.
type StripeBalance struct {
	Available []StripeBalanceEntry `json:"available"`
	Pending   []StripeBalanceEntry `json:"pending,omitempty"`
}

// StripeData is everything fetched from Stripe for one project and cycle.
// RecentCharges is optional; when nil the recent subset is derived from Charges.
type StripeData struct {
	Charges       []StripeCharge
	RecentCharges []StripeCharge
	Balance       *StripeBalance
}

// PayPalMoney is a PayPal amount with a decimal string value.
type PayPalMoney struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

// PayPalTransactionInfo is the transaction_info block of a PayPal transaction.
type PayPalTransactionInfo struct {
	TransactionID             string      `json:"transaction_id"`
	TransactionAmount         PayPalMoney `json:"transaction_amount"`
	TransactionInitiationDate string      `json:"transaction_initiation_date"`
	TransactionStatus         string      `json:"transaction_status"`
	TransactionType           string      `json:"transaction_type,omitempty"`
	PayerEmail                string      `json:"payer_email,omitempty"`
}

// PayPalTransaction is one entry of PayPal's transaction_details list.
type PayPalTransaction struct {
	TransactionInfo PayPalTransactionInfo `json:"transaction_info"`
}

// PayPalBalanceEntry is one currency of a PayPal balance report.
type PayPalBalanceEntry struct {
	Currency     string      `json:"currency"`
	TotalBalance PayPalMoney `json:"total_balance"`
}

// PayPalBalance is the balances report of a PayPal account.
type PayPalBalance struct {
	Balances []PayPalBalanceEntry `json:"balances"`
}

// PayPalData is everything fetched from PayPal for one project and cycle.
// RecentTransactions is optional; when nil the recent subset is derived from Transactions.
type PayPalData struct {
	Transactions       []PayPalTransaction
	RecentTransactions []PayPalTransaction
	Balance            *PayPalBalance
}

// NormalizedTransaction is a provider-agnostic transaction. Amount is in
// major units of Currency and is never negative.
type NormalizedTransaction struct {
	TimestampMillis int64
	Amount          float64
	Currency        string
	Succeeded       bool
	Provider        Provider
	Description     string
}
