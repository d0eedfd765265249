package domain

// Project is one tracked construction job, loaded once from the dataset and
// read-only afterwards. Every field except ID and Name may be absent; absent
// is always "condition not met" for downstream logic, never an error.
// Pointer fields keep "no value" distinct from zero values (a $0 quote is not
// the same as no quote).
type Project struct {
	ID   int    `json:"id"`
	Name string `json:"projectName"`

	Location *string `json:"location"`
	Address  *string `json:"projectAddress"`
	Label    *string `json:"projectLabel"`

	QuoteSent  bool `json:"quoteSent"`
	ReachedOut bool `json:"reachedOut"`

	Customer *string `json:"customer"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`

	BuildSize     *string `json:"buildSize"`
	ZipCode       *string `json:"zipCode"`
	ProjectType   *string `json:"projectType"`
	SquareFootage *int    `json:"projectSQFT"`

	TotalCOGS         *float64 `json:"totalCOGs"`
	QuoteMaterialOnly *float64 `json:"ourQuoteMaterialOnly"`
	SalesTaxPercent   *float64 `json:"salesTaxPercent"`
	QuoteWithTax      *float64 `json:"ourQuoteWithTax"`

	QuoteAcceptedDeclined    *string `json:"quoteAcceptedDeclined"`
	DepositPaid              *string `json:"depositPaid"`
	EngineeredDrawingsStatus *string `json:"engineeredDrawingsStatus"`

	EstMetalDeliveryDate   *string `json:"estimatedMetalDeliveryDate"`
	DoorOrderSubmittedDate *string `json:"doorOrderSubmittedDate"`
	EstDoorDeliveryDate    *string `json:"estimatedDoorDeliveryDate"`
	MetalProduction        *string `json:"metalProduction"`
	MetalDelivery          *string `json:"metalDelivery"`
	DoorDelivery           *string `json:"doorDelivery"`
	FinalACHPayment        *string `json:"finalACHPayment"`
	ContractorStartDate    *string `json:"contractorStartDate"`

	JobStatus *string `json:"jobStatus"`
	Comments  *string `json:"comments"`

	// ColorStatus is the legacy free-text color code carried over from the
	// source spreadsheet (e.g. "Green - Already Quoted").
	ColorStatus *string `json:"colorStatus"`
}

// DepositIsPaid reports whether the deposit has been marked as paid.
func (p *Project) DepositIsPaid() bool {
	return p.DepositPaid != nil && *p.DepositPaid == "Paid"
}

// QuoteValue returns the with-tax quote, or zero when no quote exists.
// Aggregations treat absent quotes as zero contributions.
func (p *Project) QuoteValue() float64 {
	if p.QuoteWithTax == nil {
		return 0
	}
	return *p.QuoteWithTax
}

// HasQuote reports whether a with-tax quote is present at all.
func (p *Project) HasQuote() bool {
	return p.QuoteWithTax != nil
}
