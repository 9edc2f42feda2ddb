// Package intercompany implements intercompany matched pairs (§4.3.3):
// symmetric seller/buyer journal entries sharing an ic_reference, with
// canonical account pairs per transaction type and withholding tax.
package intercompany

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/types"
)

// TransactionType is the closed set of intercompany transaction kinds.
type TransactionType string

// Transaction types.
const (
	TxnGoodsSale     TransactionType = "GoodsSale"
	TxnServiceCharge TransactionType = "ServiceCharge"
	TxnLoanInterest  TransactionType = "LoanInterest"
	TxnRoyalty       TransactionType = "Royalty"
)

// AccountPair is the canonical seller/buyer account mapping for a
// transaction type, per §4.3.3's "canonical account pairs by transaction
// type" — this is a SUPPLEMENTED FEATURE filling in the mechanical
// detail the distilled spec names but doesn't enumerate.
type AccountPair struct {
	SellerDebit  string
	SellerCredit string
	BuyerDebit   string
	BuyerCredit  string
}

// canonicalAccountPairs maps each transaction type to its accounts,
// using the codes from account.StandardChartOfAccounts.
var canonicalAccountPairs = map[TransactionType]AccountPair{
	TxnGoodsSale:     {SellerDebit: "1150", SellerCredit: "4050", BuyerDebit: "5050", BuyerCredit: "2050"},
	TxnServiceCharge: {SellerDebit: "1150", SellerCredit: "4050", BuyerDebit: "6100", BuyerCredit: "2050"},
	TxnLoanInterest:  {SellerDebit: "1150", SellerCredit: "4050", BuyerDebit: "6100", BuyerCredit: "2050"},
	TxnRoyalty:       {SellerDebit: "1150", SellerCredit: "4050", BuyerDebit: "6100", BuyerCredit: "2050"},
}

// subjectToWHT is the closed set of transaction types subject to
// withholding tax, per §4.3.3.
var subjectToWHT = map[TransactionType]bool{
	TxnRoyalty: true, TxnLoanInterest: true,
}

// MatchedPair is one intercompany event: two balanced journal entries
// sharing an ic_reference.
type MatchedPair struct {
	ICReference     id.ID
	SellerCompany   string
	BuyerCompany    string
	TransactionType TransactionType
	Amount          types.Money
	SellerDoc       journal.Entry
	BuyerDoc        journal.Entry
	WithholdingTax  *types.Money
}

// Build constructs a matched pair for one intercompany event: two
// balanced entries using the canonical account pair for txnType, with a
// withholding-tax line when applicable, per §4.3.3's "seller's net
// receivable equals gross − WHT; a third line posts WHT Payable."
func Build(sellerCompany, buyerCompany string, txnType TransactionType, gross types.Money, whtRate float64) (MatchedPair, error) {
	pair, ok := canonicalAccountPairs[txnType]
	if !ok {
		return MatchedPair{}, fmt.Errorf("intercompany: no canonical account pair for %s", txnType)
	}

	ref := id.New(id.PrefixICPair)

	var wht *types.Money
	net := gross
	if subjectToWHT[txnType] && whtRate > 0 {
		w := gross.Multiply(decimal.NewFromFloat(whtRate))
		wht = &w
		net = gross.Subtract(w)
	}

	sellerLines := []journal.Line{
		{LineNo: 1, Account: pair.SellerDebit, DebitAmount: net, CreditAmount: types.Zero(gross.Currency)},
	}
	if wht != nil {
		sellerLines = append(sellerLines, journal.Line{
			LineNo: 2, Account: "2200", DebitAmount: *wht, CreditAmount: types.Zero(gross.Currency),
		})
	}
	sellerLines = append(sellerLines, journal.Line{
		LineNo: len(sellerLines) + 1, Account: pair.SellerCredit,
		DebitAmount: types.Zero(gross.Currency), CreditAmount: gross,
	})

	buyerLines := []journal.Line{
		{LineNo: 1, Account: pair.BuyerDebit, DebitAmount: gross, CreditAmount: types.Zero(gross.Currency)},
		{LineNo: 2, Account: pair.BuyerCredit, DebitAmount: types.Zero(gross.Currency), CreditAmount: gross},
	}

	sellerEntry := journal.Entry{
		Header: journal.Header{DocumentID: id.NewJournalEntryID(), Company: sellerCompany, Currency: gross.Currency, BusinessProcess: journal.ProcessIC},
		Lines:  sellerLines,
	}
	buyerEntry := journal.Entry{
		Header: journal.Header{DocumentID: id.NewJournalEntryID(), Company: buyerCompany, Currency: gross.Currency, BusinessProcess: journal.ProcessIC},
		Lines:  buyerLines,
	}

	if err := sellerEntry.Validate(); err != nil {
		return MatchedPair{}, fmt.Errorf("intercompany: seller entry: %w", err)
	}
	if err := buyerEntry.Validate(); err != nil {
		return MatchedPair{}, fmt.Errorf("intercompany: buyer entry: %w", err)
	}

	return MatchedPair{
		ICReference: ref, SellerCompany: sellerCompany, BuyerCompany: buyerCompany,
		TransactionType: txnType, Amount: gross,
		SellerDoc: sellerEntry, BuyerDoc: buyerEntry, WithholdingTax: wht,
	}, nil
}

// IsSymmetric validates P2: the seller's IC-receivable line and the
// buyer's IC-payable line carry equal magnitude.
func (p MatchedPair) IsSymmetric() bool {
	sellerReceivable := lineAmount(p.SellerDoc, canonicalAccountPairs[p.TransactionType].SellerDebit)
	buyerPayable := lineAmount(p.BuyerDoc, canonicalAccountPairs[p.TransactionType].BuyerCredit)
	return sellerReceivable.Abs().Equal(buyerPayable.Abs())
}

func lineAmount(e journal.Entry, accountCode string) types.Money {
	for _, l := range e.Lines {
		if l.Account == accountCode {
			if l.DebitAmount.IsPositive() {
				return l.DebitAmount
			}
			return l.CreditAmount
		}
	}
	return types.Zero(e.Header.Currency)
}

// MatchRate computes the fraction of pairs satisfying IsSymmetric, used
// by C6's IC-match-rate metric.
func MatchRate(pairs []MatchedPair) float64 {
	if len(pairs) == 0 {
		return 1.0
	}
	matched := 0
	for _, p := range pairs {
		if p.IsSymmetric() {
			matched++
		}
	}
	return float64(matched) / float64(len(pairs))
}
