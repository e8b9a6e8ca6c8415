package pipeline

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

// City tax is charged at €7 per guest per night, so a tax collection is a
// multiple of 7 for 1 to 8 person-nights.
var cityTaxAmounts = map[float64]struct{}{
	7: {}, 14: {}, 21: {}, 28: {}, 35: {}, 42: {}, 49: {}, 56: {},
}

// Classifier amount bands, in euros.
const (
	smallServiceMax  = 50.0
	checkoutFeeMin   = 15.0
	checkoutFeeMax   = 40.0
	checkinFeeMin    = 10.0
	checkinFeeMax    = 35.0
	mediumServiceMax = 150.0
)

// ClassifyAmount buckets an amount into exactly one revenue category.
// Rules are evaluated top to bottom: city tax, then the small-service band
// (checkout fee before check-in fee, so checkout wins the 15-35 overlap),
// then medium service. Zero and negative amounts are unclassified.
func ClassifyAmount(amount float64) model.Category {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return model.CategoryUnclassified
	}
	if _, ok := cityTaxAmounts[math.Round(amount)]; ok {
		return model.CategoryTax
	}
	switch {
	case amount <= smallServiceMax:
		if amount >= checkoutFeeMin && amount <= checkoutFeeMax {
			return model.CategoryCheckoutFee
		}
		if amount >= checkinFeeMin && amount <= checkinFeeMax {
			return model.CategoryCheckinFee
		}
		return model.CategoryUnclassified
	case amount <= mediumServiceMax:
		return model.CategoryMedium
	default:
		return model.CategoryUnclassified
	}
}

// ClassifyTransaction parses the display amount and classifies it. It returns
// the parsed amount alongside the category. No other field is consulted.
func ClassifyTransaction(tx model.TransactionRecord) (model.Category, float64) {
	amount := currency.Parse(tx.TotalAmount)
	return ClassifyAmount(amount), amount
}

// SummarizeCategories classifies every transaction and rolls the amounts up
// per category. Unclassified transactions still count toward TotalCount.
func SummarizeCategories(txs []model.TransactionRecord) model.CategoryTotals {
	sums := map[model.Category]decimal.Decimal{
		model.CategoryTax:          decimal.Zero,
		model.CategoryCheckoutFee:  decimal.Zero,
		model.CategoryCheckinFee:   decimal.Zero,
		model.CategoryMedium:       decimal.Zero,
		model.CategoryUnclassified: decimal.Zero,
	}
	totals := model.CategoryTotals{
		Counts:     make(map[model.Category]int, len(sums)),
		TotalCount: len(txs),
	}

	gross := decimal.Zero
	for _, tx := range txs {
		cat, amount := ClassifyTransaction(tx)
		d := decimal.NewFromFloat(amount)
		sums[cat] = sums[cat].Add(d)
		gross = gross.Add(d)
		totals.Counts[cat]++
		if cat != model.CategoryUnclassified {
			totals.ServiceCount++
		}
	}

	services := sums[model.CategoryTax].
		Add(sums[model.CategoryCheckoutFee]).
		Add(sums[model.CategoryCheckinFee]).
		Add(sums[model.CategoryMedium])

	totals.Tax = sums[model.CategoryTax].InexactFloat64()
	totals.CheckoutFee = sums[model.CategoryCheckoutFee].InexactFloat64()
	totals.CheckinFee = sums[model.CategoryCheckinFee].InexactFloat64()
	totals.Medium = sums[model.CategoryMedium].InexactFloat64()
	totals.ServicesTotal = services.InexactFloat64()
	totals.GrossTotal = gross.InexactFloat64()

	return totals
}
