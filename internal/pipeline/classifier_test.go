package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

func tx(amount string) model.TransactionRecord {
	return model.TransactionRecord{ID: amount, TotalAmount: amount}
}

func TestClassifyAmount(t *testing.T) {
	cases := []struct {
		amount float64
		want   model.Category
	}{
		{21, model.CategoryTax},
		{7, model.CategoryTax},
		{56, model.CategoryTax},
		{34.6, model.CategoryTax}, // rounds to 35
		{63, model.CategoryMedium},
		{20, model.CategoryCheckoutFee},
		{15, model.CategoryCheckoutFee},
		{35.5, model.CategoryCheckoutFee},
		{40, model.CategoryCheckoutFee},
		{12, model.CategoryCheckinFee},
		{10, model.CategoryCheckinFee},
		{9.99, model.CategoryUnclassified},
		{45, model.CategoryUnclassified},
		{50, model.CategoryUnclassified},
		{50.01, model.CategoryMedium},
		{150, model.CategoryMedium},
		{150.01, model.CategoryUnclassified},
		{0, model.CategoryUnclassified},
		{-21, model.CategoryUnclassified},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyAmount(tc.amount), "ClassifyAmount(%v)", tc.amount)
	}
}

func TestClassifyTransactionParsesDisplayAmount(t *testing.T) {
	cat, amount := ClassifyTransaction(tx("€\u00a021,00"))
	assert.Equal(t, model.CategoryTax, cat)
	assert.Equal(t, 21.0, amount)

	cat, amount = ClassifyTransaction(tx("not money"))
	assert.Equal(t, model.CategoryUnclassified, cat)
	assert.Zero(t, amount)
}

func TestSummarizeCategories(t *testing.T) {
	txs := []model.TransactionRecord{
		tx("€\u00a021,00"),  // tax
		tx("€\u00a014,00"),  // tax
		tx("€\u00a025,00"),  // checkout
		tx("€\u00a012,50"),  // checkin
		tx("€\u00a080,00"),  // medium
		tx("€\u00a0450,00"), // unclassified
		tx(""),              // unclassified, zero
	}
	c := SummarizeCategories(txs)

	assert.Equal(t, 35.0, c.Tax)
	assert.Equal(t, 25.0, c.CheckoutFee)
	assert.Equal(t, 12.5, c.CheckinFee)
	assert.Equal(t, 80.0, c.Medium)
	assert.Equal(t, 152.5, c.ServicesTotal)
	assert.Equal(t, 602.5, c.GrossTotal)
	assert.Equal(t, 5, c.ServiceCount)
	assert.Equal(t, 7, c.TotalCount)
	assert.Equal(t, 2, c.Counts[model.CategoryTax])
	assert.Equal(t, 2, c.Counts[model.CategoryUnclassified])
}

func TestSummarizeCategoriesEmpty(t *testing.T) {
	c := SummarizeCategories(nil)
	assert.Zero(t, c.TotalCount)
	assert.Zero(t, c.ServicesTotal)
	assert.NotNil(t, c.Counts)
}

func TestGrowthKPIs(t *testing.T) {
	txs := []model.TransactionRecord{
		tx("€\u00a021,00"),
		tx("€\u00a025,00"),
		tx("€\u00a012,50"),
		tx("€\u00a01.200,00"),
	}
	kpis := GrowthKPIs(txs)
	if !assert.Len(t, kpis, 6) {
		return
	}

	ids := make([]string, len(kpis))
	for i, k := range kpis {
		ids[i] = k.ID
	}
	assert.Equal(t, []string{
		KPIRevenueGoverned, KPIConversionEfficiency, KPIOrphanDays,
		KPILateCheckoutRevenue, KPIEarlyCheckinRevenue, KPIServicesRevenue,
	}, ids)

	assert.Equal(t, "€\u00a01.258,50", kpis[0].Value)
	assert.Equal(t, "75.0%", kpis[1].Value)
	assert.Equal(t, "0", kpis[2].Value)
	assert.Equal(t, "€\u00a025,00", kpis[3].Value)
	assert.Equal(t, "€\u00a012,50", kpis[4].Value)
	assert.Equal(t, "€\u00a058,50", kpis[5].Value)
}

func TestGrowthKPIsEmpty(t *testing.T) {
	g := ComputeGrowth(nil)
	assert.Zero(t, g.UpsellRate)
	kpis := BuildGrowthKPIs(g)
	assert.Equal(t, "0.0%", kpis[1].Value)
	assert.Equal(t, "€\u00a00,00", kpis[0].Value)
}
