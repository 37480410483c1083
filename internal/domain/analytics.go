package domain

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category Category
	Amount   float64
}

// Analytics is the read-only summary of one owner's expenses. It is computed
// on demand and never persisted.
//
// CategoryTotals only contains categories that occur in the data. Breakdown
// holds the same totals ordered by amount descending, ties broken by category
// name ascending; TopCategory is its first element, nil when there are no
// expenses.
type Analytics struct {
	TotalSpent         float64
	CategoryTotals     map[Category]float64
	MonthlyTotal       float64
	ExpenseCount       int
	TopCategory        *CategoryTotal
	AveragePerCategory float64
	Breakdown          []CategoryTotal
}
