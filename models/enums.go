package models

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleSeller UserRole = "vendedor"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleSeller
}

// ReportPeriod selects the date window of the summary report.
type ReportPeriod string

const (
	ReportPeriodToday ReportPeriod = "today"
	ReportPeriodWeek  ReportPeriod = "week"
	ReportPeriodMonth ReportPeriod = "month"
)

func (p ReportPeriod) Valid() bool {
	switch p {
	case ReportPeriodToday, ReportPeriodWeek, ReportPeriodMonth:
		return true
	}
	return false
}

// Collection names the four logical collections of the store. The realtime
// feed publishes one channel per collection.
type Collection string

const (
	CollectionProducts  Collection = "products"
	CollectionPurchases Collection = "purchases"
	CollectionSales     Collection = "sales"
	CollectionReturns   Collection = "returns"
)
