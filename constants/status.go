package constants

// SalesOrderStatus mirrors the AdventureWorks SalesOrderHeader.Status column.
type SalesOrderStatus int64

// Stable values (store these exact numbers in DB).
const (
	StatusInProcess   SalesOrderStatus = 1
	StatusApproved    SalesOrderStatus = 2
	StatusBackordered SalesOrderStatus = 3
	StatusRejected    SalesOrderStatus = 4
	StatusShipped     SalesOrderStatus = 5
	StatusCancelled   SalesOrderStatus = 6
)

// Defaults applied when an extracted order carries no explicit values.
// Imported invoices describe completed transactions, hence Shipped.
const (
	DefaultRevisionNumber  int64 = 0
	DefaultStatus                = int64(StatusShipped)
	DefaultOnlineOrderFlag int64 = 1
)
