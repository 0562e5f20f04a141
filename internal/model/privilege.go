package model

// Privilege is a permission code checked by the HTTP layer.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView      = "user:view"
	PrivUserCreate    = "user:create"
	PrivAssetView     = "asset:view"
	PrivAssetCreate   = "asset:create"
	PrivAssetUpdate   = "asset:update"
	PrivAssetDelete   = "asset:delete"
	PrivAssetAssign   = "asset:assign"
	PrivAssetTransfer = "asset:transfer"
	PrivSaleCreate    = "sale:create"
	PrivSaleView      = "sale:view"
	PrivOrderCreate   = "order:create"
	PrivOrderViewAll  = "order:view_all"
	PrivOrderDecide   = "order:decide"
	PrivTransferView  = "transfer:view"
	PrivReportView    = "report:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View Users"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivAssetView, Name: "View Assets"},
	{Code: PrivAssetCreate, Name: "Register Product"},
	{Code: PrivAssetUpdate, Name: "Update Asset"},
	{Code: PrivAssetDelete, Name: "Remove Asset"},
	{Code: PrivAssetAssign, Name: "Assign Asset"},
	{Code: PrivAssetTransfer, Name: "Transfer Asset"},
	{Code: PrivSaleCreate, Name: "Sell Product"},
	{Code: PrivSaleView, Name: "View Sales"},
	{Code: PrivOrderCreate, Name: "Place Order"},
	{Code: PrivOrderViewAll, Name: "View All Orders"},
	{Code: PrivOrderDecide, Name: "Confirm or Reject Orders"},
	{Code: PrivTransferView, Name: "View Transfer History"},
	{Code: PrivReportView, Name: "View Reports"},
}
