package model

// 以下两张表由司机端 / 运营端服务写入，本后台只做统计。

// ValetTransaction 代客泊车流水，对应 valet_transactions
type ValetTransaction struct {
	TransactionID int64  `gorm:"primaryKey;autoIncrement"  json:"transaction_id"`
	LocationID    string `gorm:"type:varchar(20);not null" json:"location_id"`
	Status        string `gorm:"type:varchar(30);not null" json:"status"`
	CreatedModel
}

// TableName 指定表名
func (ValetTransaction) TableName() string { return "valet_transactions" }

// BlockEntry 车位块，对应 block_entries
type BlockEntry struct {
	BlockEntryID int64  `gorm:"primaryKey;autoIncrement"  json:"block_entry_id"`
	LocationID   string `gorm:"type:varchar(20);not null" json:"location_id"`
	Status       string `gorm:"type:varchar(30);not null" json:"status"`
	CreatedModel
}

// TableName 指定表名
func (BlockEntry) TableName() string { return "block_entries" }

// 活跃车辆状态（已停放、已请求取车、待交车）
var ActiveParkingStatuses = []string{"PARKED", "RETURN_REQUESTED", "READY"}

// BlockEntryAvailable 空闲车位状态
const BlockEntryAvailable = "AVAILABLE"

// RoleCount 按角色统计的启用用户数
type RoleCount struct {
	RoleName string `json:"role_name"`
	Count    int64  `json:"count"`
}
