package model

// Location 停车服务地点表，对应 locations
type Location struct {
	LocationID        string  `gorm:"type:varchar(20);primaryKey"           json:"location_id"`
	LocationName      string  `gorm:"type:varchar(150);not null"            json:"location_name"`
	LocationShortCode string  `gorm:"type:char(3);not null"                 json:"location_short_code"`
	LocationType      string  `gorm:"type:varchar(50);not null"             json:"location_type"`
	Address           *string `gorm:"type:text"                             json:"address"`
	ValidFrom         Date    `gorm:"type:date;not null"                    json:"valid_from"`
	ValidTo           *Date   `gorm:"type:date"                             json:"valid_to"`
	Status            bool    `gorm:"not null"                              json:"status"`
	CreatedModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }
