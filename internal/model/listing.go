package model

import "gorm.io/gorm"

// Listing 房源，群组围绕某个房源组建
type Listing struct {
	gorm.Model
	Uuid        string  `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:房源唯一id"`
	OwnerId     string  `gorm:"column:owner_id;type:char(20);index;not null;comment:发布者uuid"`
	Title       string  `gorm:"column:title;type:varchar(100);not null;comment:标题"`
	Description string  `gorm:"column:description;type:text;comment:描述"`
	Price       float64 `gorm:"column:price;not null;default:0;comment:价格"`
	Location    string  `gorm:"column:location;type:varchar(255);comment:位置"`
	IsRental    bool    `gorm:"column:is_rental;not null;default:true;comment:是否出租"`
	Status      int8    `gorm:"column:status;default:0;comment:状态，0.上架，1.下架"`
}

func (Listing) TableName() string {
	return "listing"
}
