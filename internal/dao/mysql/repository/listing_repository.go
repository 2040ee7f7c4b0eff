package repository

import (
	"flatshare_server/internal/model"

	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建房源 Repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) FindByUuid(uuid string) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.First(&listing, "uuid = ?", uuid).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询房源 uuid=%s", uuid)
	}
	return &listing, nil
}

func (r *listingRepository) Create(listing *model.Listing) error {
	if err := r.db.Create(listing).Error; err != nil {
		return WrapDBError(err, "创建房源")
	}
	return nil
}
