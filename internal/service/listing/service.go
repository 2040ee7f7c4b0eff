// Package listing 房源发布与查询
package listing

import (
	"context"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/random"
)

var errListingNotFound = errorx.New(errorx.CodeNotFound, "房源不存在")

type listingService struct {
	repos *repository.Repositories
}

// NewListingService 构造函数
func NewListingService(repos *repository.Repositories) *listingService {
	return &listingService{repos: repos}
}

func toListingRespond(l *model.Listing) *respond.ListingRespond {
	return &respond.ListingRespond{
		Uuid:        l.Uuid,
		OwnerId:     l.OwnerId,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		IsRental:    l.IsRental,
		CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateListing 发布房源，未指定 is_rental 时默认出租
func (s *listingService) CreateListing(ctx context.Context, caller request.Caller, req request.CreateListingRequest) (*respond.ListingRespond, error) {
	listing := model.Listing{
		Uuid:        random.NewUuid("L"),
		OwnerId:     caller.UserId,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		IsRental:    true,
	}
	if req.IsRental != nil {
		listing.IsRental = *req.IsRental
	}
	if err := s.repos.WithContext(ctx).Listing.Create(&listing); err != nil {
		zap.L().Error("create listing error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return toListingRespond(&listing), nil
}

// GetListing 查询房源
func (s *listingService) GetListing(ctx context.Context, uuid string) (*respond.ListingRespond, error) {
	listing, err := s.repos.WithContext(ctx).Listing.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errListingNotFound
		}
		zap.L().Error("find listing error", zap.String("uuid", uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return toListingRespond(listing), nil
}
