// Package user 用户注册、登录和资料查询
package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/internal/service/auth"
	"flatshare_server/pkg/enum/user_info/user_status_enum"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/jwt"
	"flatshare_server/pkg/util/random"
)

var (
	errBadCredential  = errorx.New(errorx.CodeUnauthorized, "用户名或密码错误")
	errUserDisabled   = errorx.New(errorx.CodeForbidden, "账号已被禁用")
	errInvalidRefresh = errorx.New(errorx.CodeUnauthorized, "Refresh Token 无效或已过期")
	errLoggedInElse   = errorx.New(errorx.CodeUnauthorized, "账号已在其他设备登录，请重新登录")
	errUserNotExist   = errorx.New(errorx.CodeNotFound, "用户不存在")
	errUserExist      = errorx.New(errorx.CodeUserExist, "用户名或邮箱已被注册")
)

// userInfoService 用户业务逻辑实现
// 通过构造函数注入 Repository、令牌管理器和认证服务
type userInfoService struct {
	repos  *repository.Repositories
	tokens *jwt.Manager
	auth   *auth.Service
}

// NewUserService 构造函数，注入所有依赖
func NewUserService(repos *repository.Repositories, tokens *jwt.Manager, authSvc *auth.Service) *userInfoService {
	return &userInfoService{repos: repos, tokens: tokens, auth: authSvc}
}

func toUserInfoRespond(user *model.UserInfo, withEmail bool) respond.UserInfoRespond {
	rsp := respond.UserInfoRespond{
		Uuid:      user.Uuid,
		Username:  user.Username,
		Name:      user.Name,
		Surname:   user.Surname,
		Role:      user.Role(),
		CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if withEmail {
		rsp.Email = user.Email
	}
	return rsp
}

// Register 注册
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.UserInfoRespond, error) {
	repos := u.repos.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := repos.User.ExistsByUsernameOrEmail(req.Username, email)
	if err != nil {
		zap.L().Error("check user exists error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if exists {
		return nil, errUserExist
	}

	newUser := model.UserInfo{
		Uuid:        random.NewUuid("U"),
		Username:    req.Username,
		Email:       email,
		Name:        req.Name,
		Surname:     req.Surname,
		RawPassword: req.Password,
		Status:      user_status_enum.NORMAL,
	}
	if err := repos.User.Create(&newUser); err != nil {
		// 并发注册时由唯一索引兜底
		if errorx.IsConflict(err) {
			return nil, errUserExist
		}
		zap.L().Error("create user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	zap.L().Info("user registered", zap.String("uuid", newUser.Uuid))
	rsp := toUserInfoRespond(&newUser, true)
	return &rsp, nil
}

// Login 用户名或邮箱登录，签发双 Token
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.WithContext(ctx).User.FindByAccount(strings.TrimSpace(req.Account))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errBadCredential
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errBadCredential
	}
	if user.Status == user_status_enum.DISABLE {
		return nil, errUserDisabled
	}

	accessToken, err := u.tokens.GenerateAccessToken(user.Uuid, user.Role())
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := u.tokens.GenerateRefreshToken(user.Uuid, user.Role())
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 将 Refresh Token ID 存入 Redis，实现单点互踢
	if err := u.auth.SaveTokenID(ctx, user.Uuid, tokenID, u.tokens.RefreshTokenExpiry()); err != nil {
		// 不阻塞登录流程，仅记录日志
		zap.L().Error("存储 Token ID 到 Redis 失败", zap.Error(err))
	}

	return &respond.LoginRespond{
		User:         toUserInfoRespond(user, true),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken 使用 Refresh Token 换取新的 Access Token
func (u *userInfoService) RefreshToken(ctx context.Context, req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error) {
	claims, err := u.tokens.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errInvalidRefresh
	}

	valid, err := u.auth.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("validate token id error", zap.String("userId", claims.UserID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !valid {
		return nil, errLoggedInElse
	}

	// 角色和状态以数据库为准，旧 Token 中的角色可能已变更
	user, err := u.repos.WithContext(ctx).User.FindByUuid(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errInvalidRefresh
		}
		zap.L().Error("find user error", zap.String("userId", claims.UserID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if user.Status == user_status_enum.DISABLE {
		return nil, errUserDisabled
	}

	accessToken, err := u.tokens.GenerateAccessToken(user.Uuid, user.Role())
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshTokenRespond{AccessToken: accessToken}, nil
}

// GetUserInfo 公开资料，不返回邮箱
func (u *userInfoService) GetUserInfo(ctx context.Context, uuid string) (*respond.UserInfoRespond, error) {
	user, err := u.repos.WithContext(ctx).User.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errUserNotExist
		}
		zap.L().Error("find user error", zap.String("uuid", uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := toUserInfoRespond(user, false)
	return &rsp, nil
}
