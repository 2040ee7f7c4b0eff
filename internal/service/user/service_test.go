package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/model"
	"flatshare_server/internal/service/auth"
	"flatshare_server/pkg/constants"
	"flatshare_server/pkg/enum/user_info/user_status_enum"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/jwt"

	"gorm.io/gorm"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []model.UserInfo
}

func (r *fakeUserRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Uuid == uuid {
			u := u
			return &u, nil
		}
	}
	return nil, errorx.Wrap(gorm.ErrRecordNotFound, errorx.CodeNotFound, "not found")
}

func (r *fakeUserRepo) FindByAccount(account string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == account || u.Email == account {
			u := u
			return &u, nil
		}
	}
	return nil, errorx.Wrap(gorm.ErrRecordNotFound, errorx.CodeNotFound, "not found")
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Create 手动触发 BeforeSave，模拟 gorm hook
func (r *fakeUserRepo) Create(user *model.UserInfo) error {
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	user.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) update(uuid string, fn func(*model.UserInfo)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].Uuid == uuid {
			fn(&r.users[i])
		}
	}
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeCache) GetOrError(ctx context.Context, key string) (string, error) {
	return c.Get(ctx, key)
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(context.Context, string) error { return nil }

func newTestService() (*userInfoService, *jwt.Manager) {
	repos := &repository.Repositories{User: &fakeUserRepo{}}
	tokens := jwt.NewManager("0123456789abcdef0123456789abcdef", 30, 24)
	authSvc := auth.NewAuthService(&fakeCache{data: map[string]string{}})
	return NewUserService(repos, tokens, authSvc), tokens
}

func register(t *testing.T, svc *userInfoService) string {
	t.Helper()
	rsp, err := svc.Register(context.Background(), request.RegisterRequest{
		Username: "lena",
		Email:    "Lena@Example.com",
		Password: "hunter22",
		Name:     "Lena",
		Surname:  "Park",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return rsp.Uuid
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newTestService()
	uuid := register(t, svc)

	// 邮箱统一转小写
	rsp, err := svc.Login(context.Background(), request.LoginRequest{Account: "lena@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rsp.User.Uuid != uuid || rsp.User.Role != "user" {
		t.Fatalf("user = %+v", rsp.User)
	}
	claims, err := tokens.ParseAccessToken(rsp.AccessToken)
	if err != nil || claims.UserID != uuid {
		t.Fatalf("access token claims = %+v, %v", claims, err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)
	_, err := svc.Register(context.Background(), request.RegisterRequest{
		Username: "lena", Email: "other@example.com", Password: "hunter22",
	})
	if errorx.GetCode(err) != errorx.CodeUserExist {
		t.Fatalf("err = %v, want UserExist", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)
	for _, req := range []request.LoginRequest{
		{Account: "lena", Password: "wrong-pass"},
		{Account: "nobody", Password: "hunter22"},
	} {
		_, err := svc.Login(context.Background(), req)
		if errorx.GetCode(err) != errorx.CodeUnauthorized {
			t.Fatalf("login %q: err = %v, want Unauthorized", req.Account, err)
		}
	}
}

func TestRefreshTokenSingleSession(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)
	ctx := context.Background()

	first, err := svc.Login(ctx, request.LoginRequest{Account: "lena", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.RefreshToken(ctx, request.RefreshTokenRequest{RefreshToken: first.RefreshToken}); err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}

	// 再次登录后旧的 Refresh Token 失效
	if _, err := svc.Login(ctx, request.LoginRequest{Account: "lena", Password: "hunter22"}); err != nil {
		t.Fatalf("second Login: %v", err)
	}
	_, err = svc.RefreshToken(ctx, request.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	if errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("stale refresh: err = %v, want Unauthorized", err)
	}

	// Access Token 不能当 Refresh Token 用
	_, err = svc.RefreshToken(ctx, request.RefreshTokenRequest{RefreshToken: first.AccessToken})
	if errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("access as refresh: err = %v, want Unauthorized", err)
	}
}

func TestRefreshTokenReloadsRole(t *testing.T) {
	svc, tokens := newTestService()
	uuid := register(t, svc)
	ctx := context.Background()
	users := svc.repos.User.(*fakeUserRepo)

	login, err := svc.Login(ctx, request.LoginRequest{Account: "lena", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// 登录后被提升为管理员，刷新得到的 Access Token 应带新角色
	users.update(uuid, func(u *model.UserInfo) { u.IsAdmin = 1 })
	rsp, err := svc.RefreshToken(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	claims, err := tokens.ParseAccessToken(rsp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Role != constants.ROLE_ADMIN {
		t.Fatalf("role = %q, want %q", claims.Role, constants.ROLE_ADMIN)
	}

	users.update(uuid, func(u *model.UserInfo) { u.Status = user_status_enum.DISABLE })
	_, err = svc.RefreshToken(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("disabled user refresh: err = %v, want Forbidden", err)
	}

	users.update(uuid, func(u *model.UserInfo) { u.Uuid = "U_gone" })
	_, err = svc.RefreshToken(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("missing user refresh: err = %v, want Unauthorized", err)
	}
}

func TestGetUserInfoHidesEmail(t *testing.T) {
	svc, _ := newTestService()
	uuid := register(t, svc)

	info, err := svc.GetUserInfo(context.Background(), uuid)
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if info.Email != "" || info.Username != "lena" {
		t.Fatalf("info = %+v", info)
	}

	_, err = svc.GetUserInfo(context.Background(), "U_missing")
	if errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
