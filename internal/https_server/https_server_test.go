package https_server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"flatshare_server/internal/config"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/gateway/websocket"
	"flatshare_server/internal/handler"
	"flatshare_server/internal/infrastructure/mq"
	"flatshare_server/internal/service"
	"flatshare_server/pkg/constants"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var transOnce sync.Once

// ===== stub services =====

type stubGroupService struct {
	mu      sync.Mutex
	calls   []string
	targets []string
	caller  request.Caller
}

func (s *stubGroupService) record(name string, caller request.Caller, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	s.caller = caller
	if target != "" {
		s.targets = append(s.targets, target)
	}
}

func (s *stubGroupService) called(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == name {
			return true
		}
	}
	return false
}

// errFor 按小组 ID 模拟业务错误
func errFor(groupId string) error {
	switch groupId {
	case "G_missing":
		return errorx.New(errorx.CodeNotFound, "小组不存在")
	case "G_forbidden":
		return errorx.ErrForbidden
	case "G_conflict":
		return errorx.New(errorx.CodeConflict, "已是小组成员或已提交申请")
	case "G_broken":
		return io.ErrUnexpectedEOF
	}
	return nil
}

func view(groupId string) *respond.GroupViewRespond {
	return &respond.GroupViewRespond{GroupId: groupId, Members: []respond.GroupMemberRespond{}}
}

func (s *stubGroupService) CreateGroup(ctx context.Context, caller request.Caller, req request.CreateGroupRequest) (*respond.GroupViewRespond, error) {
	s.record("CreateGroup", caller, "")
	return &respond.GroupViewRespond{GroupId: "G_new", Name: req.Name, ListingId: req.ListingId, OwnerId: caller.UserId, MemberCount: 1}, nil
}
func (s *stubGroupService) GetGroup(ctx context.Context, groupId string) (*respond.GroupViewRespond, error) {
	s.record("GetGroup", request.Caller{}, "")
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return view(groupId), nil
}
func (s *stubGroupService) ListAllGroups(ctx context.Context) ([]respond.GroupViewRespond, error) {
	s.record("ListAllGroups", request.Caller{}, "")
	return []respond.GroupViewRespond{}, nil
}
func (s *stubGroupService) ListGroupsForListing(ctx context.Context, listingId string) ([]respond.GroupViewRespond, error) {
	s.record("ListGroupsForListing", request.Caller{}, "")
	return nil, errorx.New(errorx.CodeNotFound, "该房源下暂无小组")
}
func (s *stubGroupService) ListMyGroups(ctx context.Context, caller request.Caller) ([]respond.GroupViewRespond, error) {
	s.record("ListMyGroups", caller, "")
	return []respond.GroupViewRespond{}, nil
}
func (s *stubGroupService) UpdateGroup(ctx context.Context, caller request.Caller, groupId string, req request.UpdateGroupRequest) (*respond.GroupViewRespond, error) {
	s.record("UpdateGroup", caller, "")
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return view(groupId), nil
}
func (s *stubGroupService) DismissGroup(ctx context.Context, caller request.Caller, groupId string) error {
	s.record("DismissGroup", caller, "")
	return errFor(groupId)
}
func (s *stubGroupService) RequestJoin(ctx context.Context, caller request.Caller, groupId string) (*respond.MembershipRespond, error) {
	s.record("RequestJoin", caller, "")
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return &respond.MembershipRespond{GroupId: groupId, UserId: caller.UserId, Status: "pending"}, nil
}
func (s *stubGroupService) ApproveMember(ctx context.Context, caller request.Caller, groupId, targetId string) (*respond.MembershipRespond, error) {
	s.record("ApproveMember", caller, targetId)
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return &respond.MembershipRespond{GroupId: groupId, UserId: targetId, Status: "active"}, nil
}
func (s *stubGroupService) RejectMember(ctx context.Context, caller request.Caller, groupId, targetId string) error {
	s.record("RejectMember", caller, targetId)
	return errFor(groupId)
}
func (s *stubGroupService) RemoveMember(ctx context.Context, caller request.Caller, groupId, targetId string) error {
	s.record("RemoveMember", caller, targetId)
	return errFor(groupId)
}
func (s *stubGroupService) LeaveGroup(ctx context.Context, caller request.Caller, groupId string) error {
	s.record("LeaveGroup", caller, "")
	return errFor(groupId)
}
func (s *stubGroupService) SetPreferences(ctx context.Context, caller request.Caller, groupId string, doc request.PreferenceDocument) (*respond.LifestylePreferenceRespond, error) {
	s.record("SetPreferences", caller, "")
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return &respond.LifestylePreferenceRespond{
		RentDivision: doc.RentDivision,
		QuietHours:   respond.QuietHoursRespond{Start: doc.QuietHours.Start, End: doc.QuietHours.End},
		ReadyToSign:  []string{},
	}, nil
}
func (s *stubGroupService) MarkReadyToSign(ctx context.Context, caller request.Caller, groupId string) (*respond.GroupViewRespond, error) {
	s.record("MarkReadyToSign", caller, "")
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return view(groupId), nil
}
func (s *stubGroupService) ForfeitReadyToSign(ctx context.Context, caller request.Caller, groupId string) (*respond.GroupViewRespond, error) {
	s.record("ForfeitReadyToSign", caller, "")
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return view(groupId), nil
}

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, req request.RegisterRequest) (*respond.UserInfoRespond, error) {
	return &respond.UserInfoRespond{Uuid: "U_new", Username: req.Username}, nil
}
func (stubUserService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	return nil, errorx.New(errorx.CodeUnauthorized, "用户名或密码错误")
}
func (stubUserService) RefreshToken(ctx context.Context, req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error) {
	return &respond.RefreshTokenRespond{}, nil
}
func (stubUserService) GetUserInfo(ctx context.Context, uuid string) (*respond.UserInfoRespond, error) {
	return &respond.UserInfoRespond{Uuid: uuid}, nil
}

type stubListingService struct{}

func (stubListingService) CreateListing(ctx context.Context, caller request.Caller, req request.CreateListingRequest) (*respond.ListingRespond, error) {
	return &respond.ListingRespond{Uuid: "L_new", OwnerId: caller.UserId, Title: req.Title}, nil
}
func (stubListingService) GetListing(ctx context.Context, uuid string) (*respond.ListingRespond, error) {
	return &respond.ListingRespond{Uuid: uuid}, nil
}

type stubNotificationService struct{}

func (stubNotificationService) HandleEvent(ctx context.Context, event mq.GroupEvent) error {
	return nil
}
func (stubNotificationService) ListNotifications(ctx context.Context, caller request.Caller) ([]respond.NotificationRespond, error) {
	return []respond.NotificationRespond{}, nil
}
func (stubNotificationService) MarkRead(ctx context.Context, caller request.Caller, uuid int64) error {
	return nil
}

type stubMessageService struct{}

func (stubMessageService) SendDirectMessage(ctx context.Context, caller request.Caller, req request.SendDirectMessageRequest) (*respond.MessageRespond, error) {
	if req.RecipientId == "U_ghost" {
		return nil, errorx.New(errorx.CodeNotFound, "接收者不存在")
	}
	return &respond.MessageRespond{Uuid: 1, Type: "direct", SendId: caller.UserId, ReceiveId: req.RecipientId, Content: req.Content}, nil
}
func (stubMessageService) ListDirectMessages(ctx context.Context, caller request.Caller, peerId string) ([]respond.MessageRespond, error) {
	return []respond.MessageRespond{}, nil
}
func (stubMessageService) SendGroupMessage(ctx context.Context, caller request.Caller, groupId string, req request.SendGroupMessageRequest) (*respond.MessageRespond, error) {
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return &respond.MessageRespond{Uuid: 2, Type: "group", SendId: caller.UserId, ReceiveId: groupId, Content: req.Content}, nil
}
func (stubMessageService) ListGroupMessages(ctx context.Context, caller request.Caller, groupId string) ([]respond.MessageRespond, error) {
	if err := errFor(groupId); err != nil {
		return nil, err
	}
	return []respond.MessageRespond{}, nil
}

// ===== helpers =====

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	url    string
	groups *stubGroupService
	hub    *websocket.Hub
	tokens *jwt.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	transOnce.Do(func() {
		if err := handler.InitTrans("zh"); err != nil {
			t.Fatalf("init trans: %v", err)
		}
	})

	groups := &stubGroupService{}
	svcs := &service.Services{
		User:         stubUserService{},
		Listing:      stubListingService{},
		Group:        groups,
		Notification: stubNotificationService{},
		Message:      stubMessageService{},
	}
	hub := websocket.NewHub()
	tokens := jwt.NewManager(testSecret, 30, 24)

	engine := Init(config.MainConfig{Mode: gin.TestMode}, handler.NewHandlers(svcs, hub), tokens)
	server := httptest.NewServer(engine)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return &testServer{url: server.URL, groups: groups, hub: hub, tokens: tokens}
}

func (ts *testServer) bearer(t *testing.T, userId, role string) string {
	t.Helper()
	token, err := ts.tokens.GenerateAccessToken(userId, role)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	return "Bearer " + token
}

func doReq(t *testing.T, method, url, body, authHeader string) (int, apiEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode response: %v; status=%d; body=%q", err, resp.StatusCode, string(raw))
	}
	return resp.StatusCode, env
}

// ===== tests =====

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, env := doReq(t, http.MethodGet, ts.url+"/health", "", "")
	if status != http.StatusOK || env.Code != errorx.CodeSuccess {
		t.Fatalf("health status=%d code=%d", status, env.Code)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct{ method, path string }{
		{http.MethodPost, "/groups"},
		{http.MethodPut, "/groups/G_1"},
		{http.MethodDelete, "/groups/G_1"},
		{http.MethodPost, "/groups/G_1/join-request"},
		{http.MethodPost, "/groups/G_1/approve-member"},
		{http.MethodPost, "/groups/G_1/reject-member"},
		{http.MethodDelete, "/groups/G_1/remove-member"},
		{http.MethodPost, "/groups/G_1/leave"},
		{http.MethodPatch, "/groups/G_1/preferences"},
		{http.MethodPost, "/groups/G_1/ready-to-sign"},
		{http.MethodPost, "/groups/G_1/forfeit-sign"},
		{http.MethodGet, "/users/me/groups"},
		{http.MethodPost, "/listings"},
		{http.MethodGet, "/notifications"},
		{http.MethodPost, "/notifications/1/read"},
		{http.MethodPost, "/messages"},
		{http.MethodGet, "/messages"},
		{http.MethodPost, "/groups/G_1/messages"},
		{http.MethodGet, "/groups/G_1/messages"},
	}
	for _, tc := range cases {
		status, env := doReq(t, tc.method, ts.url+tc.path, "", "")
		if status != http.StatusUnauthorized || env.Code != errorx.CodeUnauthorized {
			t.Fatalf("%s %s: status=%d code=%d", tc.method, tc.path, status, env.Code)
		}
	}
	if len(ts.groups.calls) != 0 {
		t.Fatalf("service reached without token: %v", ts.groups.calls)
	}
}

func TestRejectsMalformedOrRefreshToken(t *testing.T) {
	ts := newTestServer(t)
	status, _ := doReq(t, http.MethodPost, ts.url+"/groups/G_1/leave", "", "Token abc")
	if status != http.StatusUnauthorized {
		t.Fatalf("malformed header status=%d", status)
	}
	refresh, _, err := ts.tokens.GenerateRefreshToken("U_1", constants.ROLE_USER)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	status, _ = doReq(t, http.MethodPost, ts.url+"/groups/G_1/leave", "", "Bearer "+refresh)
	if status != http.StatusUnauthorized {
		t.Fatalf("refresh token accepted as access token: status=%d", status)
	}
}

func TestCreateGroupReturnsCreated(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, "U_owner", constants.ROLE_USER)

	status, env := doReq(t, http.MethodPost, ts.url+"/groups", `{"name":"Flat 1","listing_id":"L_1"}`, auth)
	if status != http.StatusCreated || env.Code != errorx.CodeSuccess {
		t.Fatalf("create status=%d code=%d", status, env.Code)
	}
	var data respond.GroupViewRespond
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if data.OwnerId != "U_owner" || data.ListingId != "L_1" {
		t.Fatalf("unexpected view: %+v", data)
	}
	if ts.groups.caller.UserId != "U_owner" || ts.groups.caller.Role != constants.ROLE_USER {
		t.Fatalf("caller not propagated: %+v", ts.groups.caller)
	}

	// 缺少 listing_id
	status, env = doReq(t, http.MethodPost, ts.url+"/groups", `{"name":"Flat 1"}`, auth)
	if status != http.StatusBadRequest || env.Code != errorx.CodeInvalidParam {
		t.Fatalf("missing listing status=%d code=%d", status, env.Code)
	}
}

func TestPublicGroupReads(t *testing.T) {
	ts := newTestServer(t)

	status, env := doReq(t, http.MethodGet, ts.url+"/groups/G_1", "", "")
	if status != http.StatusOK || env.Code != errorx.CodeSuccess {
		t.Fatalf("get status=%d code=%d", status, env.Code)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/groups", "", "")
	if status != http.StatusOK {
		t.Fatalf("list status=%d", status)
	}
	status, env = doReq(t, http.MethodGet, ts.url+"/groups/G_missing", "", "")
	if status != http.StatusNotFound || env.Code != errorx.CodeNotFound {
		t.Fatalf("missing status=%d code=%d", status, env.Code)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/listings/L_1/groups", "", "")
	if status != http.StatusNotFound {
		t.Fatalf("empty listing status=%d", status)
	}
}

func TestErrorCodesMapToHTTPStatus(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, "U_1", constants.ROLE_USER)

	cases := []struct {
		groupId string
		status  int
		code    int
	}{
		{"G_forbidden", http.StatusForbidden, errorx.CodeForbidden},
		{"G_missing", http.StatusNotFound, errorx.CodeNotFound},
		{"G_conflict", http.StatusBadRequest, errorx.CodeConflict},
		{"G_broken", http.StatusInternalServerError, errorx.CodeServerBusy},
	}
	for _, tc := range cases {
		status, env := doReq(t, http.MethodPost, ts.url+"/groups/"+tc.groupId+"/join-request", "", auth)
		if status != tc.status || env.Code != tc.code {
			t.Fatalf("%s: status=%d code=%d, want %d/%d", tc.groupId, status, env.Code, tc.status, tc.code)
		}
	}
}

func TestMemberTargetFromBodyOrQuery(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, "U_owner", constants.ROLE_USER)

	status, env := doReq(t, http.MethodPost, ts.url+"/groups/G_1/approve-member", `{"user_id":"U_alice"}`, auth)
	if status != http.StatusOK {
		t.Fatalf("approve status=%d code=%d", status, env.Code)
	}
	status, _ = doReq(t, http.MethodDelete, ts.url+"/groups/G_1/remove-member?user_id=U_bob", "", auth)
	if status != http.StatusOK {
		t.Fatalf("remove status=%d", status)
	}
	status, env = doReq(t, http.MethodPost, ts.url+"/groups/G_1/reject-member", `{}`, auth)
	if status != http.StatusBadRequest || env.Code != errorx.CodeInvalidParam {
		t.Fatalf("reject without target status=%d code=%d", status, env.Code)
	}

	want := []string{"U_alice", "U_bob"}
	if strings.Join(ts.groups.targets, ",") != strings.Join(want, ",") {
		t.Fatalf("targets = %v, want %v", ts.groups.targets, want)
	}
	if ts.groups.called("RejectMember") {
		t.Fatal("reject reached service without target")
	}
}

func TestSetPreferencesValidation(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, "U_owner", constants.ROLE_USER)
	url := ts.url + "/groups/G_1/preferences"

	bad := []string{
		`{}`,
		`{"lifestyle_preference":{"quiet_hours":{"start":"25:00","end":"07:00"}}}`,
		`{"lifestyle_preference":{"quiet_hours":{"start":"7:00","end":"07:00"}}}`,
		`{"lifestyle_preference":{"rent_division":{"U_owner":150}}}`,
		`{"lifestyle_preference":{"rent_division":{"U_owner":-1}}}`,
		`{"lifestyle_preference":`,
	}
	for _, body := range bad {
		status, env := doReq(t, http.MethodPatch, url, body, auth)
		if status != http.StatusBadRequest || env.Code != errorx.CodeInvalidParam {
			t.Fatalf("body %s: status=%d code=%d", body, status, env.Code)
		}
	}
	if ts.groups.called("SetPreferences") {
		t.Fatal("invalid document reached service")
	}

	good := `{"lifestyle_preference":{"rent_division":{"U_owner":60,"U_alice":40},"quiet_hours":{"start":"23:30","end":"06:00"}}}`
	status, env := doReq(t, http.MethodPatch, url, good, auth)
	if status != http.StatusOK || env.Code != errorx.CodeSuccess {
		t.Fatalf("valid document status=%d code=%d msg=%s", status, env.Code, env.Msg)
	}
	var pref respond.LifestylePreferenceRespond
	if err := json.Unmarshal(env.Data, &pref); err != nil {
		t.Fatalf("decode preference: %v", err)
	}
	if pref.QuietHours.Start != "23:30" || pref.RentDivision["U_alice"] != 40 {
		t.Fatalf("unexpected preference: %+v", pref)
	}
}

func TestSignRoutes(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, "U_alice", constants.ROLE_USER)

	for _, path := range []string{"/groups/G_1/ready-to-sign", "/groups/G_1/forfeit-sign", "/groups/G_1/leave"} {
		status, env := doReq(t, http.MethodPost, ts.url+path, "", auth)
		if status != http.StatusOK || env.Code != errorx.CodeSuccess {
			t.Fatalf("%s: status=%d code=%d", path, status, env.Code)
		}
	}
	for _, name := range []string{"MarkReadyToSign", "ForfeitReadyToSign", "LeaveGroup"} {
		if !ts.groups.called(name) {
			t.Fatalf("%s not called", name)
		}
	}
}

func TestAuthAndUserRoutes(t *testing.T) {
	ts := newTestServer(t)

	status, _ := doReq(t, http.MethodPost, ts.url+"/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`, "")
	if status != http.StatusOK {
		t.Fatalf("register status=%d", status)
	}
	status, env := doReq(t, http.MethodPost, ts.url+"/register", `{"username":"al","email":"nope","password":"1"}`, "")
	if status != http.StatusBadRequest || env.Code != errorx.CodeInvalidParam {
		t.Fatalf("invalid register status=%d code=%d", status, env.Code)
	}
	status, _ = doReq(t, http.MethodPost, ts.url+"/login", `{"account":"alice","password":"wrong-pass"}`, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("login status=%d", status)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/users/U_1", "", "")
	if status != http.StatusOK {
		t.Fatalf("user info status=%d", status)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/users/me/groups", "", ts.bearer(t, "U_1", constants.ROLE_USER))
	if status != http.StatusOK {
		t.Fatalf("my groups status=%d", status)
	}
	status, _ = doReq(t, http.MethodPost, ts.url+"/notifications/abc/read", "", ts.bearer(t, "U_1", constants.ROLE_USER))
	if status != http.StatusBadRequest {
		t.Fatalf("bad notification id status=%d", status)
	}
}

func TestMessageRoutes(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, "U_alice", constants.ROLE_USER)

	status, env := doReq(t, http.MethodPost, ts.url+"/messages", `{"recipient_id":"U_bob","content":"hi"}`, auth)
	if status != http.StatusCreated || env.Code != errorx.CodeSuccess {
		t.Fatalf("send direct status=%d code=%d", status, env.Code)
	}
	status, env = doReq(t, http.MethodPost, ts.url+"/messages", `{"recipient_id":"U_ghost","content":"hi"}`, auth)
	if status != http.StatusNotFound || env.Code != errorx.CodeNotFound {
		t.Fatalf("missing recipient status=%d code=%d", status, env.Code)
	}
	status, env = doReq(t, http.MethodPost, ts.url+"/messages", `{"recipient_id":"U_bob"}`, auth)
	if status != http.StatusBadRequest || env.Code != errorx.CodeInvalidParam {
		t.Fatalf("empty content status=%d code=%d", status, env.Code)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/messages?with=U_bob", "", auth)
	if status != http.StatusOK {
		t.Fatalf("list direct status=%d", status)
	}

	status, _ = doReq(t, http.MethodPost, ts.url+"/groups/G_1/messages", `{"content":"rent"}`, auth)
	if status != http.StatusCreated {
		t.Fatalf("send group status=%d", status)
	}
	status, env = doReq(t, http.MethodPost, ts.url+"/groups/G_forbidden/messages", `{"content":"rent"}`, auth)
	if status != http.StatusForbidden || env.Code != errorx.CodeForbidden {
		t.Fatalf("non-member send status=%d code=%d", status, env.Code)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/groups/G_forbidden/messages", "", auth)
	if status != http.StatusForbidden {
		t.Fatalf("non-member list status=%d", status)
	}
	status, _ = doReq(t, http.MethodGet, ts.url+"/groups/G_1/messages", "", auth)
	if status != http.StatusOK {
		t.Fatalf("list group status=%d", status)
	}
}

func TestWebSocketPush(t *testing.T) {
	ts := newTestServer(t)
	token, err := ts.tokens.GenerateAccessToken("U_ws", constants.ROLE_USER)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.url, "http") + "/ws?token=" + token
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !ts.hub.IsOnline("U_ws") {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !ts.hub.PushToUser("U_ws", []byte(`{"type":"MEMBER_APPROVED"}`)) {
		t.Fatal("push reported offline")
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(msg), "MEMBER_APPROVED") {
		t.Fatalf("unexpected message %s", msg)
	}

	if _, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.url, "http")+"/ws", nil); err == nil {
		t.Fatal("dial without token should fail")
	}
}
