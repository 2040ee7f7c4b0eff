package group

import (
	"context"
	"sort"
	"sync"
	"time"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/infrastructure/mq"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/errorx"

	"gorm.io/gorm"
)

// memStore 内存版小组存储
// 事务持有全局锁，相当于对所有小组行加锁；失败时回滚到快照
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.UserInfo
	listings map[string]model.Listing
	groups   map[string]model.GroupInfo
	members  []model.GroupMember
	nextId   uint
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.UserInfo{},
		listings: map[string]model.Listing{},
		groups:   map[string]model.GroupInfo{},
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// repos 非事务访问入口
func (s *memStore) repos() *repository.Repositories {
	return s.view(false).WithTx(s.transaction)
}

func (s *memStore) view(inTx bool) *repository.Repositories {
	return &repository.Repositories{
		User:        &memUserRepo{s: s, inTx: inTx},
		Listing:     &memListingRepo{s: s, inTx: inTx},
		Group:       &memGroupRepo{s: s, inTx: inTx},
		GroupMember: &memMemberRepo{s: s, inTx: inTx},
	}
}

func (s *memStore) transaction(fn func(txRepos *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string]model.GroupInfo, len(s.groups))
	for k, v := range s.groups {
		groups[k] = copyGroup(v)
	}
	members := append([]model.GroupMember(nil), s.members...)
	nextId := s.nextId

	if err := fn(s.view(true)); err != nil {
		s.groups, s.members, s.nextId = groups, members, nextId
		return err
	}
	return nil
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func lockUnlessTx(s *memStore, inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func copyGroup(g model.GroupInfo) model.GroupInfo {
	if g.LifestylePreference != nil {
		pref := *g.LifestylePreference
		pref.RentDivision = map[string]float64{}
		for k, v := range g.LifestylePreference.RentDivision {
			pref.RentDivision[k] = v
		}
		if g.LifestylePreference.QuietHours != nil {
			qh := *g.LifestylePreference.QuietHours
			pref.QuietHours = &qh
		}
		pref.ReadyToSign = append([]string(nil), g.LifestylePreference.ReadyToSign...)
		g.LifestylePreference = &pref
	}
	return g
}

func notFound() error {
	return errorx.Wrap(gorm.ErrRecordNotFound, errorx.CodeNotFound, "记录不存在")
}

// ---------- 用户 ----------

type memUserRepo struct {
	s    *memStore
	inTx bool
}

func (r *memUserRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	u, ok := r.s.users[uuid]
	if !ok {
		return nil, notFound()
	}
	return &u, nil
}

func (r *memUserRepo) FindByAccount(account string) (*model.UserInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	for _, u := range r.s.users {
		if u.Username == account || u.Email == account {
			u := u
			return &u, nil
		}
	}
	return nil, notFound()
}

func (r *memUserRepo) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	for _, u := range r.s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Create(user *model.UserInfo) error {
	defer lockUnlessTx(r.s, r.inTx)()
	r.s.users[user.Uuid] = *user
	return nil
}

// ---------- 房源 ----------

type memListingRepo struct {
	s    *memStore
	inTx bool
}

func (r *memListingRepo) FindByUuid(uuid string) (*model.Listing, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	l, ok := r.s.listings[uuid]
	if !ok {
		return nil, notFound()
	}
	return &l, nil
}

func (r *memListingRepo) Create(listing *model.Listing) error {
	defer lockUnlessTx(r.s, r.inTx)()
	r.s.listings[listing.Uuid] = *listing
	return nil
}

// ---------- 小组 ----------

type memGroupRepo struct {
	s    *memStore
	inTx bool
}

func (r *memGroupRepo) find(uuid string) (*model.GroupInfo, error) {
	g, ok := r.s.groups[uuid]
	if !ok || g.DeletedAt.Valid {
		return nil, notFound()
	}
	out := copyGroup(g)
	return &out, nil
}

func (r *memGroupRepo) FindByUuid(uuid string) (*model.GroupInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	return r.find(uuid)
}

func (r *memGroupRepo) FindByUuidForUpdate(uuid string) (*model.GroupInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	return r.find(uuid)
}

func (r *memGroupRepo) filter(keep func(model.GroupInfo) bool) []model.GroupInfo {
	out := make([]model.GroupInfo, 0)
	for _, g := range r.s.groups {
		if !g.DeletedAt.Valid && keep(g) {
			out = append(out, copyGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memGroupRepo) FindByListingId(listingId string) ([]model.GroupInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	return r.filter(func(g model.GroupInfo) bool { return g.ListingId == listingId }), nil
}

func (r *memGroupRepo) FindAll() ([]model.GroupInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	return r.filter(func(model.GroupInfo) bool { return true }), nil
}

func (r *memGroupRepo) FindByUuids(uuids []string) ([]model.GroupInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	wanted := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		wanted[id] = true
	}
	return r.filter(func(g model.GroupInfo) bool { return wanted[g.Uuid] }), nil
}

func (r *memGroupRepo) Create(group *model.GroupInfo) error {
	defer lockUnlessTx(r.s, r.inTx)()
	r.s.nextId++
	group.ID = r.s.nextId
	group.CreatedAt = r.s.tick()
	r.s.groups[group.Uuid] = copyGroup(*group)
	return nil
}

func (r *memGroupRepo) UpdateInfo(uuid string, updates map[string]interface{}) error {
	defer lockUnlessTx(r.s, r.inTx)()
	g := r.s.groups[uuid]
	if v, ok := updates["name"]; ok {
		g.Name = v.(string)
	}
	if v, ok := updates["description"]; ok {
		g.Description = v.(string)
	}
	r.s.groups[uuid] = g
	return nil
}

func (r *memGroupRepo) UpdatePreference(uuid string, pref *model.LifestylePreference) error {
	defer lockUnlessTx(r.s, r.inTx)()
	g := r.s.groups[uuid]
	g.LifestylePreference = pref
	r.s.groups[uuid] = copyGroup(g)
	return nil
}

func (r *memGroupRepo) IncrementMemberCount(uuid string) error {
	defer lockUnlessTx(r.s, r.inTx)()
	g := r.s.groups[uuid]
	g.MemberCnt++
	r.s.groups[uuid] = g
	return nil
}

func (r *memGroupRepo) DecrementMemberCount(uuid string) error {
	defer lockUnlessTx(r.s, r.inTx)()
	g := r.s.groups[uuid]
	if g.MemberCnt > 0 {
		g.MemberCnt--
	}
	r.s.groups[uuid] = g
	return nil
}

func (r *memGroupRepo) SoftDelete(uuid string) error {
	defer lockUnlessTx(r.s, r.inTx)()
	g := r.s.groups[uuid]
	g.DeletedAt = gorm.DeletedAt{Time: r.s.tick(), Valid: true}
	r.s.groups[uuid] = g
	return nil
}

// ---------- 成员 ----------

type memMemberRepo struct {
	s    *memStore
	inTx bool
}

func (r *memMemberRepo) FindByGroupAndUser(groupUuid, userUuid string) (*model.GroupMember, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	for _, m := range r.s.members {
		if m.GroupUuid == groupUuid && m.UserUuid == userUuid {
			m := m
			return &m, nil
		}
	}
	return nil, notFound()
}

func (r *memMemberRepo) FindByGroupUuid(groupUuid string) ([]model.GroupMember, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	var out []model.GroupMember
	for _, m := range r.s.members {
		if m.GroupUuid == groupUuid {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMemberRepo) FindByUserUuid(userUuid string) ([]model.GroupMember, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	var out []model.GroupMember
	for _, m := range r.s.members {
		if m.UserUuid == userUuid {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMemberRepo) withUserInfo(keep func(model.GroupMember) bool) []repository.GroupMemberWithUserInfo {
	var out []repository.GroupMemberWithUserInfo
	for _, m := range r.s.members {
		if !keep(m) {
			continue
		}
		row := repository.GroupMemberWithUserInfo{
			GroupUuid: m.GroupUuid,
			UserUuid:  m.UserUuid,
			Status:    m.Status,
			Role:      m.Role,
			JoinedAt:  m.CreatedAt,
		}
		if u, ok := r.s.users[m.UserUuid]; ok {
			username, name, surname := u.Username, u.Name, u.Surname
			row.Username, row.Name, row.Surname = &username, &name, &surname
		}
		out = append(out, row)
	}
	return out
}

func (r *memMemberRepo) FindMembersWithUserInfo(groupUuid string) ([]repository.GroupMemberWithUserInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	return r.withUserInfo(func(m model.GroupMember) bool { return m.GroupUuid == groupUuid }), nil
}

func (r *memMemberRepo) FindMembersWithUserInfoByGroupUuids(groupUuids []string) ([]repository.GroupMemberWithUserInfo, error) {
	defer lockUnlessTx(r.s, r.inTx)()
	wanted := make(map[string]bool, len(groupUuids))
	for _, id := range groupUuids {
		wanted[id] = true
	}
	return r.withUserInfo(func(m model.GroupMember) bool { return wanted[m.GroupUuid] }), nil
}

// Create 模拟 (group_uuid, user_uuid) 唯一索引
func (r *memMemberRepo) Create(member *model.GroupMember) error {
	defer lockUnlessTx(r.s, r.inTx)()
	for _, m := range r.s.members {
		if m.GroupUuid == member.GroupUuid && m.UserUuid == member.UserUuid {
			return errorx.Wrap(gorm.ErrDuplicatedKey, errorx.CodeConflict, "记录已存在")
		}
	}
	r.s.nextId++
	member.ID = r.s.nextId
	member.CreatedAt = r.s.tick()
	r.s.members = append(r.s.members, *member)
	return nil
}

func (r *memMemberRepo) UpdateStatus(groupUuid, userUuid string, status int8) error {
	defer lockUnlessTx(r.s, r.inTx)()
	for i := range r.s.members {
		if r.s.members[i].GroupUuid == groupUuid && r.s.members[i].UserUuid == userUuid {
			r.s.members[i].Status = status
		}
	}
	return nil
}

func (r *memMemberRepo) deleteWhere(match func(model.GroupMember) bool) {
	kept := r.s.members[:0:0]
	for _, m := range r.s.members {
		if !match(m) {
			kept = append(kept, m)
		}
	}
	r.s.members = kept
}

func (r *memMemberRepo) Delete(groupUuid, userUuid string) error {
	defer lockUnlessTx(r.s, r.inTx)()
	r.deleteWhere(func(m model.GroupMember) bool { return m.GroupUuid == groupUuid && m.UserUuid == userUuid })
	return nil
}

func (r *memMemberRepo) DeleteByGroupUuid(groupUuid string) error {
	defer lockUnlessTx(r.s, r.inTx)()
	r.deleteWhere(func(m model.GroupMember) bool { return m.GroupUuid == groupUuid })
	return nil
}

// ---------- 缓存与事件 ----------

// hold 为 true 时 SubmitTask 只排队，flush 时才执行
type memCache struct {
	mu      sync.Mutex
	data    map[string]string
	hold    bool
	pending []func()
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) GetOrError(ctx context.Context, key string) (string, error) {
	v, _ := c.Get(ctx, key)
	if v == "" {
		return "", errorx.New(errorx.CodeNotFound, "key not found")
	}
	return v, nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeleteByPattern(context.Context, string) error { return nil }

func (c *memCache) SubmitTask(action func()) {
	c.mu.Lock()
	if c.hold {
		c.pending = append(c.pending, action)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	action()
}

func (c *memCache) flush() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, action := range pending {
		action()
	}
}

func (c *memCache) Close() {}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.GroupEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event mq.GroupEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []mq.GroupEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []mq.GroupEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
