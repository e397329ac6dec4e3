package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// ── users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users   map[uint]*domain.User
	follows map[[2]uint]bool
	nextID  uint

	// beforeCreate runs inside Create ahead of the uniqueness check.
	beforeCreate func()
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User), follows: make(map[[2]uint]bool)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Permissions = append([]string(nil), u.Permissions...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook()
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = r.nextID
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []uint) (map[uint]*domain.User, error) {
	out := make(map[uint]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID != user.ID && u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) SetPermissions(_ context.Context, userID uint, codenames []string) error {
	r.users[userID].Permissions = append([]string(nil), codenames...)
	return nil
}

func (r *stubUserRepo) Follow(_ context.Context, followerID, followingID uint) (bool, error) {
	key := [2]uint{followerID, followingID}
	if r.follows[key] {
		return false, nil
	}
	r.follows[key] = true
	return true, nil
}

func (r *stubUserRepo) Unfollow(_ context.Context, followerID, followingID uint) error {
	delete(r.follows, [2]uint{followerID, followingID})
	return nil
}

func (r *stubUserRepo) FollowingIDs(_ context.Context, userID uint) ([]uint, error) {
	var ids []uint
	for k := range r.follows {
		if k[0] == userID {
			ids = append(ids, k[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *stubUserRepo) edges(match func(k [2]uint) (uint, bool), page domain.PageRequest) ([]*domain.User, int64, error) {
	var ids []uint
	for k := range r.follows {
		if id, ok := match(k); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []*domain.User
	for i, id := range ids {
		if i >= page.Offset() && len(out) < page.Size {
			out = append(out, cloneUser(r.users[id]))
		}
	}
	return out, int64(len(ids)), nil
}

func (r *stubUserRepo) Followers(_ context.Context, userID uint, page domain.PageRequest) ([]*domain.User, int64, error) {
	return r.edges(func(k [2]uint) (uint, bool) { return k[0], k[1] == userID }, page)
}

func (r *stubUserRepo) Following(_ context.Context, userID uint, page domain.PageRequest) ([]*domain.User, int64, error) {
	return r.edges(func(k [2]uint) (uint, bool) { return k[1], k[0] == userID }, page)
}

// ── denylist ──────────────────────────────────────────────────────────────────

type stubDenylist struct {
	revoked   map[string]time.Duration
	revokeErr error
	checkErr  error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if d.revokeErr != nil {
		return d.revokeErr
	}
	d.revoked[jti] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	_, ok := d.revoked[jti]
	return ok, nil
}

// ── notifier ──────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.NotificationInput
}

func (n *recordingNotifier) Notify(in ports.NotificationInput) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, in)
}

func (n *recordingNotifier) all() []ports.NotificationInput {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.NotificationInput(nil), n.sent...)
}

// ── catalog ───────────────────────────────────────────────────────────────────

type stubAuthorRepo struct {
	authors map[uint]*domain.Author
	nextID  uint

	listFn func(f domain.AuthorFilter) ([]*domain.Author, int64, error)
}

func newStubAuthorRepo(names ...string) *stubAuthorRepo {
	r := &stubAuthorRepo{authors: make(map[uint]*domain.Author)}
	for _, n := range names {
		_ = r.Create(context.Background(), &domain.Author{Name: n})
	}
	return r
}

func (r *stubAuthorRepo) Create(_ context.Context, a *domain.Author) error {
	r.nextID++
	a.ID = r.nextID
	c := *a
	r.authors[a.ID] = &c
	return nil
}

func (r *stubAuthorRepo) FindByID(_ context.Context, id uint) (*domain.Author, error) {
	if a, ok := r.authors[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, domain.ErrAuthorNotFound
}

func (r *stubAuthorRepo) FindByName(_ context.Context, name string) (*domain.Author, error) {
	for _, a := range r.authors {
		if a.Name == name {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrAuthorNotFound
}

func (r *stubAuthorRepo) Update(_ context.Context, a *domain.Author) error {
	c := *a
	r.authors[a.ID] = &c
	return nil
}

func (r *stubAuthorRepo) Delete(_ context.Context, id uint) error {
	delete(r.authors, id)
	return nil
}

func (r *stubAuthorRepo) List(_ context.Context, f domain.AuthorFilter) ([]*domain.Author, int64, error) {
	if r.listFn != nil {
		return r.listFn(f)
	}
	return nil, 0, nil
}

type stubBookRepo struct {
	books  map[uint]*domain.Book
	nextID uint

	listFn func(f domain.BookFilter) ([]*domain.Book, int64, error)
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[uint]*domain.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) error {
	for _, existing := range r.books {
		if existing.Title == b.Title && existing.AuthorID == b.AuthorID {
			return domain.ErrDuplicateBook
		}
	}
	r.nextID++
	b.ID = r.nextID
	c := *b
	r.books[b.ID] = &c
	return nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id uint) (*domain.Book, error) {
	if b, ok := r.books[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, domain.ErrBookNotFound
}

func (r *stubBookRepo) Update(_ context.Context, b *domain.Book) error {
	for _, existing := range r.books {
		if existing.ID != b.ID && existing.Title == b.Title && existing.AuthorID == b.AuthorID {
			return domain.ErrDuplicateBook
		}
	}
	c := *b
	r.books[b.ID] = &c
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id uint) error {
	delete(r.books, id)
	return nil
}

func (r *stubBookRepo) List(_ context.Context, f domain.BookFilter) ([]*domain.Book, int64, error) {
	if r.listFn != nil {
		return r.listFn(f)
	}
	return nil, 0, nil
}

func (r *stubBookRepo) ListByAuthor(_ context.Context, authorID uint) ([]*domain.Book, error) {
	var out []*domain.Book
	for _, b := range r.books {
		if b.AuthorID == authorID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// ── blog ──────────────────────────────────────────────────────────────────────

type stubPostRepo struct {
	posts  map[uint]*domain.Post
	nextID uint

	lastFilter domain.PostFilter
	lastTags   []domain.Tag
	listFn     func(f domain.PostFilter) ([]*domain.Post, int64, error)
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[uint]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now().UTC()
	c := *p
	r.posts[p.ID] = &c
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id uint) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post, tags []domain.Tag) error {
	r.lastTags = tags
	c := *p
	if tags != nil {
		c.Tags = tags
	}
	r.posts[p.ID] = &c
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id uint) error {
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, f domain.PostFilter) ([]*domain.Post, int64, error) {
	r.lastFilter = f
	if r.listFn != nil {
		return r.listFn(f)
	}
	return nil, 0, nil
}

func (r *stubPostRepo) Tags(_ context.Context) ([]domain.Tag, error) {
	return nil, nil
}

func (r *stubPostRepo) FindTagBySlug(_ context.Context, s string) (*domain.Tag, error) {
	for _, p := range r.posts {
		for _, t := range p.Tags {
			if t.Slug == s {
				c := t
				return &c, nil
			}
		}
	}
	return nil, domain.ErrTagNotFound
}

type stubCommentRepo struct {
	comments map[uint]*domain.Comment
	nextID   uint
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[uint]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id uint) (*domain.Comment, error) {
	if c, ok := r.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCommentNotFound
}

func (r *stubCommentRepo) Update(_ context.Context, c *domain.Comment) error {
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id uint) error {
	delete(r.comments, id)
	return nil
}

func (r *stubCommentRepo) List(_ context.Context, postID uint, page domain.PageRequest) ([]*domain.Comment, int64, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if postID == 0 || c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type stubLikeRepo struct {
	likes  map[[2]uint]uint
	nextID uint
}

func newStubLikeRepo() *stubLikeRepo {
	return &stubLikeRepo{likes: make(map[[2]uint]uint)}
}

func (r *stubLikeRepo) Create(_ context.Context, l *domain.Like) error {
	key := [2]uint{l.PostID, l.UserID}
	if _, ok := r.likes[key]; ok {
		return domain.ErrAlreadyLiked
	}
	r.nextID++
	l.ID = r.nextID
	r.likes[key] = l.ID
	return nil
}

func (r *stubLikeRepo) Delete(_ context.Context, postID, userID uint) (int64, error) {
	key := [2]uint{postID, userID}
	if _, ok := r.likes[key]; !ok {
		return 0, nil
	}
	delete(r.likes, key)
	return 1, nil
}

func (r *stubLikeRepo) Count(_ context.Context, postID uint) (int64, error) {
	var n int64
	for k := range r.likes {
		if k[0] == postID {
			n++
		}
	}
	return n, nil
}
