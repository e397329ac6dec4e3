package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/api/middleware"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

var testPaging = Paging{DefaultSize: 10, MaxSize: 100}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// fieldErrors fails the test unless err is a validation error.
func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return ve.Fields
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func withPrincipal(c echo.Context, p domain.Principal) {
	c.Set(middleware.ClaimsKey, &ports.TokenClaims{Principal: p, TokenID: "jti-test"})
}

func withParams(c echo.Context, kv ...string) {
	names := make([]string, 0, len(kv)/2)
	values := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}

func onePage[T any](items ...T) *domain.Page[T] {
	p, _ := domain.NewPage(items, int64(len(items)), domain.PageRequest{Page: 1, Size: 10})
	return p
}

// --- auth / accounts ---

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn   func(ctx context.Context, claims ports.TokenClaims) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	return s.logoutFn(ctx, claims)
}

func (s *stubAuthService) ParseToken(context.Context, string) (*ports.TokenClaims, error) {
	return nil, domain.ErrUnauthorized
}

func (s *stubAuthService) CreateSuperuser(context.Context, string, string, string) (*domain.User, error) {
	return nil, nil
}

type stubAccountService struct {
	profileFn   func(ctx context.Context, userID uint) (*domain.User, error)
	updateFn    func(ctx context.Context, userID uint, in ports.ProfileUpdate) (*domain.User, error)
	followFn    func(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error)
	unfollowFn  func(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error)
	followersFn func(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error)
	setRoleFn   func(ctx context.Context, userID uint, role string) (*domain.User, error)
	setPermsFn  func(ctx context.Context, userID uint, codenames []string) (*domain.User, error)
}

func (s *stubAccountService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, userID uint, in ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

func (s *stubAccountService) Follow(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error) {
	return s.followFn(ctx, actor, targetID)
}

func (s *stubAccountService) Unfollow(ctx context.Context, actor domain.Principal, targetID uint) (*domain.User, error) {
	return s.unfollowFn(ctx, actor, targetID)
}

func (s *stubAccountService) Followers(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	return s.followersFn(ctx, userID, page)
}

func (s *stubAccountService) Following(ctx context.Context, userID uint, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	return s.followersFn(ctx, userID, page)
}

func (s *stubAccountService) SetRole(ctx context.Context, userID uint, role string) (*domain.User, error) {
	return s.setRoleFn(ctx, userID, role)
}

func (s *stubAccountService) SetPermissions(ctx context.Context, userID uint, codenames []string) (*domain.User, error) {
	return s.setPermsFn(ctx, userID, codenames)
}

// --- catalog ---

type stubCatalogService struct {
	listBooksFn   func(ctx context.Context, f domain.BookFilter) (*domain.Page[*domain.Book], error)
	createBookFn  func(ctx context.Context, in ports.BookInput) (*domain.Book, error)
	updateBookFn  func(ctx context.Context, id uint, in ports.BookInput, partial bool) (*domain.Book, error)
	listAuthorsFn func(ctx context.Context, f domain.AuthorFilter) (*domain.Page[*domain.Author], error)
	byAuthorFn    func(ctx context.Context, name string) ([]*domain.Book, error)
	deleted       []uint
}

func (s *stubCatalogService) ListBooks(ctx context.Context, f domain.BookFilter) (*domain.Page[*domain.Book], error) {
	return s.listBooksFn(ctx, f)
}

func (s *stubCatalogService) GetBook(_ context.Context, id uint) (*domain.Book, error) {
	if id == 1 {
		return &domain.Book{ID: 1, Title: "1984", PublicationYear: 1949, AuthorID: 2, AuthorName: "George Orwell"}, nil
	}
	return nil, domain.ErrBookNotFound
}

func (s *stubCatalogService) CreateBook(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	return s.createBookFn(ctx, in)
}

func (s *stubCatalogService) UpdateBook(ctx context.Context, id uint, in ports.BookInput, partial bool) (*domain.Book, error) {
	return s.updateBookFn(ctx, id, in, partial)
}

func (s *stubCatalogService) DeleteBook(_ context.Context, id uint) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubCatalogService) ListAuthors(ctx context.Context, f domain.AuthorFilter) (*domain.Page[*domain.Author], error) {
	return s.listAuthorsFn(ctx, f)
}

func (s *stubCatalogService) GetAuthor(context.Context, uint) (*domain.Author, error) {
	return nil, domain.ErrAuthorNotFound
}

func (s *stubCatalogService) CreateAuthor(_ context.Context, name string) (*domain.Author, error) {
	return &domain.Author{ID: 1, Name: name}, nil
}

func (s *stubCatalogService) UpdateAuthor(_ context.Context, id uint, name string) (*domain.Author, error) {
	return &domain.Author{ID: id, Name: name}, nil
}

func (s *stubCatalogService) DeleteAuthor(context.Context, uint) error { return nil }

func (s *stubCatalogService) BooksByAuthorName(ctx context.Context, name string) ([]*domain.Book, error) {
	return s.byAuthorFn(ctx, name)
}

// --- blog / social / notifications ---

type stubBlogService struct {
	listPostsFn  func(ctx context.Context, f domain.PostFilter) (*domain.Page[*domain.Post], error)
	updatePostFn func(ctx context.Context, actor domain.Principal, id uint, in ports.PostInput, partial bool) (*domain.Post, error)
	addCommentFn func(ctx context.Context, actor domain.Principal, postID uint, content string) (*domain.Comment, error)
	tagsFn       func(ctx context.Context) ([]domain.Tag, error)
	searchFn     func(ctx context.Context, q string, page domain.PageRequest) (*domain.Page[*domain.Post], error)
}

func (s *stubBlogService) ListPosts(ctx context.Context, f domain.PostFilter) (*domain.Page[*domain.Post], error) {
	return s.listPostsFn(ctx, f)
}

func (s *stubBlogService) GetPost(context.Context, uint) (*domain.Post, error) {
	return nil, domain.ErrPostNotFound
}

func (s *stubBlogService) CreatePost(_ context.Context, actor domain.Principal, in ports.PostInput) (*domain.Post, error) {
	return &domain.Post{ID: 1, Title: *in.Title, AuthorID: actor.UserID}, nil
}

func (s *stubBlogService) UpdatePost(ctx context.Context, actor domain.Principal, id uint, in ports.PostInput, partial bool) (*domain.Post, error) {
	return s.updatePostFn(ctx, actor, id, in, partial)
}

func (s *stubBlogService) DeletePost(context.Context, domain.Principal, uint) error {
	return domain.ErrForbidden
}

func (s *stubBlogService) ListComments(context.Context, uint, domain.PageRequest) (*domain.Page[*domain.Comment], error) {
	return onePage[*domain.Comment](), nil
}

func (s *stubBlogService) GetComment(context.Context, uint) (*domain.Comment, error) {
	return nil, domain.ErrCommentNotFound
}

func (s *stubBlogService) AddComment(ctx context.Context, actor domain.Principal, postID uint, content string) (*domain.Comment, error) {
	return s.addCommentFn(ctx, actor, postID, content)
}

func (s *stubBlogService) UpdateComment(context.Context, domain.Principal, uint, string) (*domain.Comment, error) {
	return nil, domain.ErrForbidden
}

func (s *stubBlogService) DeleteComment(context.Context, domain.Principal, uint) error { return nil }

func (s *stubBlogService) Tags(ctx context.Context) ([]domain.Tag, error) {
	return s.tagsFn(ctx)
}

func (s *stubBlogService) PostsByTag(context.Context, string, domain.PageRequest) (*domain.Page[*domain.Post], error) {
	return nil, domain.ErrTagNotFound
}

func (s *stubBlogService) Search(ctx context.Context, q string, page domain.PageRequest) (*domain.Page[*domain.Post], error) {
	return s.searchFn(ctx, q, page)
}

type stubSocialService struct {
	likeFn   func(ctx context.Context, actor domain.Principal, postID uint) (*ports.LikeResult, error)
	unlikeFn func(ctx context.Context, actor domain.Principal, postID uint) (*ports.LikeResult, error)
}

func (s *stubSocialService) Feed(context.Context, domain.Principal, domain.PageRequest) (*domain.Page[*domain.Post], error) {
	return onePage[*domain.Post](), nil
}

func (s *stubSocialService) Like(ctx context.Context, actor domain.Principal, postID uint) (*ports.LikeResult, error) {
	return s.likeFn(ctx, actor, postID)
}

func (s *stubSocialService) Unlike(ctx context.Context, actor domain.Principal, postID uint) (*ports.LikeResult, error) {
	return s.unlikeFn(ctx, actor, postID)
}

type stubNotificationService struct {
	listFn    func(ctx context.Context, recipientID uint, page domain.PageRequest) (*domain.Page[ports.NotificationView], error)
	markFn    func(ctx context.Context, recipientID uint, id string) error
	markAllFn func(ctx context.Context, recipientID uint) (int64, error)
	unreadFn  func(ctx context.Context, recipientID uint) (int64, error)
	processed []ports.NotificationInput
}

func (s *stubNotificationService) Process(_ context.Context, in ports.NotificationInput) error {
	s.processed = append(s.processed, in)
	return nil
}

func (s *stubNotificationService) List(ctx context.Context, recipientID uint, page domain.PageRequest) (*domain.Page[ports.NotificationView], error) {
	return s.listFn(ctx, recipientID, page)
}

func (s *stubNotificationService) MarkAsRead(ctx context.Context, recipientID uint, id string) error {
	return s.markFn(ctx, recipientID, id)
}

func (s *stubNotificationService) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.markAllFn(ctx, recipientID)
}

func (s *stubNotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.unreadFn(ctx, recipientID)
}

type stubLibraryService struct {
	addBooksFn func(ctx context.Context, libraryID uint, bookIDs []uint) (*domain.Library, error)
}

func (s *stubLibraryService) ListLibraries(context.Context, domain.PageRequest) (*domain.Page[*domain.Library], error) {
	return onePage(&domain.Library{ID: 1, Name: "City Central Library"}), nil
}

func (s *stubLibraryService) GetLibrary(context.Context, uint) (*domain.Library, error) {
	return nil, domain.ErrLibraryNotFound
}

func (s *stubLibraryService) CreateLibrary(_ context.Context, name string) (*domain.Library, error) {
	return &domain.Library{ID: 1, Name: name}, nil
}

func (s *stubLibraryService) AddBooks(ctx context.Context, libraryID uint, bookIDs []uint) (*domain.Library, error) {
	return s.addBooksFn(ctx, libraryID, bookIDs)
}

func (s *stubLibraryService) RemoveBook(context.Context, uint, uint) (*domain.Library, error) {
	return &domain.Library{ID: 1}, nil
}

func (s *stubLibraryService) AssignLibrarian(_ context.Context, libraryID uint, name string) (*domain.Librarian, error) {
	return &domain.Librarian{ID: 1, Name: name, LibraryID: libraryID}, nil
}

func (s *stubLibraryService) GetLibrarian(context.Context, uint) (*domain.Librarian, error) {
	return nil, domain.ErrLibrarianNotFound
}
