package sqldb

import (
	"time"

	"github.com/bookhive/api/internal/core/domain"
)

// ── accounts ──────────────────────────────────────────────────────────────────

type UserModel struct {
	ID             uint       `gorm:"primaryKey"`
	Email          string     `gorm:"not null;uniqueIndex;size:254"`
	Username       string     `gorm:"not null;uniqueIndex;size:150"`
	FirstName      string     `gorm:"size:150"`
	LastName       string     `gorm:"size:150"`
	Bio            string     `gorm:"size:500"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	ProfilePicture string     `gorm:"size:500"`
	PasswordHash   string     `gorm:"not null"`
	Role           string     `gorm:"not null;size:20"`
	IsStaff        bool       `gorm:"not null"`
	IsSuperuser    bool       `gorm:"not null"`
	IsActive       bool       `gorm:"not null"`
	DateJoined     time.Time  `gorm:"not null"`
	UpdatedAt      time.Time

	Permissions []PermissionModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *domain.User {
	perms := make([]string, 0, len(m.Permissions))
	for _, p := range m.Permissions {
		perms = append(perms, p.Codename)
	}
	return &domain.User{
		ID:             m.ID,
		Email:          m.Email,
		Username:       m.Username,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Bio:            m.Bio,
		DateOfBirth:    m.DateOfBirth,
		ProfilePicture: m.ProfilePicture,
		PasswordHash:   m.PasswordHash,
		Role:           m.Role,
		IsStaff:        m.IsStaff,
		IsSuperuser:    m.IsSuperuser,
		IsActive:       m.IsActive,
		Permissions:    perms,
		DateJoined:     m.DateJoined,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (m *UserModel) FromDomain(u *domain.User) {
	m.ID = u.ID
	m.Email = u.Email
	m.Username = u.Username
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Bio = u.Bio
	m.DateOfBirth = u.DateOfBirth
	m.ProfilePicture = u.ProfilePicture
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.IsStaff = u.IsStaff
	m.IsSuperuser = u.IsSuperuser
	m.IsActive = u.IsActive
	m.DateJoined = u.DateJoined
	m.UpdatedAt = u.UpdatedAt
	m.Permissions = make([]PermissionModel, 0, len(u.Permissions))
	for _, c := range u.Permissions {
		m.Permissions = append(m.Permissions, PermissionModel{Codename: c})
	}
}

// PermissionModel grants one permission codename to one user.
type PermissionModel struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_permission"`
	Codename string `gorm:"not null;size:100;uniqueIndex:idx_user_permission"`
}

func (PermissionModel) TableName() string { return "user_permissions" }

// FollowModel is a directed edge: FollowerID follows FollowingID.
type FollowModel struct {
	ID          uint      `gorm:"primaryKey"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt   time.Time `gorm:"not null"`

	Follower  *UserModel `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following *UserModel `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

func (FollowModel) TableName() string { return "follows" }

// ── catalog ───────────────────────────────────────────────────────────────────

type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;size:100;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Books []BookModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (AuthorModel) TableName() string { return "authors" }

func (m *AuthorModel) ToDomain() *domain.Author {
	books := make([]domain.Book, 0, len(m.Books))
	for i := range m.Books {
		b := m.Books[i].ToDomain()
		b.AuthorName = m.Name
		books = append(books, *b)
	}
	return &domain.Author{
		ID:        m.ID,
		Name:      m.Name,
		Books:     books,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m *AuthorModel) FromDomain(a *domain.Author) {
	m.ID = a.ID
	m.Name = a.Name
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}

type BookModel struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"not null;size:200;uniqueIndex:idx_book_title_author"`
	PublicationYear int    `gorm:"not null;index"`
	AuthorID        uint   `gorm:"not null;uniqueIndex:idx_book_title_author;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Author *AuthorModel `gorm:"foreignKey:AuthorID"`
}

func (BookModel) TableName() string { return "books" }

func (m *BookModel) ToDomain() *domain.Book {
	b := &domain.Book{
		ID:              m.ID,
		Title:           m.Title,
		PublicationYear: m.PublicationYear,
		AuthorID:        m.AuthorID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Author != nil {
		b.AuthorName = m.Author.Name
	}
	return b
}

func (m *BookModel) FromDomain(b *domain.Book) {
	m.ID = b.ID
	m.Title = b.Title
	m.PublicationYear = b.PublicationYear
	m.AuthorID = b.AuthorID
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}

// ── library ───────────────────────────────────────────────────────────────────

type LibraryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;size:100;uniqueIndex"`

	Books     []BookModel     `gorm:"many2many:library_books;joinForeignKey:LibraryID;joinReferences:BookID"`
	Librarian *LibrarianModel `gorm:"foreignKey:LibraryID;constraint:OnDelete:CASCADE"`
}

func (LibraryModel) TableName() string { return "libraries" }

func (m *LibraryModel) ToDomain() *domain.Library {
	l := &domain.Library{ID: m.ID, Name: m.Name, Books: make([]domain.Book, 0, len(m.Books))}
	for i := range m.Books {
		l.Books = append(l.Books, *m.Books[i].ToDomain())
	}
	if m.Librarian != nil {
		l.Librarian = m.Librarian.ToDomain()
	}
	return l
}

type LibraryBookModel struct {
	LibraryID uint `gorm:"primaryKey"`
	BookID    uint `gorm:"primaryKey;index"`
}

func (LibraryBookModel) TableName() string { return "library_books" }

type LibrarianModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;size:100"`
	LibraryID uint   `gorm:"not null;uniqueIndex"`
}

func (LibrarianModel) TableName() string { return "librarians" }

func (m *LibrarianModel) ToDomain() *domain.Librarian {
	return &domain.Librarian{ID: m.ID, Name: m.Name, LibraryID: m.LibraryID}
}

// ── blog ──────────────────────────────────────────────────────────────────────

type TagModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;size:50"`
	Slug string `gorm:"not null;size:60;uniqueIndex"`
}

func (TagModel) TableName() string { return "tags" }

func (m *TagModel) ToDomain() domain.Tag {
	return domain.Tag{ID: m.ID, Name: m.Name, Slug: m.Slug}
}

type PostModel struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"not null;size:200"`
	Content   string    `gorm:"not null;type:text"`
	AuthorID  uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Author *UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags   []TagModel `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
}

func (PostModel) TableName() string { return "posts" }

func (m *PostModel) ToDomain() *domain.Post {
	p := &domain.Post{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		AuthorID:  m.AuthorID,
		Tags:      make([]domain.Tag, 0, len(m.Tags)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Author != nil {
		p.Author = m.Author.ToDomain().Summary()
	}
	for i := range m.Tags {
		p.Tags = append(p.Tags, m.Tags[i].ToDomain())
	}
	return p
}

func (m *PostModel) FromDomain(p *domain.Post) {
	m.ID = p.ID
	m.Title = p.Title
	m.Content = p.Content
	m.AuthorID = p.AuthorID
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

type PostTagModel struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey;index"`
}

func (PostTagModel) TableName() string { return "post_tags" }

type CommentModel struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;index"`
	AuthorID  uint   `gorm:"not null;index"`
	Content   string `gorm:"not null;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Post   *PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Author *UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (CommentModel) TableName() string { return "comments" }

func (m *CommentModel) ToDomain() *domain.Comment {
	c := &domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Author != nil {
		c.Author = m.Author.ToDomain().Summary()
	}
	return c
}

type LikeModel struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_like_post_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_like_post_user;index"`
	CreatedAt time.Time

	Post *PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (LikeModel) TableName() string { return "likes" }
