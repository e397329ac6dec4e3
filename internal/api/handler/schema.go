package handler

import "time"

// errorResponse documents the error envelope for swagger.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// --- accounts ---

type registerRequest struct {
	Email       string `json:"email"         validate:"required,email,max=254"`
	Username    string `json:"username"      validate:"required,max=150"`
	Password    string `json:"password"      validate:"required"`
	Password2   string `json:"password2"     validate:"required"`
	Bio         string `json:"bio"           validate:"max=500"`
	FirstName   string `json:"first_name"    validate:"max=150"`
	LastName    string `json:"last_name"     validate:"max=150"`
	DateOfBirth string `json:"date_of_birth"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Username       *string `json:"username"        validate:"omitempty,max=150"`
	Bio            *string `json:"bio"             validate:"omitempty,max=500"`
	FirstName      *string `json:"first_name"      validate:"omitempty,max=150"`
	LastName       *string `json:"last_name"       validate:"omitempty,max=150"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=500"`
	DateOfBirth    *string `json:"date_of_birth"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type permissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type userResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio"`
	DateOfBirth    *string   `json:"date_of_birth"`
	ProfilePicture string    `json:"profile_picture"`
	Role           string    `json:"role"`
	IsStaff        bool      `json:"is_staff"`
	Permissions    []string  `json:"permissions"`
	DateJoined     time.Time `json:"date_joined"`
}

type userSummaryResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

type followResponse struct {
	Message   string `json:"message"`
	Following bool   `json:"following"`
}

// --- catalog ---

type bookRequest struct {
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year"`
	Author          *uint   `json:"author"`
}

type authorRequest struct {
	Name string `json:"name" validate:"required"`
}

type bookResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	Author          uint      `json:"author"`
	AuthorName      string    `json:"author_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type authorResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Books     []bookResponse `json:"books"`
	BookCount int            `json:"book_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// --- library ---

type libraryRequest struct {
	Name string `json:"name" validate:"required"`
}

type libraryBooksRequest struct {
	BookIDs []uint `json:"book_ids" validate:"required,min=1"`
}

type librarianRequest struct {
	Name string `json:"name" validate:"required"`
}

type librarianResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Library uint   `json:"library"`
}

type libraryResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Books     []bookResponse     `json:"books"`
	Librarian *librarianResponse `json:"librarian"`
}

type roleViewResponse struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// --- blog ---

type postRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

type tagResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount *int64 `json:"post_count,omitempty"`
}

type postResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	Author       userSummaryResponse `json:"author"`
	Tags         []tagResponse       `json:"tags"`
	CommentCount int64               `json:"comment_count"`
	LikesCount   int64               `json:"likes_count"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type commentResponse struct {
	ID        uint                `json:"id"`
	Post      uint                `json:"post"`
	Author    userSummaryResponse `json:"author"`
	Content   string              `json:"content"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// --- social ---

type likeResponse struct {
	Message    string `json:"message"`
	LikeID     uint   `json:"like_id,omitempty"`
	LikesCount int64  `json:"likes_count"`
}

// --- notifications ---

type notificationResponse struct {
	ID             string              `json:"id"`
	Recipient      uint                `json:"recipient"`
	Actor          userSummaryResponse `json:"actor"`
	Verb           string              `json:"verb"`
	VerbDisplay    string              `json:"verb_display"`
	TargetType     string              `json:"target_type"`
	TargetObjectID uint                `json:"target_object_id"`
	Read           bool                `json:"read"`
	Timestamp      time.Time           `json:"timestamp"`
}

type markAllResponse struct {
	Status  string `json:"status"`
	Updated int64  `json:"updated"`
}

type unreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}
