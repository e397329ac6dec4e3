package handler

import (
	"time"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// parseDate reads an optional YYYY-MM-DD value into errs under field.
func parseDate(raw, field string, errs *domain.ValidationError) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		errs.Add(field, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		return nil
	}
	return &t
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		IsStaff:        u.IsStaff,
		Permissions:    u.Permissions,
		DateJoined:     u.DateJoined,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

func toUserSummary(s domain.UserSummary) userSummaryResponse {
	return userSummaryResponse{ID: s.ID, Username: s.Username, Email: s.Email}
}

func toUserSummaryOf(u *domain.User) userSummaryResponse {
	return toUserSummary(u.Summary())
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		Author:          b.AuthorID,
		AuthorName:      b.AuthorName,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for i := range books {
		out = append(out, toBookResponse(&books[i]))
	}
	return out
}

func toAuthorResponse(a *domain.Author) authorResponse {
	return authorResponse{
		ID:        a.ID,
		Name:      a.Name,
		Books:     toBookResponses(a.Books),
		BookCount: len(a.Books),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toLibrarianResponse(l *domain.Librarian) *librarianResponse {
	if l == nil {
		return nil
	}
	return &librarianResponse{ID: l.ID, Name: l.Name, Library: l.LibraryID}
}

func toLibraryResponse(l *domain.Library) libraryResponse {
	return libraryResponse{
		ID:        l.ID,
		Name:      l.Name,
		Books:     toBookResponses(l.Books),
		Librarian: toLibrarianResponse(l.Librarian),
	}
}

func toTagResponse(t domain.Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toPostResponse(p *domain.Post) postResponse {
	tags := make([]tagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, toTagResponse(t))
	}
	return postResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Author:       toUserSummary(p.Author),
		Tags:         tags,
		CommentCount: p.CommentCount,
		LikesCount:   p.LikeCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Post:      c.PostID,
		Author:    toUserSummary(c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toNotificationResponse(n ports.NotificationView) notificationResponse {
	return notificationResponse{
		ID:             n.ID,
		Recipient:      n.RecipientID,
		Actor:          toUserSummary(n.Actor),
		Verb:           string(n.Verb),
		VerbDisplay:    n.Verb.Display(),
		TargetType:     n.TargetType,
		TargetObjectID: n.TargetObjectID,
		Read:           n.Read,
		Timestamp:      n.Timestamp,
	}
}
