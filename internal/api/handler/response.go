package handler

import "github.com/bookhive/api/internal/core/domain"

type paginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// pageResponse is the envelope of every paginated list.
type pageResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

func newPageResponse[In, Out any](p *domain.Page[In], convert func(In) Out) pageResponse[Out] {
	data := make([]Out, 0, len(p.Items))
	for _, item := range p.Items {
		data = append(data, convert(item))
	}
	return pageResponse[Out]{
		Data: data,
		Pagination: paginationMeta{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}
