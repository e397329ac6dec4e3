package domain

type Library struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Books     []Book     `json:"books"`
	Librarian *Librarian `json:"librarian,omitempty"`
}

type Librarian struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	LibraryID uint   `json:"library"`
}
