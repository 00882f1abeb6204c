package model

import "time"

type Book struct {
	ID          string    `json:"id"`
	ISBN        string    `json:"isbn" validate:"required,min=10,max=13"`
	Title       string    `json:"title" validate:"required"`
	Author      string    `json:"author" validate:"required"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt   time.Time `json:"created_at"`
}

// BestsellerCategories is the order in which ISBN lookups walk the bestseller
// lists. It is also the default set fetched by the CLI.
var BestsellerCategories = []string{
	"hardcover-fiction",
	"hardcover-nonfiction",
	"childrens-middle-grade-hardcover",
	"young-adult-hardcover",
	"science",
	"graphic-books-and-manga",
}

// Bestseller is one entry of an upstream bestseller list.
type Bestseller struct {
	Rank             int    `json:"rank"`
	Title            string `json:"title" validate:"required"`
	Author           string `json:"author"`
	Description      string `json:"description"`
	Publisher        string `json:"publisher"`
	PrimaryISBN13    string `json:"primary_isbn13"`
	PrimaryISBN10    string `json:"primary_isbn10"`
	BookImage        string `json:"book_image"`
	AmazonProductURL string `json:"amazon_product_url"`
	WeeksOnList      int    `json:"weeks_on_list"`
}

// MatchesISBN reports whether isbn equals either of the record's ISBNs.
func (b Bestseller) MatchesISBN(isbn string) bool {
	return isbn != "" && (b.PrimaryISBN13 == isbn || b.PrimaryISBN10 == isbn)
}
