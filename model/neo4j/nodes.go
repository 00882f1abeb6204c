// model/neo4j/nodes.go
package bookclub_neo4j

// Node Labels
const (
	// LabelUser represents a registered reader
	LabelUser = "User"

	// LabelClub represents a book club
	LabelClub = "Club"

	// LabelBook represents a book known to the application
	LabelBook = "Book"

	// LabelReview represents a written review of a book
	LabelReview = "Review"

	// LabelRating represents a 1-5 star rating of a book
	LabelRating = "Rating"
)
