// model/neo4j/relationships.go
package bookclub_neo4j

// Relationship Types
const (
	// RelMemberOf links a user to a club they belong to
	RelMemberOf = "MEMBER_OF"

	// RelOwns links a user to a club they created
	RelOwns = "OWNS"

	// RelReading links a club to a book on its reading list
	RelReading = "READING"

	// RelWrote links a user to a review they wrote
	RelWrote = "WROTE"

	// RelAbout links a review to the book it discusses
	RelAbout = "ABOUT"

	// RelPostedIn links a review to the club it was posted in
	RelPostedIn = "POSTED_IN"

	// RelGave links a user to a rating they gave
	RelGave = "GAVE"

	// RelFor links a rating to the rated book
	RelFor = "FOR"
)
