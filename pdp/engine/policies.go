package engine

import pdp_model "github.com/dev-mohitbeniwal/bookclub/pdp/model"

func query(name string, requiresAuth bool, description string) pdp_model.OperationPolicy {
	return pdp_model.OperationPolicy{Operation: name, Kind: pdp_model.KindQuery, RequiresAuth: requiresAuth, Description: description}
}

func mutation(name string, requiresAuth bool, description string) pdp_model.OperationPolicy {
	return pdp_model.OperationPolicy{Operation: name, Kind: pdp_model.KindMutation, RequiresAuth: requiresAuth, Description: description}
}

// DefaultPolicies is the access table for the bookclub schema. Reads are
// public apart from me; every mutation except signup and login needs a
// session.
var DefaultPolicies = []pdp_model.OperationPolicy{
	query("me", true, "The authenticated user"),
	query("user", false, "A user by id"),
	query("users", false, "A page of users"),
	query("book", false, "A book by id"),
	query("books", false, "A page of books"),
	query("club", false, "A club by id"),
	query("clubs", false, "A page of clubs"),
	query("reviews", false, "Reviews of a book"),
	query("ratings", false, "Ratings of a book"),
	query("averageRating", false, "Mean rating of a book"),

	mutation("signup", false, "Create an account and start a session"),
	mutation("login", false, "Start a session"),
	mutation("addBook", true, "Register a book"),
	mutation("createClub", true, "Create a club owned by the caller"),
	mutation("joinClub", true, "Join a club"),
	mutation("leaveClub", true, "Leave a club"),
	mutation("addBookToClub", true, "Add a book to a club's reading list"),
	mutation("removeBookFromClub", true, "Remove a book from a club's reading list"),
	mutation("deleteClub", true, "Delete a club the caller owns"),
	mutation("addReview", true, "Review a book"),
	mutation("deleteReview", true, "Delete the caller's review"),
	mutation("addRating", true, "Rate a book"),
}
