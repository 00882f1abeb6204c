package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/dev-mohitbeniwal/bookclub/model"
)

func stringArgs(names ...string) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{}
	for _, name := range names {
		args[name] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	}
	return args
}

func optional(args graphql.FieldConfigArgument, t graphql.Input, names ...string) graphql.FieldConfigArgument {
	for _, name := range names {
		args[name] = &graphql.ArgumentConfig{Type: t}
	}
	return args
}

func idArgs(names ...string) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{}
	for _, name := range names {
		args[name] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	}
	return args
}

func (r *Resolver) mutationFields(t objectTypes) graphql.Fields {
	return graphql.Fields{
		"signup": &graphql.Field{
			Type: t.authPayload,
			Args: stringArgs("username", "email", "password"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.User.Signup(p.Context, model.SignupRequest{
					Username: stringArg(p, "username"),
					Email:    stringArg(p, "email"),
					Password: stringArg(p, "password"),
				})
			},
		},
		"login": &graphql.Field{
			Type: t.authPayload,
			Args: stringArgs("email", "password"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.User.Login(p.Context, model.LoginRequest{
					Email:    stringArg(p, "email"),
					Password: stringArg(p, "password"),
				})
			},
		},
		"addBook": &graphql.Field{
			Type: t.book,
			Args: optional(stringArgs("isbn", "title", "author"), graphql.String, "description", "imageUrl"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Book.AddBook(p.Context, model.Book{
					ISBN:        stringArg(p, "isbn"),
					Title:       stringArg(p, "title"),
					Author:      stringArg(p, "author"),
					Description: stringArg(p, "description"),
					ImageURL:    stringArg(p, "imageUrl"),
				}, identity.ID)
			},
		},
		"createClub": &graphql.Field{
			Type: t.club,
			Args: optional(stringArgs("name"), graphql.String, "description"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Club.CreateClub(p.Context, model.Club{
					Name:        stringArg(p, "name"),
					Description: stringArg(p, "description"),
				}, identity.ID)
			},
		},
		"joinClub": &graphql.Field{
			Type: t.club,
			Args: idArgs("clubId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Club.JoinClub(p.Context, stringArg(p, "clubId"), identity.ID)
			},
		},
		"leaveClub": &graphql.Field{
			Type: t.club,
			Args: idArgs("clubId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Club.LeaveClub(p.Context, stringArg(p, "clubId"), identity.ID)
			},
		},
		"addBookToClub": &graphql.Field{
			Type: t.club,
			Args: idArgs("clubId", "bookId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Club.AddBookToClub(p.Context, stringArg(p, "clubId"), stringArg(p, "bookId"), identity.ID)
			},
		},
		"removeBookFromClub": &graphql.Field{
			Type: t.club,
			Args: idArgs("clubId", "bookId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Club.RemoveBookFromClub(p.Context, stringArg(p, "clubId"), stringArg(p, "bookId"), identity.ID)
			},
		},
		"deleteClub": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArgs("clubId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				if err := r.Services.Club.DeleteClub(p.Context, stringArg(p, "clubId"), identity.ID); err != nil {
					return nil, err
				}
				return true, nil
			},
		},
		"addReview": &graphql.Field{
			Type: t.review,
			Args: optional(optional(idArgs("bookId"), graphql.ID, "clubId"), graphql.NewNonNull(graphql.String), "text"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Review.AddReview(p.Context, model.Review{
					BookID: stringArg(p, "bookId"),
					ClubID: stringArg(p, "clubId"),
					Text:   stringArg(p, "text"),
				}, identity)
			},
		},
		"deleteReview": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArgs("reviewId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				if err := r.Services.Review.DeleteReview(p.Context, stringArg(p, "reviewId"), identity.ID); err != nil {
					return nil, err
				}
				return true, nil
			},
		},
		"addRating": &graphql.Field{
			Type: t.rating,
			Args: optional(idArgs("bookId"), graphql.NewNonNull(graphql.Int), "value"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.Rating.AddRating(p.Context, model.Rating{
					BookID: stringArg(p, "bookId"),
					Value:  intArg(p, "value"),
				}, identity.ID)
			},
		},
	}
}
