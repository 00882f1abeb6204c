package graph

import (
	"github.com/graphql-go/graphql"
)

func (r *Resolver) queryFields(t objectTypes) graphql.Fields {
	return graphql.Fields{
		"me": &graphql.Field{
			Type: t.user,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := caller(p)
				if err != nil {
					return nil, err
				}
				return r.Services.User.GetUser(p.Context, identity.ID)
			},
		},
		"user": &graphql.Field{
			Type: t.user,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.User.GetUser(p.Context, stringArg(p, "id"))
			},
		},
		"users": &graphql.Field{
			Type: graphql.NewList(t.user),
			Args: pageArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.User.ListUsers(p.Context, intArg(p, "limit"), intArg(p, "offset"))
			},
		},
		"book": &graphql.Field{
			Type: t.book,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Book.GetBook(p.Context, stringArg(p, "id"))
			},
		},
		"books": &graphql.Field{
			Type: graphql.NewList(t.book),
			Args: pageArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Book.ListBooks(p.Context, intArg(p, "limit"), intArg(p, "offset"))
			},
		},
		"club": &graphql.Field{
			Type: t.club,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Club.GetClub(p.Context, stringArg(p, "id"))
			},
		},
		"clubs": &graphql.Field{
			Type: graphql.NewList(t.club),
			Args: pageArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Club.ListClubs(p.Context, intArg(p, "limit"), intArg(p, "offset"))
			},
		},
		"reviews": &graphql.Field{
			Type: graphql.NewList(t.review),
			Args: idArg("bookId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Review.ListReviews(p.Context, stringArg(p, "bookId"))
			},
		},
		"ratings": &graphql.Field{
			Type: graphql.NewList(t.rating),
			Args: idArg("bookId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Rating.ListRatings(p.Context, stringArg(p, "bookId"))
			},
		},
		"averageRating": &graphql.Field{
			Type: t.average,
			Args: idArg("bookId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.Services.Rating.AverageRating(p.Context, stringArg(p, "bookId"))
			},
		},
	}
}
