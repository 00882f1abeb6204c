package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	"github.com/dev-mohitbeniwal/bookclub/model"
	pdp_model "github.com/dev-mohitbeniwal/bookclub/pdp/model"
	"github.com/dev-mohitbeniwal/bookclub/service"
)

func nonNull(t graphql.Output) graphql.Output { return graphql.NewNonNull(t) }

func idArg(name string) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{name: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}}
}

var pageArgs = graphql.FieldConfigArgument{
	"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
	"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
}

// Schema builds the executable schema. Root fields are wrapped by guard;
// nested fields inherit the decision taken for their root and report errors
// through nested.
func (r *Resolver) Schema() (graphql.Schema, error) {
	var userType, clubType, bookType, reviewType, ratingType *graphql.Object

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":       &graphql.Field{Type: nonNull(graphql.ID), Resolve: userField(func(u *model.User) interface{} { return u.ID })},
				"username": &graphql.Field{Type: nonNull(graphql.String), Resolve: userField(func(u *model.User) interface{} { return u.Username })},
				"email":    &graphql.Field{Type: graphql.String, Resolve: ownEmail},
				"clubIds":  &graphql.Field{Type: graphql.NewList(graphql.ID), Resolve: userField(func(u *model.User) interface{} { return u.Clubs })},
				"createdAt": &graphql.Field{Type: graphql.DateTime, Resolve: userField(func(u *model.User) interface{} {
					return u.CreatedAt
				})},
				"clubs": &graphql.Field{
					Type: graphql.NewList(clubType),
					Resolve: nested("User.clubs", func(p graphql.ResolveParams) (interface{}, error) {
						u := p.Source.(*model.User)
						return r.Services.Club.GetClubsByIDs(p.Context, u.Clubs)
					}),
				},
			}
		}),
	})

	bookType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: nonNull(graphql.ID), Resolve: bookField(func(b *model.Book) interface{} { return b.ID })},
				"isbn":        &graphql.Field{Type: nonNull(graphql.String), Resolve: bookField(func(b *model.Book) interface{} { return b.ISBN })},
				"title":       &graphql.Field{Type: nonNull(graphql.String), Resolve: bookField(func(b *model.Book) interface{} { return b.Title })},
				"author":      &graphql.Field{Type: graphql.String, Resolve: bookField(func(b *model.Book) interface{} { return b.Author })},
				"description": &graphql.Field{Type: graphql.String, Resolve: bookField(func(b *model.Book) interface{} { return b.Description })},
				"imageUrl":    &graphql.Field{Type: graphql.String, Resolve: bookField(func(b *model.Book) interface{} { return b.ImageURL })},
				"createdAt":   &graphql.Field{Type: graphql.DateTime, Resolve: bookField(func(b *model.Book) interface{} { return b.CreatedAt })},
				"reviews": &graphql.Field{
					Type: graphql.NewList(reviewType),
					Resolve: nested("Book.reviews", func(p graphql.ResolveParams) (interface{}, error) {
						return r.Services.Review.ListReviews(p.Context, p.Source.(*model.Book).ID)
					}),
				},
				"averageRating": &graphql.Field{
					Type: graphql.Float,
					Resolve: nested("Book.averageRating", func(p graphql.ResolveParams) (interface{}, error) {
						avg, err := r.Services.Rating.AverageRating(p.Context, p.Source.(*model.Book).ID)
						if err != nil {
							return nil, err
						}
						return avg.Average, nil
					}),
				},
			}
		}),
	})

	clubType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Club",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: nonNull(graphql.ID), Resolve: clubField(func(c *model.Club) interface{} { return c.ID })},
				"name":        &graphql.Field{Type: nonNull(graphql.String), Resolve: clubField(func(c *model.Club) interface{} { return c.Name })},
				"description": &graphql.Field{Type: graphql.String, Resolve: clubField(func(c *model.Club) interface{} { return c.Description })},
				"ownerId":     &graphql.Field{Type: graphql.ID, Resolve: clubField(func(c *model.Club) interface{} { return c.OwnerID })},
				"userIds":     &graphql.Field{Type: graphql.NewList(graphql.ID), Resolve: clubField(func(c *model.Club) interface{} { return c.Users })},
				"bookIds":     &graphql.Field{Type: graphql.NewList(graphql.ID), Resolve: clubField(func(c *model.Club) interface{} { return c.Books })},
				"createdAt":   &graphql.Field{Type: graphql.DateTime, Resolve: clubField(func(c *model.Club) interface{} { return c.CreatedAt })},
				"updatedAt":   &graphql.Field{Type: graphql.DateTime, Resolve: clubField(func(c *model.Club) interface{} { return c.UpdatedAt })},
				"owner": &graphql.Field{
					Type: userType,
					Resolve: nested("Club.owner", func(p graphql.ResolveParams) (interface{}, error) {
						return r.Services.User.GetUser(p.Context, p.Source.(*model.Club).OwnerID)
					}),
				},
				"users": &graphql.Field{
					Type: graphql.NewList(userType),
					Resolve: nested("Club.users", func(p graphql.ResolveParams) (interface{}, error) {
						return r.Services.User.GetUsersByIDs(p.Context, p.Source.(*model.Club).Users)
					}),
				},
				"books": &graphql.Field{
					Type: graphql.NewList(bookType),
					Resolve: nested("Club.books", func(p graphql.ResolveParams) (interface{}, error) {
						return r.Services.Book.GetBooksByIDs(p.Context, p.Source.(*model.Club).Books)
					}),
				},
			}
		}),
	})

	reviewType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":        &graphql.Field{Type: nonNull(graphql.ID), Resolve: reviewField(func(v *model.Review) interface{} { return v.ID })},
				"text":      &graphql.Field{Type: nonNull(graphql.String), Resolve: reviewField(func(v *model.Review) interface{} { return v.Text })},
				"bookId":    &graphql.Field{Type: nonNull(graphql.ID), Resolve: reviewField(func(v *model.Review) interface{} { return v.BookID })},
				"clubId":    &graphql.Field{Type: graphql.ID, Resolve: reviewField(func(v *model.Review) interface{} { return v.ClubID })},
				"userId":    &graphql.Field{Type: nonNull(graphql.ID), Resolve: reviewField(func(v *model.Review) interface{} { return v.UserID })},
				"username":  &graphql.Field{Type: graphql.String, Resolve: reviewField(func(v *model.Review) interface{} { return v.Username })},
				"createdAt": &graphql.Field{Type: graphql.DateTime, Resolve: reviewField(func(v *model.Review) interface{} { return v.CreatedAt })},
				"book": &graphql.Field{
					Type: bookType,
					Resolve: nested("Review.book", func(p graphql.ResolveParams) (interface{}, error) {
						return r.Services.Book.GetBook(p.Context, p.Source.(*model.Review).BookID)
					}),
				},
			}
		}),
	})

	ratingType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Rating",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: nonNull(graphql.ID), Resolve: ratingField(func(v *model.Rating) interface{} { return v.ID })},
			"bookId":    &graphql.Field{Type: nonNull(graphql.ID), Resolve: ratingField(func(v *model.Rating) interface{} { return v.BookID })},
			"userId":    &graphql.Field{Type: nonNull(graphql.ID), Resolve: ratingField(func(v *model.Rating) interface{} { return v.UserID })},
			"value":     &graphql.Field{Type: nonNull(graphql.Int), Resolve: ratingField(func(v *model.Rating) interface{} { return v.Value })},
			"createdAt": &graphql.Field{Type: graphql.DateTime, Resolve: ratingField(func(v *model.Rating) interface{} { return v.CreatedAt })},
		},
	})

	averageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AverageRating",
		Fields: graphql.Fields{
			"bookId": &graphql.Field{Type: nonNull(graphql.ID), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*service.AverageRating).BookID, nil
			}},
			"average": &graphql.Field{Type: nonNull(graphql.Float), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*service.AverageRating).Average, nil
			}},
			"count": &graphql.Field{Type: nonNull(graphql.Int), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*service.AverageRating).Count, nil
			}},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: nonNull(graphql.String), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*model.AuthPayload).Token, nil
			}},
			"user": &graphql.Field{Type: userType, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*model.AuthPayload).User, nil
			}},
		},
	})

	types := objectTypes{
		user: userType, club: clubType, book: bookType, review: reviewType,
		rating: ratingType, average: averageType, authPayload: authPayloadType,
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: r.guardAll(pdp_model.KindQuery, r.queryFields(types)),
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: r.guardAll(pdp_model.KindMutation, r.mutationFields(types)),
		}),
	})
}

type objectTypes struct {
	user, club, book, review, rating, average, authPayload *graphql.Object
}

func (r *Resolver) guardAll(kind string, fields graphql.Fields) graphql.Fields {
	for name, field := range fields {
		field.Resolve = r.guard(kind, name, field.Resolve)
	}
	return fields
}

// nested maps errors from a non-root resolver the same way guard does for
// root fields.
func nested(field string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		result, err := resolve(p)
		if err != nil {
			return nil, publicError(field, err)
		}
		return result, nil
	}
}

// ownEmail shows a user's email to that user only.
func ownEmail(p graphql.ResolveParams) (interface{}, error) {
	u := p.Source.(*model.User)
	identity := auth.IdentityFromContext(p.Context)
	if identity == nil || identity.ID != u.ID {
		return nil, nil
	}
	return u.Email, nil
}

func userField(get func(*model.User) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) { return get(p.Source.(*model.User)), nil }
}

func bookField(get func(*model.Book) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) { return get(p.Source.(*model.Book)), nil }
}

func clubField(get func(*model.Club) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) { return get(p.Source.(*model.Club)), nil }
}

func reviewField(get func(*model.Review) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) { return get(p.Source.(*model.Review)), nil }
}

func ratingField(get func(*model.Rating) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) { return get(p.Source.(*model.Rating)), nil }
}
