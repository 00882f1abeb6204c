package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
)

// GraphQLError carries the messages of a response whose errors array was
// not empty.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return bookclub_errors.ErrGraphQLRequest.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *GraphQLError) Unwrap() error { return bookclub_errors.ErrGraphQLRequest }

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// API talks to the GraphQL endpoint as the session's user.
type API struct {
	baseURL     string
	httpClient  *http.Client
	session     *Session
	memberships *MembershipCache
}

func NewAPI(baseURL string, httpClient *http.Client, session *Session, memberships *MembershipCache) *API {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &API{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		session:     session,
		memberships: memberships,
	}
}

// GraphQL posts query with vars and decodes the data object into out. A
// live session token is sent as a Bearer header.
func (a *API) GraphQL(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	token, err := a.session.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", bookclub_errors.ErrGraphQLRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result graphQLResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(result.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range result.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	if out == nil || len(result.Data) == 0 {
		return nil
	}
	return json.Unmarshal(result.Data, out)
}

// Login exchanges credentials for a token and stores it.
func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	var data struct {
		Login struct {
			Token string `json:"token"`
			User  struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		} `json:"login"`
	}
	err := a.GraphQL(ctx,
		`mutation Login($email: String!, $password: String!) { login(email: $email, password: $password) { token user { id username } } }`,
		map[string]interface{}{"email": email, "password": password}, &data)
	if err != nil {
		return "", err
	}
	if err := a.session.Save(ctx, data.Login.Token); err != nil {
		return "", err
	}
	return data.Login.User.Username, nil
}

// MyClubs loads the signed-in user's clubs and refreshes the membership
// cache from the answer.
func (a *API) MyClubs(ctx context.Context) ([]ClubMembers, error) {
	identity, err := a.session.Identity(ctx)
	if err != nil {
		return nil, err
	}
	var data struct {
		Me struct {
			Clubs []ClubMembers `json:"clubs"`
		} `json:"me"`
	}
	if err := a.GraphQL(ctx, `{ me { clubs { id userIds } } }`, nil, &data); err != nil {
		return nil, err
	}
	if err := a.memberships.Replace(ctx, identity.ID, data.Me.Clubs); err != nil {
		return nil, err
	}
	return data.Me.Clubs, nil
}

// JoinClub joins clubID and records the server's member list.
func (a *API) JoinClub(ctx context.Context, clubID string) (*ClubMembers, error) {
	return a.membershipMutation(ctx, "joinClub", clubID)
}

// LeaveClub leaves clubID and records the server's member list.
func (a *API) LeaveClub(ctx context.Context, clubID string) (*ClubMembers, error) {
	return a.membershipMutation(ctx, "leaveClub", clubID)
}

func (a *API) membershipMutation(ctx context.Context, field, clubID string) (*ClubMembers, error) {
	identity, err := a.session.Identity(ctx)
	if err != nil {
		return nil, err
	}
	var data map[string]ClubMembers
	query := fmt.Sprintf(`mutation Membership($clubId: ID!) { %s(clubId: $clubId) { id userIds } }`, field)
	if err := a.GraphQL(ctx, query, map[string]interface{}{"clubId": clubID}, &data); err != nil {
		return nil, err
	}
	club := data[field]
	if err := a.memberships.Apply(ctx, identity.ID, club); err != nil {
		return nil, err
	}
	return &club, nil
}
