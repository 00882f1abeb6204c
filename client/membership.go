package client

import (
	"context"
	"encoding/json"
	"slices"
)

// MembershipKey is the storage key of the clubs userID has joined.
func MembershipKey(userID string) string {
	return "joinedClubs_" + userID
}

// ClubMembers is the part of a server club response that decides membership.
type ClubMembers struct {
	ID      string   `json:"id"`
	UserIDs []string `json:"userIds"`
}

// MembershipCache remembers which clubs the signed-in user belongs to. It is
// only ever written from server responses.
type MembershipCache struct {
	storage Storage
}

func NewMembershipCache(storage Storage) *MembershipCache {
	return &MembershipCache{storage: storage}
}

// Clubs returns the cached club ids. A missing or unreadable entry is empty.
func (m *MembershipCache) Clubs(ctx context.Context, userID string) ([]string, error) {
	raw, ok, err := m.storage.Get(ctx, MembershipKey(userID))
	if err != nil || !ok {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

func (m *MembershipCache) IsMember(ctx context.Context, userID, clubID string) (bool, error) {
	ids, err := m.Clubs(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, clubID), nil
}

// Replace overwrites the entry with the clubs whose member list, as
// reported by the server, contains userID.
func (m *MembershipCache) Replace(ctx context.Context, userID string, clubs []ClubMembers) error {
	ids := make([]string, 0, len(clubs))
	for _, club := range clubs {
		if slices.Contains(club.UserIDs, userID) {
			ids = append(ids, club.ID)
		}
	}
	return m.write(ctx, userID, ids)
}

// Apply updates a single club from a server response, adding or dropping it
// according to its member list.
func (m *MembershipCache) Apply(ctx context.Context, userID string, club ClubMembers) error {
	ids, err := m.Clubs(ctx, userID)
	if err != nil {
		return err
	}
	ids = slices.DeleteFunc(ids, func(id string) bool { return id == club.ID })
	if slices.Contains(club.UserIDs, userID) {
		ids = append(ids, club.ID)
	}
	return m.write(ctx, userID, ids)
}

func (m *MembershipCache) write(ctx context.Context, userID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return m.storage.Set(ctx, MembershipKey(userID), string(raw))
}
