// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/errs"
	"github.com/lanternhq/lantern/internal/store"
)

const (
	meetupCollection     = "meetups"
	invitationCollection = "meetup.invitations"
)

// MeetupType distinguishes virtual from in-person meetups.
type MeetupType string

const (
	MeetupVirtual  MeetupType = "virtual"
	MeetupInPerson MeetupType = "in-person"
)

// Meetup is a planned meeting between two friends.
type Meetup struct {
	ID        string     `json:"id"`
	Attendee1 string     `json:"attendee1"`
	Attendee2 string     `json:"attendee2"`
	Name      string     `json:"name"`
	Type      MeetupType `json:"type"`
	Date      string     `json:"date"`
	Location  string     `json:"location"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// involves reports whether user is one of the attendees.
func (m *Meetup) involves(user string) bool {
	return m.Attendee1 == user || m.Attendee2 == user
}

// MeetupInvitation records an invitation and its outcome, like
// FriendRequest does for friendships.
type MeetupInvitation struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Status RequestStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// MeetupService manages meetups and their invitations. Invitations can
// only flow between friends, so the service consults the friend service.
type MeetupService struct {
	db      *store.Store
	friends *FriendService
	logger  zerolog.Logger
}

// NewMeetupService creates a meetup service.
func NewMeetupService(db *store.Store, friends *FriendService) *MeetupService {
	return &MeetupService{
		db:      db,
		friends: friends,
		logger:  zerolog.Nop(),
	}
}

// SetLogger attaches a logger; a nop logger is used otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *MeetupService) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "meetups").Logger()
}

// SendInvitation invites a friend to a meetup. The two users must be
// friends and must not already have a pending invitation between them in
// either direction.
func (s *MeetupService) SendInvitation(ctx context.Context, from, to string) error {
	friends, err := s.friends.AreFriends(ctx, from, to)
	if err != nil {
		return err
	}
	if !friends {
		return fmt.Errorf("users %s and %s are not friends: %w", from, to, errs.ErrNotAllowed)
	}

	for _, key := range []string{requestKey(from, to, StatusPending), requestKey(to, from, StatusPending)} {
		var inv MeetupInvitation
		err := s.db.Get(ctx, invitationCollection, key, &inv)
		if err == nil {
			return fmt.Errorf("meetup invitation between %s and %s already pending: %w", from, to, errs.ErrAlreadyExists)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	inv := &MeetupInvitation{From: from, To: to, Status: StatusPending, CreatedAt: time.Now().UTC()}
	return s.db.Put(ctx, invitationCollection, requestKey(from, to, StatusPending), inv)
}

// AcceptInvitation accepts a pending invitation, recording the acceptance
// and creating a meetup with placeholder details to be filled in through
// SetMeetupInfo.
func (s *MeetupService) AcceptInvitation(ctx context.Context, from, to string) error {
	if err := s.removePendingInvitation(ctx, from, to); err != nil {
		return err
	}

	now := time.Now().UTC()
	inv := &MeetupInvitation{From: from, To: to, Status: StatusAccepted, CreatedAt: now}
	if err := s.db.Put(ctx, invitationCollection, requestKey(from, to, StatusAccepted), inv); err != nil {
		return err
	}

	meetup := &Meetup{
		ID:        uuid.New().String(),
		Attendee1: from,
		Attendee2: to,
		Type:      MeetupVirtual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Put(ctx, meetupCollection, meetup.ID, meetup); err != nil {
		return err
	}

	s.logger.Debug().Str("from", from).Str("to", to).Str("meetup", meetup.ID).Msg("meetup invitation accepted")
	return nil
}

// RejectInvitation rejects a pending invitation, recording the rejection.
func (s *MeetupService) RejectInvitation(ctx context.Context, from, to string) error {
	if err := s.removePendingInvitation(ctx, from, to); err != nil {
		return err
	}
	inv := &MeetupInvitation{From: from, To: to, Status: StatusRejected, CreatedAt: time.Now().UTC()}
	return s.db.Put(ctx, invitationCollection, requestKey(from, to, StatusRejected), inv)
}

// RemoveInvitation withdraws a pending invitation.
func (s *MeetupService) RemoveInvitation(ctx context.Context, from, to string) error {
	return s.removePendingInvitation(ctx, from, to)
}

// ListInvitations returns every invitation involving the user.
func (s *MeetupService) ListInvitations(ctx context.Context, user string) ([]*MeetupInvitation, error) {
	var invs []*MeetupInvitation
	err := s.db.Scan(ctx, invitationCollection, func(_ string, value []byte) error {
		var inv MeetupInvitation
		if err := json.Unmarshal(value, &inv); err != nil {
			return err
		}
		if inv.From == user || inv.To == user {
			invs = append(invs, &inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// ListMeetups returns every meetup the user attends.
func (s *MeetupService) ListMeetups(ctx context.Context, user string) ([]*Meetup, error) {
	var meetups []*Meetup
	err := s.db.Scan(ctx, meetupCollection, func(_ string, value []byte) error {
		var m Meetup
		if err := json.Unmarshal(value, &m); err != nil {
			return err
		}
		if m.involves(user) {
			meetups = append(meetups, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meetups, nil
}

// MeetupInfo holds the optional details of a meetup. Nil fields are left
// unchanged.
type MeetupInfo struct {
	Name     *string     `json:"name,omitempty"`
	Type     *MeetupType `json:"type,omitempty"`
	Date     *string     `json:"date,omitempty"`
	Location *string     `json:"location,omitempty"`
}

// SetMeetupInfo updates the details of the meetup between user and
// friend. At least one field must be provided.
func (s *MeetupService) SetMeetupInfo(ctx context.Context, user, friend string, info MeetupInfo) error {
	if info.Name == nil && info.Type == nil && info.Date == nil && info.Location == nil {
		return fmt.Errorf("no meetup info provided: %w", errs.ErrNotAllowed)
	}

	meetup, err := s.meetupBetween(ctx, user, friend)
	if err != nil {
		return err
	}

	if info.Name != nil {
		meetup.Name = *info.Name
	}
	if info.Type != nil {
		if *info.Type != MeetupVirtual && *info.Type != MeetupInPerson {
			return fmt.Errorf("invalid meetup type %q: %w", *info.Type, errs.ErrNotAllowed)
		}
		meetup.Type = *info.Type
	}
	if info.Date != nil {
		meetup.Date = *info.Date
	}
	if info.Location != nil {
		meetup.Location = *info.Location
	}
	meetup.UpdatedAt = time.Now().UTC()
	return s.db.Put(ctx, meetupCollection, meetup.ID, meetup)
}

// RemoveMeetup deletes a meetup.
func (s *MeetupService) RemoveMeetup(ctx context.Context, id string) error {
	return s.db.Delete(ctx, meetupCollection, id)
}

// RequireAttendee fails with a not-allowed kind unless user attends the
// meetup, or not-found if the meetup does not exist.
func (s *MeetupService) RequireAttendee(ctx context.Context, user, id string) error {
	var m Meetup
	err := s.db.Get(ctx, meetupCollection, id, &m)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("meetup %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !m.involves(user) {
		return fmt.Errorf("user %s is not an attendee of meetup %s: %w", user, id, errs.ErrNotAllowed)
	}
	return nil
}

// meetupBetween finds the meetup between the two users.
func (s *MeetupService) meetupBetween(ctx context.Context, a, b string) (*Meetup, error) {
	var found *Meetup
	err := s.db.Scan(ctx, meetupCollection, func(_ string, value []byte) error {
		if found != nil {
			return nil
		}
		var m Meetup
		if err := json.Unmarshal(value, &m); err != nil {
			return err
		}
		if m.involves(a) && m.involves(b) {
			found = &m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("meetup between %s and %s: %w", a, b, errs.ErrNotFound)
	}
	return found, nil
}

// removePendingInvitation deletes the pending invitation from one user to
// another, failing with a not-found kind if there is none.
func (s *MeetupService) removePendingInvitation(ctx context.Context, from, to string) error {
	key := requestKey(from, to, StatusPending)
	var inv MeetupInvitation
	err := s.db.Get(ctx, invitationCollection, key, &inv)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("meetup invitation from %s to %s: %w", from, to, errs.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return s.db.Delete(ctx, invitationCollection, key)
}
