package store

import (
	"context"

	"partsmarket/internal/client"
	"partsmarket/internal/dto"
	"partsmarket/internal/model"
	"partsmarket/internal/session"
)

// AuthStore pairs the account snapshot with the durable session: every
// successful register/login writes both slots before the snapshot is
// published, so a crash never leaves the UI signed in without a token.
type AuthStore struct {
	api  client.MarketClient
	sess *session.Session
	user *resource[*model.User]
}

func NewAuthStore(api client.MarketClient, sess *session.Session) *AuthStore {
	s := &AuthStore{api: api, sess: sess, user: newResource[*model.User]()}
	if u := sess.User(); u != nil {
		s.user.seed(u)
	}
	return s
}

func (s *AuthStore) User() View[*model.User]  { return s.user.view() }
func (s *AuthStore) Changed() <-chan struct{} { return s.user.changedCh() }
func (s *AuthStore) Tier() model.Tier         { return s.sess.Tier() }
func (s *AuthStore) SignedIn() bool           { return s.sess.SignedIn() }

func (s *AuthStore) Register(ctx context.Context, req *dto.RegisterRequest) <-chan struct{} {
	seq := s.user.beginFetch(false)
	return s.dispatch(seq, func() (*dto.AuthResponse, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *AuthStore) Login(ctx context.Context, creds *dto.Credentials) <-chan struct{} {
	seq := s.user.beginFetch(false)
	return s.dispatch(seq, func() (*dto.AuthResponse, error) {
		return s.api.Login(ctx, creds)
	})
}

func (s *AuthStore) AdminLogin(ctx context.Context, creds *dto.Credentials) <-chan struct{} {
	seq := s.user.beginFetch(false)
	return s.dispatch(seq, func() (*dto.AuthResponse, error) {
		return s.api.AdminLogin(ctx, creds)
	})
}

// Logout clears both durable slots together and empties the snapshot.
// It is synchronous; no request is involved.
func (s *AuthStore) Logout() error {
	if err := s.sess.Clear(); err != nil {
		return err
	}
	s.user.reset()
	return nil
}

func (s *AuthStore) dispatch(seq uint64, call func() (*dto.AuthResponse, error)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := call()
		if err != nil {
			s.user.fail(seq, err.Error())
			return
		}
		if err := s.sess.SignIn(resp.User, resp.Token); err != nil {
			s.user.fail(seq, err.Error())
			return
		}
		s.user.succeed(seq, resp.User)
	}()
	return done
}
